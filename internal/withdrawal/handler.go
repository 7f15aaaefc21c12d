package withdrawal

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/ptnguyen/fundflow/internal/auth"
	"github.com/ptnguyen/fundflow/internal/transport"
	"github.com/ptnguyen/fundflow/pkg/logger"
)

type ServiceAPI interface {
	CreateWithdrawal(ctx context.Context, userID int64, dto CreateWithdrawalDTO) (*Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, withdrawalID int64) (*Withdrawal, error)
	ListWithdrawals(ctx context.Context, statusFilter string, params ListParams) (*ListView, error)
	GetWithdrawal(ctx context.Context, id int64) (*Withdrawal, error)
	DeleteWithdrawal(ctx context.Context, id int64) error

	CreateProof(ctx context.Context, dto CreateProofDTO) (*Proof, error)
	ListProofs(ctx context.Context, withdrawalID int64) ([]*Proof, error)
	GetProof(ctx context.Context, id int64) (*Proof, error)
	DeleteProof(ctx context.Context, id int64) error

	AddProofImage(ctx context.Context, dto CreateProofImageDTO) (*ProofImage, error)
	ListProofImages(ctx context.Context, proofID int64) ([]*ProofImage, error)
	DeleteProofImage(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateWithdrawalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateWithdrawal: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wd, err := h.Service.CreateWithdrawal(r.Context(), user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, wd)
}

func (h *Handler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid withdrawal ID")
		return
	}

	wd, err := h.Service.ApproveWithdrawal(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wd)
}

func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	view, err := h.Service.ListWithdrawals(r.Context(), status, paginationFrom(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid withdrawal ID")
		return
	}

	wd, err := h.Service.GetWithdrawal(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wd)
}

func (h *Handler) DeleteWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid withdrawal ID")
		return
	}

	if err := h.Service.DeleteWithdrawal(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) CreateProof(w http.ResponseWriter, r *http.Request) {
	var dto CreateProofDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateProof: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.CreateProof(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

// ListProofs expects a withdrawal_id query parameter.
func (h *Handler) ListProofs(w http.ResponseWriter, r *http.Request) {
	withdrawalID, err := strconv.ParseInt(r.URL.Query().Get("withdrawal_id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid withdrawal_id")
		return
	}

	proofs, err := h.Service.ListProofs(r.Context(), withdrawalID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"proofs": proofs})
}

func (h *Handler) GetProof(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid proof ID")
		return
	}

	p, err := h.Service.GetProof(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProof(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid proof ID")
		return
	}

	if err := h.Service.DeleteProof(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AddProofImage(w http.ResponseWriter, r *http.Request) {
	var dto CreateProofImageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddProofImage: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	img, err := h.Service.AddProofImage(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, img)
}

// ListProofImages expects a proof_id query parameter.
func (h *Handler) ListProofImages(w http.ResponseWriter, r *http.Request) {
	proofID, err := strconv.ParseInt(r.URL.Query().Get("proof_id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid proof_id")
		return
	}

	images, err := h.Service.ListProofImages(r.Context(), proofID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"images": images})
}

func (h *Handler) DeleteProofImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid proof image ID")
		return
	}

	if err := h.Service.DeleteProofImage(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func paginationFrom(r *http.Request) ListParams {
	page := 1
	size := 10

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	return ListParams{Page: page, Size: size}
}
