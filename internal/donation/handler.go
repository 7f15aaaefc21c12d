package donation

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ptnguyen/fundflow/internal/auth"
	"github.com/ptnguyen/fundflow/internal/transport"
	"github.com/ptnguyen/fundflow/pkg/logger"
)

type ServiceAPI interface {
	CreateDonation(ctx context.Context, userID *int64, dto CreateDonationDTO) (*CreateDonationResponse, error)
	HandleWebhook(ctx context.Context, raw []byte) (*Donation, error)
	ListDonations(ctx context.Context, campaignID *int64, params ListParams) (*ListView, error)
	ListByUser(ctx context.Context, userID int64, params ListParams) (*ListView, error)
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

// CreateDonation accepts both authenticated and anonymous donors. When no
// user is attached to the request an anonymous display name is required.
func (h *Handler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var dto CreateDonationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateDonation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var userID *int64
	if user, ok := auth.UserFromContext(r.Context()); ok && user != nil {
		userID = &user.ID
	}

	resp, err := h.Service.CreateDonation(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	var campaignID *int64
	if idStr := r.URL.Query().Get("campaign_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid campaign_id")
			return
		}
		campaignID = &id
	}

	view, err := h.Service.ListDonations(r.Context(), campaignID, paginationFrom(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.Service.ListByUser(r.Context(), user.ID, paginationFrom(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
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
