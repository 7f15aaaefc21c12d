package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/skip2/go-qrcode"

	"github.com/ptnguyen/fundflow/internal/auth"
	"github.com/ptnguyen/fundflow/internal/transport"
	"github.com/ptnguyen/fundflow/pkg/logger"
)

type ServiceAPI interface {
	CreateCampaign(ctx context.Context, creatorID int64, dto CreateCampaignDTO) (*Campaign, error)
	ListByStatus(ctx context.Context, status string, params ListParams) (*ListView, error)
	ListByAdmin(ctx context.Context, adminID int64, params ListParams) (*ListView, error)
	ListByCreator(ctx context.Context, creatorID int64, params ListParams) (*ListView, error)
	Choose(ctx context.Context, campaignID, adminID int64) (*Campaign, error)
	Approve(ctx context.Context, campaignID int64) (*Campaign, error)
	GetDetail(ctx context.Context, campaignID int64) (*Campaign, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	publicURL string
}

func NewHandler(service ServiceAPI, publicURL string) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
		publicURL:   publicURL,
	}
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCampaignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCampaign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.CreateCampaign(r.Context(), user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, StatusApproved)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, StatusPending)
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request, status string) {
	view, err := h.Service.ListByStatus(r.Context(), status, paginationFrom(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// ListDepended returns the campaigns the authenticated admin has claimed.
func (h *Handler) ListDepended(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.Service.ListByAdmin(r.Context(), user.ID, paginationFrom(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// ListCurrent returns the campaigns created by the authenticated user.
func (h *Handler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.Service.ListByCreator(r.Context(), user.ID, paginationFrom(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) GetDetail(w http.ResponseWriter, r *http.Request) {
	campaignID, err := campaignIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid campaign ID")
		return
	}

	c, err := h.Service.GetDetail(r.Context(), campaignID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Choose(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	campaignID, err := campaignIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid campaign ID")
		return
	}

	c, err := h.Service.Choose(r.Context(), campaignID, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	campaignID, err := campaignIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid campaign ID")
		return
	}

	c, err := h.Service.Approve(r.Context(), campaignID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// QRCode renders a PNG QR code pointing at the campaign's public detail page.
func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	campaignID, err := campaignIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid campaign ID")
		return
	}

	if _, err := h.Service.GetDetail(r.Context(), campaignID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	target := fmt.Sprintf("%s/campaign/detail/%d", h.publicURL, campaignID)
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		h.Logger.Error("QRCode: encode failed", "error", err, "campaign_id", campaignID)
		h.WriteError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("QRCode: write failed", "error", err)
	}
}

func campaignIDParam(r *http.Request) (int64, error) {
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
