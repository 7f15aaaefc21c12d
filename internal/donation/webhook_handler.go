package donation

import (
	"io"
	"net/http"

	"github.com/ptnguyen/fundflow/internal/transport"
	"github.com/ptnguyen/fundflow/pkg/logger"
)

// WebhookHandler receives payment-confirmation callbacks from the gateway.
// It is mounted without authentication; the payload signature is the
// authenticity check.
type WebhookHandler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewWebhookHandler(service ServiceAPI) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error("HandleWebhook: failed to read body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	d, err := h.Service.HandleWebhook(r.Context(), raw)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "processed",
		"donation_id": d.ID,
	})
}
