package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"entitle/internal/billing/models"
)

//go:generate mockgen -source=handlers_callbacks.go -destination=mocks/callback_mocks.go -package=mocks CallbackService

// CallbackService is the controller surface the storefront callbacks map
// onto. Calls never return errors: bad input is rejected inside the billing
// core with a logged no-op.
type CallbackService interface {
	OnPurchaseStateChanged(ctx context.Context, signedData, signature string)
	OnResponseCode(ctx context.Context, requestID int64, code models.ResponseCode)
	OnNotify(ctx context.Context, notificationID string)
}

// CallbackHandler terminates the storefront's broadcast surface.
type CallbackHandler struct {
	logger  *slog.Logger
	billing CallbackService
}

func NewCallbackHandler(billing CallbackService, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{logger: logger, billing: billing}
}

// Register registers the callback routes with the chi router.
func (h *CallbackHandler) Register(r chi.Router) {
	r.Post("/callbacks/purchase-state", h.handlePurchaseState)
	r.Post("/callbacks/response-code", h.handleResponseCode)
	r.Post("/callbacks/notify", h.handleNotify)
}

type purchaseStateRequest struct {
	SignedData string `json:"signed_data"`
	Signature  string `json:"signature"`
}

// handlePurchaseState always answers 202: the storefront retries on other
// statuses, and verification failures must not leak which check rejected
// the payload.
func (h *CallbackHandler) handlePurchaseState(w http.ResponseWriter, r *http.Request) {
	var req purchaseStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.billing.OnPurchaseStateChanged(r.Context(), req.SignedData, req.Signature)
	w.WriteHeader(http.StatusAccepted)
}

type responseCodeRequest struct {
	RequestID    int64 `json:"request_id"`
	ResponseCode int   `json:"response_code"`
}

func (h *CallbackHandler) handleResponseCode(w http.ResponseWriter, r *http.Request) {
	var req responseCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.billing.OnResponseCode(r.Context(), req.RequestID, models.ResponseCode(req.ResponseCode))
	w.WriteHeader(http.StatusAccepted)
}

type notifyRequest struct {
	NotificationID string `json:"notification_id"`
}

func (h *CallbackHandler) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NotificationID == "" {
		writeError(w, http.StatusBadRequest, "notification_id is required")
		return
	}
	h.billing.OnNotify(r.Context(), req.NotificationID)
	w.WriteHeader(http.StatusAccepted)
}
