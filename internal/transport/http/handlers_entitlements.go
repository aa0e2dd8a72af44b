package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"entitle/internal/billing/models"
	"entitle/internal/platform/middleware"
)

//go:generate mockgen -source=handlers_entitlements.go -destination=mocks/entitlement_mocks.go -package=mocks EntitlementService

// EntitlementService exposes the locally verified purchase state.
type EntitlementService interface {
	Transactions(ctx context.Context) ([]models.Transaction, error)
	TransactionsForItem(ctx context.Context, itemID string) ([]models.Transaction, error)
	IsPurchased(ctx context.Context, itemID string) (bool, error)
	CountPurchases(ctx context.Context, itemID string) (int, error)
	ConfirmNotifications(ctx context.Context, itemID string) bool
}

// EntitlementHandler serves the bearer-token guarded query API.
type EntitlementHandler struct {
	logger       *slog.Logger
	entitlements EntitlementService
	jwtValidator middleware.JWTValidator
}

func NewEntitlementHandler(
	entitlements EntitlementService,
	jwtValidator middleware.JWTValidator,
	logger *slog.Logger,
) *EntitlementHandler {
	return &EntitlementHandler{
		logger:       logger,
		entitlements: entitlements,
		jwtValidator: jwtValidator,
	}
}

// Register registers the entitlement routes with the chi router.
func (h *EntitlementHandler) Register(r chi.Router) {
	guarded := chi.NewRouter()
	guarded.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	guarded.Get("/entitlements", h.handleList)
	guarded.Get("/entitlements/{itemID}", h.handleItem)
	guarded.Post("/entitlements/{itemID}/confirm", h.handleConfirm)

	r.Mount("/", guarded)
}

type transactionResponse struct {
	OrderID          string    `json:"order_id"`
	ProductID        string    `json:"product_id"`
	DeveloperPayload string    `json:"developer_payload,omitempty"`
	State            string    `json:"state"`
	PurchaseTime     time.Time `json:"purchase_time"`
}

func toTransactionResponses(transactions []models.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, transactionResponse{
			OrderID:          t.OrderID,
			ProductID:        t.ProductID,
			DeveloperPayload: t.DeveloperPayload,
			State:            t.PurchaseState.String(),
			PurchaseTime:     t.PurchaseTime,
		})
	}
	return out
}

func (h *EntitlementHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transactions, err := h.entitlements.Transactions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list transactions",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toTransactionResponses(transactions),
	})
}

func (h *EntitlementHandler) handleItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := chi.URLParam(r, "itemID")

	purchased, err := h.entitlements.IsPurchased(ctx, itemID)
	if err == nil {
		var count int
		count, err = h.entitlements.CountPurchases(ctx, itemID)
		if err == nil {
			var transactions []models.Transaction
			transactions, err = h.entitlements.TransactionsForItem(ctx, itemID)
			if err == nil {
				writeJSON(w, http.StatusOK, map[string]any{
					"item_id":        itemID,
					"purchased":      purchased,
					"purchase_count": count,
					"transactions":   toTransactionResponses(transactions),
				})
				return
			}
		}
	}

	h.logger.ErrorContext(ctx, "failed to read entitlement",
		"item", itemID,
		"error", err,
		"request_id", middleware.GetRequestID(ctx),
	)
	writeError(w, http.StatusInternalServerError, "failed to read entitlement")
}

func (h *EntitlementHandler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if !h.entitlements.ConfirmNotifications(r.Context(), itemID) {
		writeError(w, http.StatusNotFound, "no notifications pending confirmation")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
