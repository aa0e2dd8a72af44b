package controller

import (
	"context"

	"entitle/internal/billing/models"
)

//go:generate mockgen -source=transport.go -destination=mocks/transport_mocks.go -package=mocks StorefrontTransport

// StorefrontTransport sends billing requests toward the storefront service.
// Every call is fire-and-forget: the returned request id correlates the
// eventual asynchronous response, and an error means the request never left
// (in which case nothing is registered and any nonce is released).
type StorefrontTransport interface {
	SendSupportCheck(ctx context.Context, capability models.Capability) (int64, error)
	SendPurchaseRequest(ctx context.Context, itemID, developerPayload string) (int64, error)
	SendSubscriptionRequest(ctx context.Context, itemID, developerPayload string) (int64, error)
	SendRestoreRequest(ctx context.Context, nonce uint64) (int64, error)
	SendPurchaseInformationRequest(ctx context.Context, notificationIDs []string, nonce uint64) (int64, error)
	SendConfirmations(ctx context.Context, notificationIDs []string) (int64, error)
}

// requestKind tags an in-flight request so its response code can be routed
// to the right completion behavior.
type requestKind string

const (
	kindCheckBillingSupported requestKind = "check_billing_supported"
	kindCheckSubscription     requestKind = "check_subscription_supported"
	kindRequestPurchase       requestKind = "request_purchase"
	kindRequestSubscription   requestKind = "request_subscription"
	kindRestoreTransactions   requestKind = "restore_transactions"
	kindGetPurchaseInfo       requestKind = "get_purchase_information"
	kindConfirmNotifications  requestKind = "confirm_notifications"
)

// pendingRequest is the correlator entry for one outstanding billing request.
type pendingRequest struct {
	kind     requestKind
	itemID   string
	nonce    uint64
	hasNonce bool
}

func (r *pendingRequest) Kind() string { return string(r.kind) }

func (r *pendingRequest) Nonce() (uint64, bool) { return r.nonce, r.hasNonce }
