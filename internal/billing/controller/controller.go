// Package controller orchestrates the billing core: it correlates outgoing
// requests with their asynchronous responses, gates inbound notifications
// behind signature and nonce verification, keeps the obfuscated transaction
// ledger consistent, and decides per item between automatic and manual
// confirmation.
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"entitle/internal/billing/correlator"
	"entitle/internal/billing/ledger"
	"entitle/internal/billing/metrics"
	"entitle/internal/billing/models"
	"entitle/internal/billing/nonce"
	"entitle/internal/billing/security"
	"entitle/internal/notify"
)

//go:generate mockgen -source=controller.go -destination=mocks/controller_mocks.go -package=mocks ConfigProvider

// ConfigProvider supplies on-demand configuration for the current identity.
// A nil/empty salt disables obfuscation; an empty public key disables
// signature validation (both are degraded modes, logged, never fatal).
type ConfigProvider interface {
	Salt(identity string) []byte
	PublicKey(identity string) string
}

// Controller is the billing state machine. One instance serves one signed-in
// identity at a time; all shared mutable state is guarded by a single mutex
// since contention is user-paced, not throughput-bound.
type Controller struct {
	transport StorefrontTransport
	notifier  notify.Notifier
	validator security.SignatureValidator
	nonces    nonce.Registry
	ledger    ledger.Store
	config    ConfigProvider
	pending   *correlator.Table
	logger    *slog.Logger
	metrics   *metrics.Metrics
	clock     func() time.Time

	mu                 sync.Mutex
	identity           string
	billingStatus      models.BillingStatus
	subscriptionStatus models.BillingStatus
	// manualConfirmations maps item id -> notification ids awaiting an
	// explicit ConfirmNotifications call.
	manualConfirmations map[string]map[string]struct{}
	// automaticConfirmations holds item ids whose notifications are
	// confirmed back to the storefront immediately on ingestion.
	automaticConfirmations map[string]struct{}
	debug                  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithDebug enables debug mode: empty signatures are accepted and signature
// validation is skipped. Only for sandbox testing against a storefront test
// harness; off unless explicitly requested.
func WithDebug(debug bool) Option {
	return func(c *Controller) { c.debug = debug }
}

// WithClock overrides the time source for synthesized receipt transactions.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New wires a Controller. The validator is pluggable so tests can substitute
// a deterministic fake without touching key material.
func New(
	transport StorefrontTransport,
	notifier notify.Notifier,
	validator security.SignatureValidator,
	nonces nonce.Registry,
	store ledger.Store,
	config ConfigProvider,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		transport:              transport,
		notifier:               notifier,
		validator:              validator,
		nonces:                 nonces,
		ledger:                 store,
		config:                 config,
		pending:                correlator.NewTable(),
		logger:                 logger,
		clock:                  time.Now,
		manualConfirmations:    make(map[string]map[string]struct{}),
		automaticConfirmations: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetIdentity switches the controller to a new signed-in identity. The salt
// and public key are re-resolved from the config provider on next use.
func (c *Controller) SetIdentity(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
}

// Identity returns the current signed-in identity.
func (c *Controller) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// CheckBillingSupported resolves the one-shot purchase capability. A known
// status is re-emitted synchronously without a transport call; otherwise a
// support check goes out and the answer arrives via OnResponseCode.
func (c *Controller) CheckBillingSupported(ctx context.Context) models.BillingStatus {
	c.mu.Lock()
	status := c.billingStatus
	c.mu.Unlock()

	if status != models.StatusUnknown {
		c.notifier.Notify(ctx, notify.BillingChecked(status == models.StatusSupported))
		return status
	}
	c.sendRequest(ctx, &pendingRequest{kind: kindCheckBillingSupported}, func() (int64, error) {
		return c.transport.SendSupportCheck(ctx, models.CapabilityItems)
	})
	return models.StatusUnknown
}

// CheckSubscriptionSupported resolves the subscription capability, same
// contract as CheckBillingSupported.
func (c *Controller) CheckSubscriptionSupported(ctx context.Context) models.BillingStatus {
	c.mu.Lock()
	status := c.subscriptionStatus
	c.mu.Unlock()

	if status != models.StatusUnknown {
		c.notifier.Notify(ctx, notify.SubscriptionChecked(status == models.StatusSupported))
		return status
	}
	c.sendRequest(ctx, &pendingRequest{kind: kindCheckSubscription}, func() (int64, error) {
		return c.transport.SendSupportCheck(ctx, models.CapabilitySubscriptions)
	})
	return models.StatusUnknown
}

// RequestPurchase asks the storefront to start a purchase. With autoConfirm,
// later notifications for this item are confirmed without user involvement.
func (c *Controller) RequestPurchase(ctx context.Context, itemID string, autoConfirm bool, developerPayload string) {
	if autoConfirm {
		c.mu.Lock()
		c.automaticConfirmations[itemID] = struct{}{}
		c.mu.Unlock()
	}
	c.sendRequest(ctx, &pendingRequest{kind: kindRequestPurchase, itemID: itemID}, func() (int64, error) {
		return c.transport.SendPurchaseRequest(ctx, itemID, developerPayload)
	})
}

// RequestSubscription asks the storefront to start a subscription purchase.
func (c *Controller) RequestSubscription(ctx context.Context, itemID string, autoConfirm bool, developerPayload string) {
	if autoConfirm {
		c.mu.Lock()
		c.automaticConfirmations[itemID] = struct{}{}
		c.mu.Unlock()
	}
	c.sendRequest(ctx, &pendingRequest{kind: kindRequestSubscription, itemID: itemID}, func() (int64, error) {
		return c.transport.SendSubscriptionRequest(ctx, itemID, developerPayload)
	})
}

// RestoreTransactions asks the storefront to redeliver the identity's
// transaction history, protected by a fresh nonce.
func (c *Controller) RestoreTransactions(ctx context.Context) {
	n, err := c.nonces.Generate(ctx)
	if err != nil {
		c.logger.Error("could not generate restore nonce", "error", err)
		return
	}
	c.sendRequest(ctx, &pendingRequest{kind: kindRestoreTransactions, nonce: n, hasNonce: true}, func() (int64, error) {
		return c.transport.SendRestoreRequest(ctx, n)
	})
}

// ConfirmNotifications confirms, in one batch, every notification pending
// manual confirmation for the item. Returns false when nothing was pending.
func (c *Controller) ConfirmNotifications(ctx context.Context, itemID string) bool {
	c.mu.Lock()
	pending := c.manualConfirmations[itemID]
	if len(pending) == 0 {
		c.mu.Unlock()
		return false
	}
	delete(c.manualConfirmations, itemID)
	c.mu.Unlock()

	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	c.sendRequest(ctx, &pendingRequest{kind: kindConfirmNotifications, itemID: itemID}, func() (int64, error) {
		return c.transport.SendConfirmations(ctx, ids)
	})
	c.metrics.AddConfirmations(len(ids))
	return true
}

// sendRequest issues one transport call and registers the pending entry on
// success. On immediate send failure the request's nonce (if any) is
// released instead of leaking as permanently outstanding, and purchase-type
// requests surface the failure as a response event.
func (c *Controller) sendRequest(ctx context.Context, req *pendingRequest, send func() (int64, error)) bool {
	requestID, err := send()
	if err != nil {
		c.logger.Warn("billing request failed to send", "kind", req.kind, "error", err)
		if n, ok := req.Nonce(); ok {
			if err := c.nonces.Remove(ctx, n); err != nil {
				c.logger.Error("could not release nonce", "error", err)
			}
		}
		c.completeFailedSend(ctx, req)
		return false
	}
	c.pending.Register(requestID, req)
	c.logger.Debug("billing request sent", "kind", req.kind, "request_id", requestID)
	return true
}

// completeFailedSend keeps the no-dangling-caller promise: a request that
// never left still resolves to a domain event where one is expected.
func (c *Controller) completeFailedSend(ctx context.Context, req *pendingRequest) {
	switch req.kind {
	case kindCheckBillingSupported:
		c.resolveBillingStatus(ctx, false)
	case kindCheckSubscription:
		c.resolveSubscriptionStatus(ctx, false)
	case kindRequestPurchase, kindRequestSubscription:
		c.notifier.Notify(ctx, notify.PurchaseRequestResponse(req.itemID, models.ResultServiceUnavailable))
	}
}

// resolveBillingStatus records the one-shot capability answer. Unsupported
// one-shot billing implies unsupported subscriptions; resolved status never
// reverts to unknown in-process.
func (c *Controller) resolveBillingStatus(ctx context.Context, supported bool) {
	c.mu.Lock()
	if supported {
		c.billingStatus = models.StatusSupported
	} else {
		c.billingStatus = models.StatusUnsupported
		c.subscriptionStatus = models.StatusUnsupported
	}
	c.mu.Unlock()
	c.notifier.Notify(ctx, notify.BillingChecked(supported))
}

// resolveSubscriptionStatus records the subscription capability answer.
// Supported subscriptions imply supported one-shot billing.
func (c *Controller) resolveSubscriptionStatus(ctx context.Context, supported bool) {
	c.mu.Lock()
	if supported {
		c.subscriptionStatus = models.StatusSupported
		c.billingStatus = models.StatusSupported
	} else {
		c.subscriptionStatus = models.StatusUnsupported
	}
	c.mu.Unlock()
	c.notifier.Notify(ctx, notify.SubscriptionChecked(supported))
}

// salt resolves the obfuscation salt for the current identity, logging the
// degraded mode once per call site when none is configured.
func (c *Controller) salt() []byte {
	c.mu.Lock()
	identity := c.identity
	c.mu.Unlock()
	salt := c.config.Salt(identity)
	if len(salt) == 0 {
		c.logger.Warn("no obfuscation salt configured, ledger operates on plaintext")
	}
	return salt
}

// obfuscateTransaction returns a copy of t with its identifying fields
// obfuscated for storage.
func (c *Controller) obfuscateTransaction(salt []byte, t models.Transaction) models.Transaction {
	t.OrderID = security.Obfuscate(salt, t.OrderID)
	t.ProductID = security.Obfuscate(salt, t.ProductID)
	t.DeveloperPayload = security.Obfuscate(salt, t.DeveloperPayload)
	return t
}

// unobfuscateTransaction reverses obfuscateTransaction. The false return
// means the record cannot be read with the current salt and must be dropped.
func (c *Controller) unobfuscateTransaction(salt []byte, t models.Transaction) (models.Transaction, bool) {
	var err error
	if t.OrderID, err = security.Unobfuscate(salt, t.OrderID); err != nil {
		return models.Transaction{}, false
	}
	if t.ProductID, err = security.Unobfuscate(salt, t.ProductID); err != nil {
		return models.Transaction{}, false
	}
	if t.DeveloperPayload, err = security.Unobfuscate(salt, t.DeveloperPayload); err != nil {
		return models.Transaction{}, false
	}
	return t, true
}

// Transactions lists all locally stored transactions, cancellations and
// refunds included. Records that fail to unobfuscate (rotated salt) are
// silently excluded.
func (c *Controller) Transactions(ctx context.Context) ([]models.Transaction, error) {
	stored, err := c.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return c.unobfuscateAll(stored), nil
}

// TransactionsForItem lists the stored transactions of one item.
func (c *Controller) TransactionsForItem(ctx context.Context, itemID string) ([]models.Transaction, error) {
	salt := c.salt()
	stored, err := c.ledger.GetByItem(ctx, security.Obfuscate(salt, itemID))
	if err != nil {
		return nil, err
	}
	return c.unobfuscateAll(stored), nil
}

// IsPurchased reports whether the item is registered as purchased locally.
// The item might have been purchased elsewhere and not yet restored here.
func (c *Controller) IsPurchased(ctx context.Context, itemID string) (bool, error) {
	return c.ledger.IsPurchased(ctx, security.Obfuscate(c.salt(), itemID))
}

// CountPurchases counts the item's purchases. Refunded and cancelled
// purchases are not subtracted.
func (c *Controller) CountPurchases(ctx context.Context, itemID string) (int, error) {
	return c.ledger.CountPurchases(ctx, security.Obfuscate(c.salt(), itemID))
}

func (c *Controller) unobfuscateAll(stored []models.Transaction) []models.Transaction {
	salt := c.salt()
	out := make([]models.Transaction, 0, len(stored))
	for _, t := range stored {
		clear, ok := c.unobfuscateTransaction(salt, t)
		if !ok {
			continue
		}
		out = append(out, clear)
	}
	return out
}
