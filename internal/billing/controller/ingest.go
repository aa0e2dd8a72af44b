package controller

import (
	"context"

	"entitle/internal/billing/metrics"
	"entitle/internal/billing/models"
	"entitle/internal/billing/security"
	"entitle/internal/notify"
)

// OnPurchaseStateChanged ingests a signed notification payload delivered by
// the storefront. The pipeline is: signature gate, nonce consumption, parse,
// then per-record confirmation decision, obfuscation and ledger write. Any
// failure rejects the whole payload with a logged no-op; no error reaches
// the transport layer and no partial batch reaches the ledger.
func (c *Controller) OnPurchaseStateChanged(ctx context.Context, signedData, signature string) {
	if signedData == "" {
		c.logger.Warn("signed data is empty")
		c.metrics.IncRejected(metrics.ReasonEmptyPayload)
		return
	}

	if !c.debugMode() {
		if signature == "" {
			c.logger.Warn("empty signature requires debug mode")
			c.metrics.IncRejected(metrics.ReasonEmptySignature)
			return
		}
		if !c.validator.Validate(signedData, signature) {
			c.logger.Warn("signature does not match data")
			c.metrics.IncRejected(metrics.ReasonBadSignature)
			return
		}
	}

	payload, err := models.ParseSignedPayload(signedData)
	if err != nil {
		c.logger.Error("could not parse signed payload", "error", err)
		c.metrics.IncRejected(metrics.ReasonMalformedPayload)
		return
	}

	if !c.consumeNonce(ctx, payload.Nonce) {
		c.logger.Warn("payload nonce is not outstanding, dropping", "nonce", payload.Nonce)
		c.metrics.IncRejected(metrics.ReasonUnknownNonce)
		return
	}
	c.metrics.IncVerified()

	salt := c.salt()

	// The record loop runs under the controller lock so two payloads cannot
	// interleave their confirmation decisions and ledger writes.
	c.mu.Lock()
	var (
		events        []notify.Event
		confirmations []string
	)
	for _, t := range payload.Orders {
		if t.NotificationID != "" {
			if _, auto := c.automaticConfirmations[t.ProductID]; auto {
				confirmations = append(confirmations, t.NotificationID)
			} else {
				c.addManualConfirmationLocked(t.ProductID, t.NotificationID)
			}
		}
		if err := c.ledger.Add(ctx, c.obfuscateTransaction(salt, t)); err != nil {
			c.logger.Error("could not store transaction", "item", t.ProductID, "error", err)
			break
		}
		c.metrics.IncStored()
		events = append(events, notify.PurchaseStateChanged(t.ProductID, t.PurchaseState))
	}
	c.mu.Unlock()

	for _, event := range events {
		c.notifier.Notify(ctx, event)
	}

	if len(confirmations) > 0 {
		c.sendRequest(ctx, &pendingRequest{kind: kindConfirmNotifications}, func() (int64, error) {
			return c.transport.SendConfirmations(ctx, confirmations)
		})
		c.metrics.AddConfirmations(len(confirmations))
	}
}

// OnResponseCode routes an asynchronous response code back to the request
// that triggered it. An unknown request id is a normal race (late duplicate
// or already-resolved request) and is discarded.
func (c *Controller) OnResponseCode(ctx context.Context, requestID int64, code models.ResponseCode) {
	req, ok := c.pending.Resolve(requestID)
	if !ok {
		c.logger.Debug("response for unknown request, discarding", "request_id", requestID, "code", code)
		return
	}
	c.logger.Debug("request resolved", "request_id", requestID, "kind", req.Kind(), "code", code)

	if n, hasNonce := req.Nonce(); hasNonce && !code.IsOK() {
		if err := c.nonces.Remove(ctx, n); err != nil {
			c.logger.Error("could not release nonce", "error", err)
		}
	}

	pending, isPending := req.(*pendingRequest)
	if !isPending {
		return
	}
	switch pending.kind {
	case kindCheckBillingSupported:
		c.resolveBillingStatus(ctx, code.IsOK())
	case kindCheckSubscription:
		c.resolveSubscriptionStatus(ctx, code.IsOK())
	case kindRequestPurchase, kindRequestSubscription:
		c.notifier.Notify(ctx, notify.PurchaseRequestResponse(pending.itemID, code))
	case kindRestoreTransactions:
		if code.IsOK() {
			c.notifier.Notify(ctx, notify.TransactionsRestored())
		}
	}
}

// OnNotify handles an unsolicited storefront notification by fetching its
// purchase information under a fresh nonce; the signed answer arrives later
// through OnPurchaseStateChanged.
func (c *Controller) OnNotify(ctx context.Context, notificationID string) {
	c.logger.Debug("notification available", "notification_id", notificationID)
	n, err := c.nonces.Generate(ctx)
	if err != nil {
		c.logger.Error("could not generate nonce for purchase information", "error", err)
		return
	}
	c.sendRequest(ctx, &pendingRequest{kind: kindGetPurchaseInfo, nonce: n, hasNonce: true}, func() (int64, error) {
		return c.transport.SendPurchaseInformationRequest(ctx, []string{notificationID}, n)
	})
}

// consumeNonce verifies the payload nonce is outstanding and removes it in
// one atomic registry call, so a replay of the same signed payload fails even
// with a valid signature and even when deliveries race each other.
func (c *Controller) consumeNonce(ctx context.Context, n uint64) bool {
	consumed, err := c.nonces.Consume(ctx, n)
	if err != nil {
		c.logger.Error("could not consume nonce", "error", err)
		return false
	}
	return consumed
}

func (c *Controller) addManualConfirmationLocked(itemID, notificationID string) {
	set := c.manualConfirmations[itemID]
	if set == nil {
		set = make(map[string]struct{})
		c.manualConfirmations[itemID] = set
	}
	set[notificationID] = struct{}{}
}

func (c *Controller) debugMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.debug
}

// obfuscateKey obfuscates a plaintext item id with the current salt for use
// as a ledger lookup key.
func (c *Controller) obfuscateKey(itemID string) string {
	return security.Obfuscate(c.salt(), itemID)
}
