package controller

import (
	"context"

	"entitle/internal/billing/models"
	"entitle/internal/billing/security"
	"entitle/internal/notify"
)

// This file covers receipt-based storefronts, where purchases resolve to
// receipts instead of signed payloads and entitlements are synced through
// purchase-update batches. Capability checks never reach the storefront:
// receipt-based billing is always available, so both statuses resolve
// supported on the first user change.

// OnUserChanged switches the controller to the storefront-reported user and
// resyncs the ledger for it. An unchanged user is a no-op.
func (c *Controller) OnUserChanged(ctx context.Context, userID string) {
	c.mu.Lock()
	if c.identity == userID {
		c.mu.Unlock()
		return
	}
	c.identity = userID
	c.billingStatus = models.StatusSupported
	c.subscriptionStatus = models.StatusSupported
	c.mu.Unlock()

	c.logger.Info("storefront user changed, restoring transactions")
	c.RestoreTransactions(ctx)
}

// OnPurchaseResult completes a receipt-based purchase request. A result for
// a different user than the current identity switches to that user first,
// restore included, so the receipt lands in the right ledger view.
func (c *Controller) OnPurchaseResult(ctx context.Context, result models.PurchaseResult) {
	if result.UserID != "" && result.UserID != c.Identity() {
		c.logger.Info("purchase result for a different user, switching", "user", result.UserID)
		c.OnUserChanged(ctx, result.UserID)
	}
	switch result.Status {
	case models.PurchaseSuccessful:
		if result.Receipt == nil {
			c.logger.Error("successful purchase carries no receipt", "sku", result.SKU)
			return
		}
		t := result.Receipt.Transaction(c.clock())
		if err := c.ledger.Add(ctx, c.obfuscateTransaction(c.salt(), t)); err != nil {
			c.logger.Error("could not store receipt transaction", "sku", result.SKU, "error", err)
			return
		}
		c.metrics.IncStored()
		c.notifier.Notify(ctx, notify.PurchaseStateChanged(t.ProductID, models.StatePurchased))
	case models.PurchaseAlreadyEntitled:
		// The entitlement is already in the ledger (or arrives with the next
		// purchase update); nothing to record.
		c.logger.Debug("purchase already entitled", "sku", result.SKU)
	case models.PurchaseInvalidSKU:
		c.notifier.Notify(ctx, notify.PurchaseRequestResponse(result.SKU, models.ResultItemUnavailable))
	default:
		c.notifier.Notify(ctx, notify.PurchaseRequestResponse(result.SKU, models.ResultError))
	}
}

// OnPurchaseUpdates applies a purchase-update batch: revocations first, then
// entitlements, then subscription period resolution. Batches for a user other
// than the current identity are dropped.
func (c *Controller) OnPurchaseUpdates(ctx context.Context, update models.PurchaseUpdate) {
	if current := c.Identity(); update.UserID != current {
		c.logger.Warn("purchase update for different user, dropping", "update_user", update.UserID)
		return
	}
	salt := c.salt()

	if len(update.RevokedSKUs) > 0 {
		revoked := make([]string, 0, len(update.RevokedSKUs))
		for _, sku := range update.RevokedSKUs {
			revoked = append(revoked, c.obfuscateKey(sku))
		}
		if err := c.ledger.RemoveByItems(ctx, revoked); err != nil {
			c.logger.Error("could not remove revoked entitlements", "error", err)
			return
		}
		c.logger.Info("revoked entitlements removed", "count", len(revoked))
	}

	// Latest subscription period per family; the whole batch describes the
	// current state, so only the newest period decides whether the family
	// entitlement stands.
	latest := make(map[string][]models.Receipt)
	for _, r := range update.Receipts {
		switch r.ItemType {
		case models.ItemEntitled:
			if err := c.ensureEntitled(ctx, salt, r); err != nil {
				c.logger.Error("could not re-entitle item", "sku", r.SKU, "error", err)
			}
		case models.ItemSubscription:
			family := r.FamilySKU()
			latest[family] = resolveLatestPeriod(latest[family], r)
		default:
			c.logger.Debug("ignoring receipt type in purchase update", "sku", r.SKU, "type", r.ItemType)
		}
	}

	for family, receipts := range latest {
		c.applySubscriptionPeriods(ctx, salt, family, receipts)
	}

	c.notifier.Notify(ctx, notify.TransactionsRestored())
}

// ensureEntitled writes the receipt's transaction unless the ledger already
// holds a purchase for the item, keeping repeated update batches idempotent.
// Subscription receipts are keyed by their family SKU, matching how their
// transactions land in the ledger.
func (c *Controller) ensureEntitled(ctx context.Context, salt []byte, r models.Receipt) error {
	t := r.Transaction(c.clock())
	owned, err := c.ledger.IsPurchased(ctx, security.Obfuscate(salt, t.ProductID))
	if err != nil || owned {
		return err
	}
	if err := c.ledger.Add(ctx, c.obfuscateTransaction(salt, t)); err != nil {
		return err
	}
	c.metrics.IncStored()
	c.notifier.Notify(ctx, notify.PurchaseStateChanged(t.ProductID, models.StatePurchased))
	return nil
}

// applySubscriptionPeriods settles one subscription family. Any latest-start
// candidate carrying an end date marks the family inactive and evicts its
// ledger entry, even when another candidate with the same start is still
// open; the entitlement stands only when every candidate period is open.
func (c *Controller) applySubscriptionPeriods(ctx context.Context, salt []byte, family string, receipts []models.Receipt) {
	for _, r := range receipts {
		if r.SubscriptionPeriod == nil || r.SubscriptionPeriod.End == nil {
			continue
		}
		key := security.Obfuscate(salt, family)
		if err := c.ledger.RemoveByItems(ctx, []string{key}); err != nil {
			c.logger.Error("could not expire subscription", "family", family, "error", err)
			return
		}
		c.notifier.Notify(ctx, notify.PurchaseStateChanged(family, models.StateCanceled))
		return
	}
	if err := c.ensureEntitled(ctx, salt, receipts[0]); err != nil {
		c.logger.Error("could not restore subscription", "family", family, "error", err)
	}
}

// resolveLatestPeriod keeps only the receipts with the latest period start.
// Receipts without period data never displace dated ones, and equal starts
// are all kept so an open period among them wins.
func resolveLatestPeriod(kept []models.Receipt, candidate models.Receipt) []models.Receipt {
	if candidate.SubscriptionPeriod == nil {
		if len(kept) == 0 {
			return []models.Receipt{candidate}
		}
		return kept
	}
	for _, k := range kept {
		if k.SubscriptionPeriod == nil {
			continue
		}
		if k.SubscriptionPeriod.Start.After(candidate.SubscriptionPeriod.Start) {
			return kept
		}
		if candidate.SubscriptionPeriod.Start.After(k.SubscriptionPeriod.Start) {
			return []models.Receipt{candidate}
		}
	}
	if len(kept) == 1 && kept[0].SubscriptionPeriod == nil {
		return []models.Receipt{candidate}
	}
	return append(kept, candidate)
}
