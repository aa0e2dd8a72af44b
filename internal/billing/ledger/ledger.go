// Package ledger persists the local record of purchase transactions.
//
// Stores hold records exactly as handed to them: identifying fields arrive
// already obfuscated and leave obfuscated. Interpreting them (unobfuscation,
// salt handling) is the controller's job, so a store never sees plaintext
// order or product ids.
package ledger

import (
	"context"

	"entitle/internal/billing/models"
)

// Store is the durable, append-mostly collection of purchase records.
//
// Add enforces no uniqueness: the storefront delivers at least once, and a
// duplicate delivery simply lands twice. Records only leave through
// RemoveByItems (revocation or subscription-period supersession).
type Store interface {
	Add(ctx context.Context, t models.Transaction) error
	// GetAll and GetByItem return records in insertion order.
	GetAll(ctx context.Context) ([]models.Transaction, error)
	GetByItem(ctx context.Context, obfuscatedItemID string) ([]models.Transaction, error)
	// IsPurchased is true iff at least one stored record for the item is in
	// state PURCHASED.
	IsPurchased(ctx context.Context, obfuscatedItemID string) (bool, error)
	// CountPurchases counts every PURCHASED record for the item, historical
	// ones included. Cancellations and refunds are not subtracted; that is
	// the documented behavior, not an oversight.
	CountPurchases(ctx context.Context, obfuscatedItemID string) (int, error)
	// RemoveByItems deletes every record whose (obfuscated) product id
	// matches any of the given ids.
	RemoveByItems(ctx context.Context, obfuscatedItemIDs []string) error
}
