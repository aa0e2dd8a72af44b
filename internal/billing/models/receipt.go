package models

import (
	"strings"
	"time"
)

// ItemType classifies a receipt from a receipt-based storefront.
type ItemType string

const (
	ItemConsumable   ItemType = "consumable"
	ItemEntitled     ItemType = "entitled"
	ItemSubscription ItemType = "subscription"
)

// PurchaseStatus is the outcome of a receipt-based purchase request.
type PurchaseStatus string

const (
	PurchaseSuccessful      PurchaseStatus = "successful"
	PurchaseAlreadyEntitled PurchaseStatus = "already_entitled"
	PurchaseFailed          PurchaseStatus = "failed"
	PurchaseInvalidSKU      PurchaseStatus = "invalid_sku"
)

// SubscriptionPeriod describes one billing period of a subscription receipt.
// A nil End means the period is still open (active subscription).
type SubscriptionPeriod struct {
	Start time.Time
	End   *time.Time
}

// Receipt is a storefront-issued proof of purchase (receipt-based flavor).
// Subscription SKUs are dotted: family SKU first, period suffix after.
type Receipt struct {
	PurchaseToken      string
	SKU                string
	ItemType           ItemType
	SubscriptionPeriod *SubscriptionPeriod
}

// FamilySKU returns the subscription family portion of the receipt's SKU,
// or the SKU itself for non-dotted values.
func (r Receipt) FamilySKU() string {
	sku, _, _ := strings.Cut(r.SKU, ".")
	return sku
}

// Transaction synthesizes a PURCHASED ledger record from the receipt.
// Subscription receipts collapse to their family SKU so every period of one
// subscription shares a ledger identity.
func (r Receipt) Transaction(now time.Time) Transaction {
	productID := r.SKU
	if r.ItemType == ItemSubscription {
		productID = r.FamilySKU()
	}
	return Transaction{
		OrderID:       r.PurchaseToken,
		ProductID:     productID,
		PurchaseState: StatePurchased,
		PurchaseTime:  now.UTC(),
	}
}

// PurchaseResult is the asynchronous answer to a receipt-based purchase
// request.
type PurchaseResult struct {
	UserID  string
	SKU     string
	Status  PurchaseStatus
	Receipt *Receipt
}

// PurchaseUpdate is a batch restore/sync response from a receipt-based
// storefront: everything the user currently owns plus anything revoked.
type PurchaseUpdate struct {
	UserID      string
	RevokedSKUs []string
	Receipts    []Receipt
}
