package models

import "time"

// PurchaseState is the storefront-reported state of a single order.
// The integer values are the storefront's wire values and must not change.
type PurchaseState int

const (
	StatePurchased PurchaseState = 0
	StateCanceled  PurchaseState = 1
	StateRefunded  PurchaseState = 2
)

// Valid reports whether the wire value maps to a known state.
func (s PurchaseState) Valid() bool {
	return s >= StatePurchased && s <= StateRefunded
}

func (s PurchaseState) String() string {
	switch s {
	case StatePurchased:
		return "purchased"
	case StateCanceled:
		return "canceled"
	case StateRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// ResponseCode is the storefront's numeric outcome for a billing request.
// Values mirror the storefront protocol.
type ResponseCode int

const (
	ResultOK ResponseCode = iota
	ResultUserCanceled
	ResultServiceUnavailable
	ResultBillingUnavailable
	ResultItemUnavailable
	ResultDeveloperError
	ResultError
)

func (c ResponseCode) String() string {
	switch c {
	case ResultOK:
		return "ok"
	case ResultUserCanceled:
		return "user_canceled"
	case ResultServiceUnavailable:
		return "service_unavailable"
	case ResultBillingUnavailable:
		return "billing_unavailable"
	case ResultItemUnavailable:
		return "item_unavailable"
	case ResultDeveloperError:
		return "developer_error"
	default:
		return "error"
	}
}

// IsOK reports whether the request completed successfully.
func (c ResponseCode) IsOK() bool { return c == ResultOK }

// BillingStatus is the resolution state of a storefront capability check.
//
// Invariants enforced by the controller:
//   - subscriptions SUPPORTED implies one-shot purchases SUPPORTED
//   - one-shot purchases UNSUPPORTED implies subscriptions UNSUPPORTED
//   - a resolved status never reverts to StatusUnknown within a process
type BillingStatus int

const (
	StatusUnknown BillingStatus = iota
	StatusSupported
	StatusUnsupported
)

func (s BillingStatus) String() string {
	switch s {
	case StatusSupported:
		return "supported"
	case StatusUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Capability names a storefront billing capability, using the storefront's
// item-type strings.
type Capability string

const (
	CapabilityItems         Capability = "inapp"
	CapabilitySubscriptions Capability = "subs"
)

// Transaction is one purchase/entitlement event.
//
// OrderID, ProductID and DeveloperPayload are obfuscated before the record
// reaches a ledger store and are only unobfuscated in memory for callers of
// the controller's query methods. A Transaction is written once and never
// mutated; it disappears only through revocation or subscription-period
// supersession.
type Transaction struct {
	OrderID          string
	ProductID        string
	DeveloperPayload string
	// NotificationID correlates the record with the storefront notification
	// that delivered it. Absent for restored transactions.
	NotificationID string
	PurchaseState  PurchaseState
	PurchaseTime   time.Time
}
