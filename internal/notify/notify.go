// Package notify carries fully-validated billing domain events from the
// controller to whoever renders or reacts to them. The controller only ever
// sees the Notifier interface; fan-out, buffering and message-bus publishing
// are implementations.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"entitle/internal/billing/models"
)

// EventType names a billing domain event.
type EventType string

const (
	EventBillingChecked          EventType = "billing_checked"
	EventSubscriptionChecked     EventType = "subscription_checked"
	EventPurchaseStateChanged    EventType = "purchase_state_changed"
	EventPurchaseRequestResponse EventType = "purchase_request_response"
	EventTransactionsRestored    EventType = "transactions_restored"
)

// Event is one billing domain event. Only the fields relevant to the event
// type are populated.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Support checks.
	Supported bool `json:"supported,omitempty"`

	// Purchase state changes.
	ProductID string               `json:"product_id,omitempty"`
	State     models.PurchaseState `json:"state,omitempty"`

	// Purchase request responses.
	ItemID       string              `json:"item_id,omitempty"`
	ResponseCode models.ResponseCode `json:"response_code,omitempty"`
}

// Notifier receives validated domain events. Implementations must not block
// the ingestion pipeline for long and must never panic into it.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

func newEvent(t EventType) Event {
	return Event{ID: uuid.New(), Type: t, Timestamp: time.Now().UTC()}
}

// BillingChecked builds the event for a resolved one-shot support check.
func BillingChecked(supported bool) Event {
	e := newEvent(EventBillingChecked)
	e.Supported = supported
	return e
}

// SubscriptionChecked builds the event for a resolved subscription support check.
func SubscriptionChecked(supported bool) Event {
	e := newEvent(EventSubscriptionChecked)
	e.Supported = supported
	return e
}

// PurchaseStateChanged builds the per-item state change event.
func PurchaseStateChanged(productID string, state models.PurchaseState) Event {
	e := newEvent(EventPurchaseStateChanged)
	e.ProductID = productID
	e.State = state
	return e
}

// PurchaseRequestResponse builds the event carrying a request's response code.
func PurchaseRequestResponse(itemID string, code models.ResponseCode) Event {
	e := newEvent(EventPurchaseRequestResponse)
	e.ItemID = itemID
	e.ResponseCode = code
	return e
}

// TransactionsRestored builds the restore-completed event.
func TransactionsRestored() Event {
	return newEvent(EventTransactionsRestored)
}
