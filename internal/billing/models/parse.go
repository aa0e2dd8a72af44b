package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SignedPayload is the decoded body of a purchase-state-changed notification:
// the replay-protection nonce plus the batch of order records it covers.
type SignedPayload struct {
	Nonce  uint64
	Orders []Transaction
}

type wirePayload struct {
	Nonce  uint64      `json:"nonce"`
	Orders []wireOrder `json:"orders"`
}

type wireOrder struct {
	NotificationID   string `json:"notificationId"`
	OrderID          string `json:"orderId"`
	ProductID        string `json:"productId"`
	PurchaseTime     int64  `json:"purchaseTime"`
	PurchaseState    int    `json:"purchaseState"`
	DeveloperPayload string `json:"developerPayload"`
}

// ParseSignedPayload decodes a signed notification document. Any malformed
// order fails the whole payload; callers must not apply partial results.
func ParseSignedPayload(signedData string) (*SignedPayload, error) {
	var wire wirePayload
	if err := json.Unmarshal([]byte(signedData), &wire); err != nil {
		return nil, fmt.Errorf("decode signed payload: %w", err)
	}

	payload := &SignedPayload{Nonce: wire.Nonce}
	for i, o := range wire.Orders {
		state := PurchaseState(o.PurchaseState)
		if !state.Valid() {
			return nil, fmt.Errorf("order %d: unknown purchase state %d", i, o.PurchaseState)
		}
		if o.ProductID == "" {
			return nil, fmt.Errorf("order %d: missing product id", i)
		}
		payload.Orders = append(payload.Orders, Transaction{
			OrderID:          o.OrderID,
			ProductID:        o.ProductID,
			DeveloperPayload: o.DeveloperPayload,
			NotificationID:   o.NotificationID,
			PurchaseState:    state,
			PurchaseTime:     time.UnixMilli(o.PurchaseTime).UTC(),
		})
	}
	return payload, nil
}
