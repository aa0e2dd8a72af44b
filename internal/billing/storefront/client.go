// Package storefront talks to the storefront billing service. Requests are
// fire-and-forget: the service acknowledges with a request id and delivers
// the outcome later through the callback surface.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"entitle/internal/billing/models"
)

// Request method names, mirroring the storefront billing protocol.
const (
	methodCheckBillingSupported  = "CHECK_BILLING_SUPPORTED"
	methodRequestPurchase        = "REQUEST_PURCHASE"
	methodGetPurchaseInformation = "GET_PURCHASE_INFORMATION"
	methodConfirmNotifications   = "CONFIRM_NOTIFICATIONS"
	methodRestoreTransactions    = "RESTORE_TRANSACTIONS"
)

// Client sends billing requests to the storefront service over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type billingRequest struct {
	Method           string   `json:"method"`
	ItemType         string   `json:"item_type,omitempty"`
	ItemID           string   `json:"item_id,omitempty"`
	DeveloperPayload string   `json:"developer_payload,omitempty"`
	Nonce            uint64   `json:"nonce,omitempty"`
	NotificationIDs  []string `json:"notification_ids,omitempty"`
}

type billingResponse struct {
	RequestID int64 `json:"request_id"`
}

func (c *Client) SendSupportCheck(ctx context.Context, capability models.Capability) (int64, error) {
	return c.send(ctx, billingRequest{
		Method:   methodCheckBillingSupported,
		ItemType: string(capability),
	})
}

func (c *Client) SendPurchaseRequest(ctx context.Context, itemID, developerPayload string) (int64, error) {
	return c.send(ctx, billingRequest{
		Method:           methodRequestPurchase,
		ItemType:         string(models.CapabilityItems),
		ItemID:           itemID,
		DeveloperPayload: developerPayload,
	})
}

func (c *Client) SendSubscriptionRequest(ctx context.Context, itemID, developerPayload string) (int64, error) {
	return c.send(ctx, billingRequest{
		Method:           methodRequestPurchase,
		ItemType:         string(models.CapabilitySubscriptions),
		ItemID:           itemID,
		DeveloperPayload: developerPayload,
	})
}

func (c *Client) SendRestoreRequest(ctx context.Context, nonce uint64) (int64, error) {
	return c.send(ctx, billingRequest{
		Method: methodRestoreTransactions,
		Nonce:  nonce,
	})
}

func (c *Client) SendPurchaseInformationRequest(ctx context.Context, notificationIDs []string, nonce uint64) (int64, error) {
	return c.send(ctx, billingRequest{
		Method:          methodGetPurchaseInformation,
		NotificationIDs: notificationIDs,
		Nonce:           nonce,
	})
}

func (c *Client) SendConfirmations(ctx context.Context, notificationIDs []string) (int64, error) {
	return c.send(ctx, billingRequest{
		Method:          methodConfirmNotifications,
		NotificationIDs: notificationIDs,
	})
}

func (c *Client) send(ctx context.Context, payload billingRequest) (int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/billing/requests", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg := "billing request failed"
		if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
			trimmed := strings.TrimSpace(string(body))
			if trimmed != "" {
				msg = fmt.Sprintf("%s: %s", msg, trimmed)
			}
		}
		return 0, fmt.Errorf("%s (status %d)", msg, resp.StatusCode)
	}

	var ack billingResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return 0, err
	}
	return ack.RequestID, nil
}
