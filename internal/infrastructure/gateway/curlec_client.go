// Package gateway talks to the Curlec payment gateway. Curlec runs on the
// Razorpay API surface: basic auth with the key pair, plus an account header
// when a sub-account is configured.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mari-gunting.backend/internal/config"
	domainerrors "mari-gunting.backend/internal/domain/errors"
)

// Order is a gateway order awaiting payment.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Payment is the gateway's view of one payment attempt.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Captured bool   `json:"captured"`
}

// Refund is a gateway refund against a captured payment.
type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// CreateOrderRequest creates an order in manual-capture mode so the payment
// is only authorized at checkout and captured later by the queue.
type CreateOrderRequest struct {
	AmountMinorUnits int64
	Currency         string
	Receipt          string
	Notes            map[string]string
}

// Client is the HTTP client for the Curlec gateway. It performs no retries;
// retry policy belongs to the capture queue.
type Client struct {
	cfg        config.CurlecConfig
	httpClient *http.Client
}

// NewClient creates a gateway client from configuration
func NewClient(cfg config.CurlecConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateOrder creates a manual-capture order for the given amount
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	currency := req.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}
	body := map[string]interface{}{
		"amount":   req.AmountMinorUnits,
		"currency": currency,
		"receipt":  req.Receipt,
		"payment": map[string]interface{}{
			"capture": "manual",
		},
	}
	if len(req.Notes) > 0 {
		body["notes"] = req.Notes
	}

	var order Order
	if err := c.post(ctx, "/orders", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Capture captures a previously authorized payment for the given amount
func (c *Client) Capture(ctx context.Context, paymentID string, amountMinorUnits int64, currency string) (*Payment, error) {
	if currency == "" {
		currency = c.cfg.Currency
	}
	body := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
	}

	var payment Payment
	if err := c.post(ctx, fmt.Sprintf("/payments/%s/capture", paymentID), body, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Refund refunds a captured payment, fully or partially
func (c *Client) Refund(ctx context.Context, paymentID string, amountMinorUnits int64, notes map[string]string) (*Refund, error) {
	body := map[string]interface{}{}
	if amountMinorUnits > 0 {
		body["amount"] = amountMinorUnits
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	var refund Refund
	if err := c.post(ctx, fmt.Sprintf("/payments/%s/refund", paymentID), body, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	if c.cfg.AccountID != "" {
		req.Header.Set("X-Razorpay-Account", c.cfg.AccountID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domainerrors.GatewayError{HTTPStatus: 0, RawBody: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domainerrors.GatewayError{HTTPStatus: resp.StatusCode, RawBody: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
