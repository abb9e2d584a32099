// Package payment implements the outbound client for the YooKassa-style
// payment gateway: one authenticated JSON POST per logical payment attempt,
// guarded by a fresh idempotency token.
package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// GatewayError is a non-2xx response from the gateway. The raw response
// body is preserved so callers can surface the gateway's own error payload.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment: gateway returned status %d: %s", e.StatusCode, e.Body)
}

// Amount is a monetary value formatted to exactly two decimal places, as
// the gateway requires.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// NewAmount formats a float as a gateway amount in the fixed currency.
func NewAmount(value float64) Amount {
	return Amount{Value: fmt.Sprintf("%.2f", value), Currency: "RUB"}
}

type confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type receiptItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Amount      Amount `json:"amount"`
	VatCode     int    `json:"vat_code"`
}

type receipt struct {
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
	Items []receiptItem `json:"items"`
}

type createRequest struct {
	Amount       Amount            `json:"amount"`
	Confirmation confirmation      `json:"confirmation"`
	Capture      bool              `json:"capture"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata"`
	Receipt      *receipt          `json:"receipt,omitempty"`
}

type createResponse struct {
	ID           string       `json:"id"`
	Confirmation confirmation `json:"confirmation"`
}

// Payment is the gateway's answer to a successful creation request.
type Payment struct {
	ID              string
	ConfirmationURL string
}

// ReceiptItem describes one order line for the fiscal receipt.
type ReceiptItem struct {
	Name     string
	Quantity int
	Price    float64
}

// CreateParams carries everything needed for one payment-creation call.
type CreateParams struct {
	OrderID       int64
	OrderNumber   string
	TotalAmount   float64
	CustomerEmail string
	Items         []ReceiptItem
}

// Client talks to the payment gateway over HTTP Basic auth.
type Client struct {
	apiURL     string
	shopID     string
	secretKey  string
	returnURL  string
	httpClient *http.Client
}

// NewClient creates a gateway client. The default http.Client (no explicit
// timeout) matches the synchronous, best-effort call model: a slow gateway
// simply delays the response.
func NewClient(apiURL, shopID, secretKey, returnURL string) *Client {
	return &Client{
		apiURL:     apiURL,
		shopID:     shopID,
		secretKey:  secretKey,
		returnURL:  returnURL,
		httpClient: &http.Client{},
	}
}

const vatCodeDefault = 1

// Create submits exactly one payment-creation request. A fresh idempotency
// token is generated per call; this client never retries, so the token's
// one-attempt guarantee is trivially upheld. A receipt is attached only when
// a customer email is present.
func (c *Client) Create(ctx context.Context, params CreateParams) (*Payment, error) {
	reqBody := createRequest{
		Amount: NewAmount(params.TotalAmount),
		Confirmation: confirmation{
			Type:      "redirect",
			ReturnURL: c.returnURL,
		},
		Capture:     true,
		Description: fmt.Sprintf("Order %s", params.OrderNumber),
		Metadata: map[string]string{
			"order_id":     fmt.Sprintf("%d", params.OrderID),
			"order_number": params.OrderNumber,
		},
	}

	if params.CustomerEmail != "" {
		rec := &receipt{}
		rec.Customer.Email = params.CustomerEmail
		for _, item := range params.Items {
			description := item.Name
			if description == "" {
				description = "Item"
			}
			rec.Items = append(rec.Items, receiptItem{
				Description: description,
				Quantity:    fmt.Sprintf("%d", item.Quantity),
				Amount:      NewAmount(item.Price),
				VatCode:     vatCodeDefault,
			})
		}
		reqBody.Receipt = rec
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("payment: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("payment: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.basicAuth())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("payment: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var decoded createResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("payment: failed to parse response: %w", err)
	}

	return &Payment{
		ID:              decoded.ID,
		ConfirmationURL: decoded.Confirmation.ConfirmationURL,
	}, nil
}

func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
}
