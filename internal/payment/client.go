// Package payment talks to the external payment processor. Only the
// checkout-session contract lives here; the processor's hosted checkout
// UI and its callback transport are outside the engine.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"event-reservations/config"

	"github.com/shopspring/decimal"
)

// CheckoutSession is what the processor hands back for a paid
// reservation: the redirect URL for the purchaser and the reference the
// confirmation callback will carry.
type CheckoutSession struct {
	URL       string `json:"url"`
	Reference string `json:"reference"`
}

// CreateSessionParams describes one checkout. Amount is in minor
// currency units (price * seats).
type CreateSessionParams struct {
	Amount      int64
	Currency    string
	Description string
	TicketID    int
	SuccessURL  string
	CancelURL   string
}

type Client interface {
	CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)
}

type HTTPClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewHTTPClient(cfg *config.CheckoutConfig) *HTTPClient {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		hc: &http.Client{
			Timeout: timeout,
		},
	}
}

type createSessionRequest struct {
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

type createSessionResponse struct {
	URL       string `json:"url"`
	Reference string `json:"reference"`
}

func (c *HTTPClient) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	// The processor wants major units on the wire ("50.00"), we account
	// in minor units everywhere else.
	amount := decimal.NewFromInt(params.Amount).Div(decimal.NewFromInt(100)).StringFixed(2)

	body, err := json.Marshal(createSessionRequest{
		Amount:      amount,
		Currency:    params.Currency,
		Description: params.Description,
		SuccessURL:  params.SuccessURL,
		CancelURL:   params.CancelURL,
		Metadata: map[string]string{
			"ticket_id": fmt.Sprintf("%d", params.TicketID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout session request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("checkout session request: unexpected status %d", resp.StatusCode)
	}

	var out createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode checkout response: %w", err)
	}
	if out.URL == "" || out.Reference == "" {
		return nil, fmt.Errorf("checkout session response missing url or reference")
	}

	return &CheckoutSession{URL: out.URL, Reference: out.Reference}, nil
}
