// Package paymentgw is the HTTP client for the external payment service.
package paymentgw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"marketplace/internal/core/domain/model/order"
)

// Client implements ports.PaymentVerifier against the payment service's REST
// API. Every call is bounded by the client timeout; a timeout or transport
// failure surfaces as an error, which callers treat as not verified.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a verifier client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Settled bool `json:"settled"`
}

// Verify asks the payment service whether the payment for the given method
// and reference is settled.
func (c *Client) Verify(ctx context.Context, method order.PaymentMethod, reference string) (bool, error) {
	endpoint := fmt.Sprintf("%s/payments/verify?method=%s&reference=%s",
		c.baseURL, url.QueryEscape(method.String()), url.QueryEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("payment service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("payment service response is malformed: %w", err)
	}

	return body.Settled, nil
}
