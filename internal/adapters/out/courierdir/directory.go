// Package courierdir is the HTTP client for the courier directory service.
package courierdir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Client implements ports.CourierDirectory against the directory's REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a directory client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type courierResponse struct {
	Active bool `json:"active"`
}

// IsEligible reports whether the courier exists and is active. An unknown
// courier is simply not eligible, not an error.
func (c *Client) IsEligible(ctx context.Context, courierID kernel.UUID) (bool, error) {
	endpoint := fmt.Sprintf("%s/couriers/%s", c.baseURL, courierID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("courier directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("courier directory returned status %d", resp.StatusCode)
	}

	var body courierResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("courier directory response is malformed: %w", err)
	}

	return body.Active, nil
}
