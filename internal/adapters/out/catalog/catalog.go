// Package catalog is the HTTP client for the product catalog service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Client implements ports.ProductCatalog against the catalog's REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type productResponse struct {
	Sellable bool `json:"sellable"`
}

// IsSellable reports whether the product exists and can currently be sold.
// An unknown product is not sellable, not an error.
func (c *Client) IsSellable(ctx context.Context, productID kernel.UUID) (bool, error) {
	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, productID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var body productResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("catalog response is malformed: %w", err)
	}

	return body.Sellable, nil
}
