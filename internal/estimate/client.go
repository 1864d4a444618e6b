// Package estimate provides the HTTP client for the external best-effort
// emissions-estimation service. The client reports errors; the calling
// calculator owns the fallback decision.
package estimate

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// DefaultTimeout bounds a single estimation call when the integrator does
// not configure one.
const DefaultTimeout = 5 * time.Second

// Client calls the external emissions-estimation service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the service at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type estimateRequest struct {
	Category string  `json:"category"`
	Activity string  `json:"activity"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

type estimateResponse struct {
	CO2e float64 `json:"co2e"`
}

// EstimateCO2e requests a CO2e estimate for the given activity. Any
// transport, status, or decoding problem is returned as an error.
func (c *Client) EstimateCO2e(ctx context.Context, category, activity string, amount float64, unit string) (float64, error) {
	body, err := json.Marshal(estimateRequest{
		Category: category,
		Activity: activity,
		Amount:   amount,
		Unit:     unit,
	})
	if err != nil {
		return 0, fmt.Errorf("encoding estimation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/estimate", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building estimation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling estimation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("estimation service returned status %d", resp.StatusCode)
	}

	var out estimateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decoding estimation response: %w", err)
	}

	return out.CO2e, nil
}
