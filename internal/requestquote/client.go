package requestquote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"quoteoffer_backend/platform/config"
	"quoteoffer_backend/platform/logger"
)

// Client is the HTTP client for the request-quote source system.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// NewClient creates a new request-quote API client.
func NewClient(cfg config.RequestQuoteConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetRequestQuoteTimeout()},
		baseURL:    cfg.GetRequestQuoteBaseURL(),
		log:        log,
	}
}

// GetByID fetches a single request record. A missing record returns
// (nil, nil): the caller treats "no data" uniformly, the logs tell
// operators whether the request was absent or the dependency was down.
func (c *Client) GetByID(ctx context.Context, id string) (*Record, error) {
	reqURL := fmt.Sprintf("%s/api/request-quotes/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("request-quote fetch failed", "error", err, "id", id)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Success - continue to decode
	case http.StatusNotFound:
		c.log.Warn("request-quote not found", "id", id)
		return nil, nil
	default:
		c.log.Error("request-quote unexpected status", "status", resp.StatusCode, "id", id)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var record Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &record, nil
}
