package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/techbites/storefront/internal/domain/catalog"
)

const maxResponseSize = 10 << 20

// Client reads the product catalog from a Supabase table over PostgREST
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a client for config
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// ListProducts selects every row of the catalog table
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	body, err := c.doRequest(ctx, "select=*")
	if err != nil {
		return nil, err
	}

	var products []catalog.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrInvalidResponse, err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

func (c *Client) doRequest(ctx context.Context, query string) ([]byte, error) {
	if c.config.URL == "" {
		return nil, ErrEndpointNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.RESTURL()+"?"+query, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.AnonKey != "" {
		req.Header.Set("apikey", c.config.AnonKey)
		req.Header.Set("Authorization", "Bearer "+c.config.AnonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("supabase: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRequestFailed, resp.StatusCode, apiErr.String())
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	return body, nil
}
