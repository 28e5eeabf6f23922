// Package catalog reads product data from the catalog service over HTTP.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartdomain "github.com/yoursneaker/storefront/services/cart/domain"
	"github.com/yoursneaker/storefront/services/cart/domain/services"
)

// Client calls GET {baseURL}/api/catalog/products/{id}.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a traced client; every call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type productResponse struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image"`
	Value decimal.Decimal `json:"value"`
	Stock int             `json:"stock"`
}

// GetProduct returns the product or ErrProductNotFound when the catalog
// answers 404.
func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*services.Product, error) {
	endpoint := c.baseURL + "/api/catalog/products/" + url.PathEscape(id.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: get product %s: %w", id, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, cartdomain.ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog: get product %s: status %d: %s", id, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var p productResponse
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("catalog: decode product %s: %w", id, err)
	}
	return &services.Product{
		ID:    p.ID,
		Name:  p.Name,
		Image: p.Image,
		Value: p.Value,
		Stock: p.Stock,
	}, nil
}

// Ping implements httpx.HealthChecker against the catalog's /health.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: health: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("catalog: health: status %d", resp.StatusCode)
	}
	return nil
}
