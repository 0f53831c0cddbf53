// Package catalog talks to the external inventory service, the
// authoritative source of product price and stock.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
)

// ErrCatalogUnavailable means the inventory service could not be reached or
// answered with an unexpected status.
var ErrCatalogUnavailable = errors.New("catalog service unavailable")

// StockConflictError is the service's rejection of a stock-decrement
// request. The detail is the server's human-readable message, surfaced
// verbatim. The rejection is authoritative; the local stock view was stale.
type StockConflictError struct {
	Detail string
}

func (e *StockConflictError) Error() string {
	return e.Detail
}

type errorBody struct {
	Detail string `json:"detail"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListProducts fetches the full product list with live price and stock.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/", nil)
	if err != nil {
		return nil, fmt.Errorf("build products request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// CreateProductRequest is the payload for registering a new product.
type CreateProductRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	NCM      string  `json:"ncm"`
}

// CreateProduct registers a product with the inventory service.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (domain.Product, error) {
	var product domain.Product
	if err := c.postJSON(ctx, "/products/", req, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// DecrementStock asks the service to apply all of the given decrements
// atomically. A non-2xx answer means none were applied and carries the
// server's detail in a StockConflictError.
func (c *Client) DecrementStock(ctx context.Context, items []domain.StockDecrement) error {
	payload := struct {
		Items []domain.StockDecrement `json:"items"`
	}{Items: items}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sale payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sales", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sale request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)
	if eb.Detail == "" {
		eb.Detail = fmt.Sprintf("failed to process sale (status %d)", resp.StatusCode)
	}
	return &StockConflictError{Detail: eb.Detail}
}

// CompanySettings reads the issuer registration. A 404 yields zero-value
// settings so a fresh install can render an empty form.
func (c *Client) CompanySettings(ctx context.Context) (domain.CompanySettings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/settings/company", nil)
	if err != nil {
		return domain.CompanySettings{}, fmt.Errorf("build settings request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.CompanySettings{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.CompanySettings{RegimeTributario: 1}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.CompanySettings{}, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	var settings domain.CompanySettings
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return domain.CompanySettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// SaveCompanySettings creates or updates the issuer registration.
func (c *Client) SaveCompanySettings(ctx context.Context, settings domain.CompanySettings) (domain.CompanySettings, error) {
	var saved domain.CompanySettings
	if err := c.postJSON(ctx, "/settings/company", settings, &saved); err != nil {
		return domain.CompanySettings{}, err
	}
	return saved, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
