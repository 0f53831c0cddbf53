// Package fiscal invokes the external fiscal emission service. Emission
// happens only after a sale already exists; a failed emission changes no
// sale fields and is retried manually by the operator.
package fiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
)

// RequestError carries the emission service's status and detail message,
// surfaced verbatim to the operator.
type RequestError struct {
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	return e.Detail
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

// EmitDocument requests an NF-e for the sale. The response body is passed
// through to the caller untouched.
func (c *Client) EmitDocument(ctx context.Context, sale domain.Sale) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/fiscal/emit", sale)
}

// IssueManualInvoice forwards a hand-filled invoice request. The payload is
// built by the operator form and validated server side.
func (c *Client) IssueManualInvoice(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/fiscal/issue-manual", payload)
}

// ListInvoices returns the fiscal documents known to the emission service,
// newest first, passed through untouched.
func (c *Client) ListInvoices(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/invoices", nil)
}

// CancelInvoice asks the emission service to cancel the document with the
// given reference. The justification rules (minimum length) are enforced
// server side; a rejection carries the service's detail verbatim.
func (c *Client) CancelInvoice(ctx context.Context, ref, justification string) (json.RawMessage, error) {
	payload := map[string]string{"justification": justification}
	return c.do(ctx, http.MethodDelete, "/invoices/"+ref, payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (json.RawMessage, error) {
	var reqBody *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal fiscal payload: %w", err)
		}
		reqBody = bytes.NewReader(body)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build fiscal request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fiscal service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if eb.Detail == "" {
			eb.Detail = fmt.Sprintf("fiscal request failed (status %d)", resp.StatusCode)
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Detail: eb.Detail}
	}

	var out json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode fiscal response: %w", err)
	}
	return out, nil
}
