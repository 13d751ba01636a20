// Package client provides an HTTP client for the ledger API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ledger/internal/models"
)

// ErrMissingID is returned by calls that need a transaction ID when none is given.
// No request is issued.
var ErrMissingID = errors.New("transaction id is required")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Client communicates with the ledger API. Each call yields one result or
// one error; nothing is retried or cached.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new ledger API client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List fetches every transaction.
func (c *Client) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &txs); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txs, nil
}

// Get fetches one transaction.
func (c *Client) Get(ctx context.Context, id string) (*models.Transaction, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var tx models.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, &tx); err != nil {
		return nil, fmt.Errorf("fetching transaction: %w", err)
	}
	return &tx, nil
}

// Create submits a new transaction and returns it with its assigned ID.
func (c *Client) Create(ctx context.Context, fields models.TransactionFields) (*models.Transaction, error) {
	var tx models.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", fields, &tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return &tx, nil
}

// Update sends only the fields set and returns the merged record.
func (c *Client) Update(ctx context.Context, id string, fields models.TransactionFields) (*models.Transaction, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var tx models.Transaction
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), fields, &tx); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}
	return &tx, nil
}

// Delete removes a transaction.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if err := c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return nil
}

// Balance fetches the server-computed balance.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var result struct {
		Balance float64 `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/balance", nil, &result); err != nil {
		return 0, fmt.Errorf("fetching balance: %w", err)
	}
	return result.Balance, nil
}

// ListByCategory fetches transactions whose category matches exactly.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/category/"+url.PathEscape(category), nil, &txs); err != nil {
		return nil, fmt.Errorf("filtering by category: %w", err)
	}
	return txs, nil
}

// ListByType fetches transactions from the type route of variant. Only the
// variants of the server's vocabulary have a route.
func (c *Client) ListByType(ctx context.Context, variant string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/type/"+url.PathEscape(variant), nil, &txs); err != nil {
		return nil, fmt.Errorf("filtering by type: %w", err)
	}
	return txs, nil
}

// Health reports whether the API and its store are reachable.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return fmt.Errorf("checking health: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
