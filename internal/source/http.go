package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/angelmondragon/storefront-analytics/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-analytics/pkg/errors"
	"github.com/sethvargo/go-retry"
)

const (
	salesPath    = "analytics/reports"
	productsPath = "analytics/products"
	couponsPath  = "coupons"

	responseBodyReadLimit int64 = 1024
	windowDateLayout            = "2006-01-02"
)

var errBaseURLRequired = errors.New("source base URL is required")

// HTTPClient reads raw records from the storefront REST API.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries uint64
	retryDelay time.Duration
}

// Option configures optional client behavior.
type Option func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewHTTPClient builds a client from explicit configuration.
func NewHTTPClient(cfg config.SourceConfig, opts ...Option) (*HTTPClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retryDelay := cfg.RetryBaseDelay
	if retryDelay <= 0 {
		retryDelay = 200 * time.Millisecond
	}

	client := &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Sales fetches daily sales rows inside the window.
func (c *HTTPClient) Sales(ctx context.Context, window Window) ([]types.RawRecord, error) {
	query := url.Values{}
	if !window.Start.IsZero() {
		query.Set("start", window.Start.UTC().Format(windowDateLayout))
	}
	if !window.End.IsZero() {
		query.Set("end", window.End.UTC().Format(windowDateLayout))
	}
	return c.fetch(ctx, salesPath, query)
}

// Products fetches product performance rows.
func (c *HTTPClient) Products(ctx context.Context) ([]types.RawRecord, error) {
	return c.fetch(ctx, productsPath, nil)
}

// Coupons fetches coupon definitions.
func (c *HTTPClient) Coupons(ctx context.Context) ([]types.RawRecord, error) {
	return c.fetch(ctx, couponsPath, nil)
}

func (c *HTTPClient) fetch(ctx context.Context, path string, query url.Values) ([]types.RawRecord, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "source client not configured")
	}
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var records []types.RawRecord
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, err := c.get(ctx, endpoint)
		if err != nil {
			return err
		}
		records = out
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch "+path)
	}
	return records, nil
}

// get performs one attempt. Transport failures, 429 and 5xx responses are retryable.
func (c *HTTPClient) get(ctx context.Context, endpoint string) ([]types.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		statusErr := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, retry.RetryableError(statusErr)
		}
		return nil, statusErr
	}

	records, err := DecodeRecords(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return records, nil
}

// DecodeRecords reads either a bare JSON array of objects or a {"data": [...]} envelope.
// Numbers are kept as json.Number so decimals are never routed through float64.
func DecodeRecords(r io.Reader) ([]types.RawRecord, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	if envelope, ok := payload.(map[string]any); ok {
		data, found := envelope["data"]
		if !found {
			return nil, errors.New(`object response without "data"`)
		}
		payload = data
	}
	return toRecords(payload)
}

func toRecords(payload any) ([]types.RawRecord, error) {
	if payload == nil {
		return []types.RawRecord{}, nil
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %T", payload)
	}
	records := make([]types.RawRecord, 0, len(items))
	for idx, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d: expected a JSON object, got %T", idx, item)
		}
		records = append(records, types.RawRecord(obj))
	}
	return records, nil
}
