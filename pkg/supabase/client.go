// Package supabase talks to the Supabase PostgREST surface that backs the
// licenses table. Only the insert path is implemented; key validation and
// administrative status changes live in other consumers of the same table.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/mikekode/creenly-licensing/pkg/errors"
)

const (
	defaultBaseURL = "https://ejqzexdkoqbvgmjtbbwd.supabase.co"
	licensesPath   = "rest/v1/licenses"

	// preferMinimal asks PostgREST to omit the inserted row from the response.
	preferMinimal = "return=minimal"

	// uniqueViolation is the SQLSTATE PostgREST reports when the unique
	// constraint on license_key rejects an insert.
	uniqueViolation = "23505"

	responseBodyReadLimit int64 = 2048
)

var errServiceKeyRequired = errors.New("supabase service key is required")

// Client issues authenticated requests against the project's REST endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the project base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a store client from the service_role secret.
func NewClient(serviceKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(serviceKey)
	if trimmedKey == "" {
		return nil, errServiceKeyRequired
	}

	client := &Client{
		serviceKey: trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// LicenseRow is the JSON body persisted per issuance.
type LicenseRow struct {
	LicenseKey       string `json:"license_key"`
	Email            string `json:"email"`
	Status           string `json:"status"`
	CurrentPeriodEnd string `json:"current_period_end"`
}

// InsertLicense performs a single insert-only POST. A duplicate license_key is
// rejected by the table's unique constraint and surfaces as CONFLICT; any
// other non-2xx response surfaces the store's body verbatim as ISSUANCE_ERROR.
func (c *Client) InsertLicense(ctx context.Context, row LicenseRow) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "supabase client not configured")
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal license row")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(licensesPath), bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build license insert request")
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", preferMinimal)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute license insert")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	body := strings.TrimSpace(string(raw))

	if isUniqueViolation(resp.StatusCode, body) {
		return pkgerrors.New(pkgerrors.CodeConflict, "license key already exists").
			WithDetails(map[string]any{"status": resp.StatusCode, "response": body})
	}

	return pkgerrors.Wrap(pkgerrors.CodeIssuance,
		fmt.Errorf("status %d: %s", resp.StatusCode, body),
		"license insert rejected").
		WithDetails(map[string]any{"status": resp.StatusCode, "response": body})
}

func isUniqueViolation(status int, body string) bool {
	return status == http.StatusConflict || strings.Contains(body, uniqueViolation)
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}
