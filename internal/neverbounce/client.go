// Package neverbounce implements the verify.Provider contract against
// the NeverBounce single-check API.
package neverbounce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/verify"
)

// Client is a NeverBounce API client.
//
// Deadlines and retries belong to the verify service, which drives them
// through the request context, so the embedded http.Client carries no
// timeout and no retry wrapper of its own. Wrapping it in a retrying
// client would fight the service's rate-limit backoff.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new NeverBounce API client.
func NewClient(cfg config.NeverBounceConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
	}
}

type checkResponse struct {
	Result string `json:"result"`
}

// Verify asks NeverBounce for a single-address verdict. HTTP 429 comes
// back as verify.ErrRateLimited so the caller can back off.
func (c *Client) Verify(ctx context.Context, email string) (verify.Result, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("email", email)
	fullURL := c.baseURL + "/v4/single/check?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return verify.Result{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return verify.Result{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return verify.Result{}, fmt.Errorf("single check for %s: %w", email, verify.ErrRateLimited)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return verify.Result{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return verify.Result{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed checkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return verify.Result{}, fmt.Errorf("parsing response: %w", err)
	}
	return verify.Result{Status: strings.ToLower(parsed.Result)}, nil
}
