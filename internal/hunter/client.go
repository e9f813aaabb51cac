// Package hunter implements the pattern.LookupProvider contract
// against the Hunter domain-search API.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/pattern"
	"github.com/ignite/email-enrich/internal/pkg/httpretry"
)

// Client is a Hunter API client.
type Client struct {
	baseURL     string
	apiKey      string
	searchLimit int
	httpClient  httpretry.HTTPDoer
}

// NewClient creates a new Hunter API client.
func NewClient(cfg config.HunterConfig) *Client {
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = 10
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		searchLimit: limit,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

type domainSearchResponse struct {
	Data struct {
		Pattern    string `json:"pattern"`
		Confidence int    `json:"confidence"`
	} `json:"data"`
}

// LookupPattern queries domain-search for the domain's mailbox
// template. ok=false means Hunter has no opinion; the raw template and
// confidence percentage are passed through untranslated.
func (c *Client) LookupPattern(ctx context.Context, domain string) (pattern.Hint, bool, error) {
	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", c.apiKey)
	params.Set("limit", strconv.Itoa(c.searchLimit))
	fullURL := c.baseURL + "/v2/domain-search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return pattern.Hint{}, false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pattern.Hint{}, false, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pattern.Hint{}, false, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pattern.Hint{}, false, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed domainSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return pattern.Hint{}, false, fmt.Errorf("parsing response: %w", err)
	}
	if parsed.Data.Pattern == "" {
		return pattern.Hint{}, false, nil
	}
	return pattern.Hint{Template: parsed.Data.Pattern, Confidence: parsed.Data.Confidence}, true, nil
}
