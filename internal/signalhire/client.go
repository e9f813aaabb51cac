// Package signalhire wraps the SignalHire email-finder API, which looks up a
// person's work address directly from their name and company domain.
package signalhire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/domain"
	"github.com/ignite/email-enrich/internal/pkg/httpretry"
	"github.com/ignite/email-enrich/internal/pkg/logger"
)

// Client is a SignalHire API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a SignalHire client from configuration.
func NewClient(cfg config.SignalHireConfig) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpretry.NewRetryClient(&http.Client{Timeout: cfg.Timeout()}, 3),
	}
}

type emailFinderResponse struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PhoneNumber string `json:"phone_number"`
	Social      struct {
		LinkedIn string `json:"linkedin"`
		Facebook string `json:"facebook"`
		Twitter  string `json:"twitter"`
	} `json:"social"`
	// Error may be a string or an object. Its presence alone means the
	// lookup produced nothing usable.
	Error json.RawMessage `json:"error"`
}

// FindEmail asks SignalHire for a direct address for the given person at the
// given company domain. The second return is false when SignalHire has no
// address, which is the common case and not an error. Side-channel fields
// (phone, social links) may be populated even when no address came back.
func (c *Client) FindEmail(ctx context.Context, first, last, companyDomain string) (domain.FinderProfile, bool, error) {
	params := url.Values{}
	params.Set("first_name", first)
	params.Set("last_name", last)
	params.Set("company_domain", companyDomain)
	params.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s/v2/email-finder?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.FinderProfile{}, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.FinderProfile{}, false, fmt.Errorf("email finder request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.FinderProfile{}, false, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.FinderProfile{}, false, fmt.Errorf("email finder returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed emailFinderResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.FinderProfile{}, false, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Error) > 0 {
		logger.Debug("signalhire_no_result", "domain", companyDomain, "detail", string(parsed.Error))
		return domain.FinderProfile{}, false, nil
	}

	phone := parsed.Phone
	if phone == "" {
		phone = parsed.PhoneNumber
	}
	profile := domain.FinderProfile{
		Email:    strings.ToLower(strings.TrimSpace(parsed.Email)),
		Phone:    phone,
		LinkedIn: parsed.Social.LinkedIn,
		Facebook: parsed.Social.Facebook,
		Twitter:  parsed.Social.Twitter,
	}
	return profile, profile.Email != "", nil
}
