package importers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultAPITimeout = 30 * time.Second

// APICaller performs an authenticated JSON API call on behalf of a user.
type APICaller interface {
	GetJSON(ctx context.Context, url, token string, out any) error
}

// OAuthCaller is the default APICaller. Each call is sent with the user's
// OAuth2 access token and goes through a shared rate limiter.
type OAuthCaller struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewOAuthCaller creates a caller allowing rps requests per second.
// A non-positive rps disables throttling. A nil httpClient uses a client with
// a 30s timeout.
func NewOAuthCaller(httpClient *http.Client, rps float64) *OAuthCaller {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultAPITimeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &OAuthCaller{httpClient: httpClient, limiter: limiter}
}

// GetJSON implements APICaller.
func (c *OAuthCaller) GetJSON(ctx context.Context, url, token string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ APICaller = (*OAuthCaller)(nil)
