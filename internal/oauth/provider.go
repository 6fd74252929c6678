// Package oauth obtains access tokens for the contact providers that need one
// through the OAuth2 authorization code flow with PKCE.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/yahoo"
)

var ErrProviderNotFound = errors.New("oauth provider not registered")

// Provider names match the contact sources they authorize.
const (
	ProviderGoogle = "google"
	ProviderYahoo  = "yahoo"
)

// GoogleContactsScope grants read access to the Google contacts feed.
const GoogleContactsScope = "https://www.google.com/m8/feeds/"

// Provider runs the authorization code flow against one identity provider.
type Provider struct {
	name   string
	config *oauth2.Config
}

// NewProvider creates a provider from a complete oauth2 configuration.
func NewProvider(name string, config *oauth2.Config) *Provider {
	return &Provider{name: name, config: config}
}

// NewGoogleProvider creates the provider for Google contacts.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *Provider {
	return NewProvider(ProviderGoogle, &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{GoogleContactsScope},
	})
}

// NewYahooProvider creates the provider for Yahoo contacts. Scopes are set in
// the Yahoo app settings, not in the request.
func NewYahooProvider(clientID, clientSecret, redirectURL string) *Provider {
	return NewProvider(ProviderYahoo, &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     yahoo.Endpoint,
		RedirectURL:  redirectURL,
	})
}

func (p *Provider) Name() string {
	return p.name
}

// AuthRequest is a started authorization: the URL to send the user to and the
// values the callback must be checked against.
type AuthRequest struct {
	URL      string
	State    string
	Verifier string
}

// Begin starts an authorization with a fresh state and PKCE verifier.
func (p *Provider) Begin() AuthRequest {
	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()
	return AuthRequest{
		URL:      p.config.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier)),
		State:    state,
		Verifier: verifier,
	}
}

// Exchange trades an authorization code for a token.
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("%s token exchange: %w", p.name, err)
	}
	return token, nil
}

// Registry holds the providers configured at startup.
type Registry struct {
	providers map[string]*Provider
}

// NewRegistry creates a registry. Nil providers are ignored so callers can
// pass providers that are only built when credentials are configured.
func NewRegistry(providers ...*Provider) *Registry {
	r := &Registry{providers: make(map[string]*Provider, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (*Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}
	return p, nil
}

// Names returns the registered provider names in a stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
