package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestProvider_Begin(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost:8188/contacts/oauth/google/callback")

	req := p.Begin()
	require.NotEmpty(t, req.State)
	require.NotEmpty(t, req.Verifier)
	assert.NotEqual(t, req.State, req.Verifier)

	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, req.State, q.Get("state"))
	assert.Equal(t, GoogleContactsScope, q.Get("scope"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Equal(t, "http://localhost:8188/contacts/oauth/google/callback", q.Get("redirect_uri"))

	assert.NotEqual(t, req.State, p.Begin().State, "every authorization gets a fresh state")
}

func TestProvider_Exchange(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"yahoo-access","token_type":"bearer","expires_in":3600}`))
	}))
	defer server.Close()

	p := NewProvider(ProviderYahoo, &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{AuthURL: server.URL + "/auth", TokenURL: server.URL + "/token"},
	})

	token, err := p.Exchange(context.Background(), "the-code", "the-verifier")
	require.NoError(t, err)
	assert.Equal(t, "yahoo-access", token.AccessToken)
	assert.Equal(t, "the-code", form.Get("code"))
	assert.Equal(t, "the-verifier", form.Get("code_verifier"))
}

func TestProvider_ExchangeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	p := NewProvider(ProviderGoogle, &oauth2.Config{
		ClientID: "id",
		Endpoint: oauth2.Endpoint{TokenURL: server.URL},
	})

	_, err := p.Exchange(context.Background(), "bad", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google token exchange")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewYahooProvider("y", "s", ""), nil, NewGoogleProvider("g", "s", ""))

	assert.Equal(t, []string{ProviderGoogle, ProviderYahoo}, r.Names())

	p, err := r.Get(ProviderYahoo)
	require.NoError(t, err)
	assert.Equal(t, ProviderYahoo, p.Name())

	_, err = r.Get("dropbox")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}
