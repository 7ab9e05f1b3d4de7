package oidc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewProviderValidation(t *testing.T) {
	_, err := NewProvider(ProviderConfig{ClientSecret: "secret"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client ID")

	_, err = NewProvider(ProviderConfig{ClientID: "client"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client secret")
}

// newDiscoveryServer serves a minimal OIDC discovery document whose issuer
// matches the server's own URL, which is what go-oidc verifies.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/auth",
			"token_endpoint":         srv.URL + "/token",
			"jwks_uri":               srv.URL + "/keys",
		})
	})

	return srv
}

func TestNewProviderDiscovery(t *testing.T) {
	srv := newDiscoveryServer(t)

	p, err := NewProvider(ProviderConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		IssuerURL:    srv.URL,
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, srv.URL+"/token", p.config.Endpoint.TokenURL)
	assert.Contains(t, p.config.Scopes, "openid")
}

func TestNewProviderDiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := NewProvider(ProviderConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		IssuerURL:    srv.URL,
	})
	require.Error(t, err)
}

func TestMapIDTokenClaims(t *testing.T) {
	profile := mapIDTokenClaims(idTokenClaims{
		Sub:           "google-sub",
		Email:         "alice@example.com",
		EmailVerified: true,
		Name:          "Alice Example",
		Picture:       "https://lh3.example.com/photo.jpg",
	})

	assert.Equal(t, "google-sub", profile.Subject)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "Alice Example", profile.Name)
	assert.Equal(t, "https://lh3.example.com/photo.jpg", profile.Picture)
	assert.True(t, profile.EmailVerified)
}

func TestMapIDTokenClaimsNameFallback(t *testing.T) {
	profile := mapIDTokenClaims(idTokenClaims{
		Sub:        "google-sub",
		Email:      "alice@example.com",
		GivenName:  "Alice",
		FamilyName: "Example",
	})
	assert.Equal(t, "Alice Example", profile.Name)

	profile = mapIDTokenClaims(idTokenClaims{GivenName: "Alice"})
	assert.Equal(t, "Alice", profile.Name)

	profile = mapIDTokenClaims(idTokenClaims{})
	assert.Empty(t, profile.Name)
}

func TestGetIDTokenFromToken(t *testing.T) {
	_, err := getIDTokenFromToken(nil)
	require.Error(t, err)

	_, err = getIDTokenFromToken(&oauth2.Token{AccessToken: "at"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing identity token")

	tok := (&oauth2.Token{AccessToken: "at"}).WithExtra(map[string]any{"id_token": "raw-jwt"})
	raw, err := getIDTokenFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "raw-jwt", raw)
}
