package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses the Google OAuth/OIDC code exchange for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// GoogleConfig contains the Google OAuth client configuration.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// IssuerURL is the OIDC issuer used for discovery and ID token verification.
	IssuerURL string `env:"GOOGLE_ISSUER_URL" envDefault:"https://accounts.google.com"`

	// Timeout bounds the outbound token-exchange call to the provider.
	Timeout time.Duration `env:"GOOGLE_EXCHANGE_TIMEOUT" envDefault:"10s"`
}

// TokenConfig contains signing secrets and lifetimes for session tokens.
type TokenConfig struct {
	// JWTSecret signs access tokens.
	JWTSecret string `env:"JWT_SECRET,required"`

	// RefreshJWTSecret signs refresh tokens. Falls back to JWTSecret when empty.
	RefreshJWTSecret string `env:"REFRESH_JWT_SECRET"`

	// AccessTTLMinutes is the access token lifetime in minutes.
	AccessTTLMinutes int `env:"ACCESS_TOKEN_TTL_MIN" envDefault:"15"`

	// RefreshTTLDays is the refresh token lifetime in days.
	RefreshTTLDays int `env:"REFRESH_TOKEN_TTL_DAYS" envDefault:"7"`
}

// AccessTTL returns the access token lifetime as a duration.
func (t TokenConfig) AccessTTL() time.Duration {
	return time.Duration(t.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a duration.
func (t TokenConfig) RefreshTTL() time.Duration {
	return time.Duration(t.RefreshTTLDays) * 24 * time.Hour
}

// RefreshSecret returns the refresh signing secret, falling back to the
// access secret when no dedicated refresh secret is configured.
func (t TokenConfig) RefreshSecret() string {
	if t.RefreshJWTSecret != "" {
		return t.RefreshJWTSecret
	}
	return t.JWTSecret
}

// DevAuthConfig controls the mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Subject string `env:"SUBJECT" envDefault:"dev-user"`
	Email   string `env:"EMAIL"   envDefault:"dev@example.com"`
	Name    string `env:"NAME"    envDefault:"Dev User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which code exchanger to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// AllowedRedirects is the redirect-URI allow-list. Entries are either
	// origin+path-prefix URLs or the literal sentinel "postmessage".
	AllowedRedirects []string `env:"OAUTH_ALLOWED_REDIRECTS" envSeparator:","`

	// Google OAuth client configuration (used when Mode=oauth).
	Google GoogleConfig

	// Tokens holds signing secrets and TTLs for session tokens.
	Tokens TokenConfig

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Tokens.AccessTTLMinutes <= 0 {
		a.Tokens.AccessTTLMinutes = 15
	}
	if a.Tokens.RefreshTTLDays <= 0 {
		a.Tokens.RefreshTTLDays = 7
	}
	if a.Google.Timeout <= 0 {
		a.Google.Timeout = 10 * time.Second
	}
	for i, entry := range a.AllowedRedirects {
		a.AllowedRedirects[i] = strings.TrimSpace(entry)
	}
}
