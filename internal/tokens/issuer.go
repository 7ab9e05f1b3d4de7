package tokens

// Package tokens mints and verifies the stateless session credentials: a
// short-lived access token and a rotating refresh token. All session truth
// lives inside the signed claims; there is no server-side session table.

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	apperrors "github.com/clario/auth-api/internal/errors"
)

// refreshTokenType is the discriminator claim value that marks refresh tokens.
// Tokens without it must never be accepted on the refresh path, even when the
// signature is otherwise valid.
const refreshTokenType = "refresh"

// Default token lifetimes. Overridable via Config.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// invalidTokenMessage is the uniform public message for every verification
// failure. Callers must not learn whether a token was malformed, expired, or
// wrongly signed.
const invalidTokenMessage = "invalid or expired token"

// Config holds the signing secrets and lifetimes for session tokens.
// Secrets are process-wide immutable configuration, read-only after startup.
type Config struct {
	// AccessSecret signs access tokens. Required.
	AccessSecret []byte
	// RefreshSecret signs refresh tokens. Falls back to AccessSecret when empty.
	RefreshSecret []byte
	// AccessTTL is the access token lifetime. Defaults to DefaultAccessTTL.
	AccessTTL time.Duration
	// RefreshTTL is the refresh token lifetime. Defaults to DefaultRefreshTTL.
	RefreshTTL time.Duration
}

// AccessClaims are the claims carried by access tokens. Possession of a token
// with a valid signature and unexpired exp is the entire authentication state.
type AccessClaims struct {
	Email          string `json:"email"`
	LearningTypeID *int64 `json:"learningTypeId,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims are the claims carried by refresh tokens. They are a distinct
// type from AccessClaims so the two credentials are never interchangeable.
type RefreshClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies session tokens with HMAC-SHA256.
type Issuer struct {
	cfg Config
	now func() time.Time
}

// NewIssuer constructs an Issuer from Config, applying defaults.
func NewIssuer(cfg Config) *Issuer {
	return NewIssuerWithClock(cfg, time.Now)
}

// NewIssuerWithClock constructs an Issuer with a custom clock (useful for tests).
func NewIssuerWithClock(cfg Config, now func() time.Time) *Issuer {
	if len(cfg.RefreshSecret) == 0 {
		cfg.RefreshSecret = cfg.AccessSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &Issuer{cfg: cfg, now: now}
}

// RefreshTTL returns the configured refresh token lifetime, which also drives
// the refresh cookie Max-Age.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.cfg.RefreshTTL
}

// MintAccess creates a signed access token for the given user.
func (i *Issuer) MintAccess(user domainauth.User) (string, error) {
	now := i.now().UTC()
	claims := AccessClaims{
		Email:          user.Email,
		LearningTypeID: user.LearningTypeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.AccessSecret)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "sign access token")
	}
	return signed, nil
}

// MintRefresh creates a signed refresh token for the given subject. Each call
// carries a fresh jti so rotation always yields a distinct token, even within
// the same second.
func (i *Issuer) MintRefresh(subject string) (string, error) {
	now := i.now().UTC()
	claims := RefreshClaims{
		TokenType: refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.RefreshTTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.RefreshSecret)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "sign refresh token")
	}
	return signed, nil
}

// VerifyAccess checks the signature and expiry of an access token and returns
// its decoded claims. Every failure collapses to one uniform error.
func (i *Issuer) VerifyAccess(raw string) (AccessClaims, error) {
	var claims AccessClaims
	if err := i.parse(raw, &claims, i.cfg.AccessSecret); err != nil {
		return AccessClaims{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidToken, invalidTokenMessage)
	}
	if claims.Subject == "" {
		return AccessClaims{}, apperrors.InvalidToken(invalidTokenMessage)
	}
	return claims, nil
}

// VerifyRefresh checks the signature, expiry, and typ discriminator of a
// refresh token. An access token presented here fails the typ check and is
// rejected with the same uniform error as any other invalid token.
func (i *Issuer) VerifyRefresh(raw string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := i.parse(raw, &claims, i.cfg.RefreshSecret); err != nil {
		return RefreshClaims{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidToken, invalidTokenMessage)
	}
	if claims.TokenType != refreshTokenType || claims.Subject == "" {
		return RefreshClaims{}, apperrors.InvalidToken(invalidTokenMessage)
	}
	return claims, nil
}

func (i *Issuer) parse(raw string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	return err
}
