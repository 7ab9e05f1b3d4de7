package service

import (
	"context"
	"errors"
	"log/slog"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	apperrors "github.com/clario/auth-api/internal/errors"
	"github.com/clario/auth-api/internal/ports"
	"github.com/clario/auth-api/internal/tokens"
)

// upstreamFailureMessage is the single opaque message for every provider-side
// failure. Exchange detail is logged server-side only.
const upstreamFailureMessage = "Authentication failed"

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Exchanger ports.CodeExchanger
	Users     ports.UserStore
	Tokens    *tokens.Issuer
	Redirects domainauth.Allowlist
	Logger    *slog.Logger
}

// AuthService orchestrates the session lifecycle: redirect validation, code
// exchange, user upsert, token issuance, rotation, and verification. It holds
// no mutable state; every call is an independent unit of work.
type AuthService struct {
	exchanger ports.CodeExchanger
	users     ports.UserStore
	tokens    *tokens.Issuer
	redirects domainauth.Allowlist
	logger    *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		exchanger: opts.Exchanger,
		users:     opts.Users,
		tokens:    opts.Tokens,
		redirects: opts.Redirects,
		logger:    logger,
	}
}

// Tokens exposes the issuer so the HTTP layer can read the refresh TTL for
// the cookie Max-Age.
func (s *AuthService) Tokens() *tokens.Issuer {
	return s.tokens
}

// LoginInput groups parameters for completing a login.
type LoginInput struct {
	Code         string
	RedirectURI  string
	CodeVerifier string // optional PKCE verifier
}

// LoginResult contains the issued credentials and the user they belong to.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         domainauth.User
}

// Login validates the redirect URI, exchanges the authorization code for a
// profile, upserts the user keyed by email, and mints the token pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.Code == "" || input.RedirectURI == "" {
		return nil, apperrors.Validation("code and redirectUri are required")
	}
	if !s.redirects.IsAllowed(input.RedirectURI) {
		return nil, apperrors.RedirectNotAllowed("redirect URI is not approved")
	}

	profile, err := s.exchanger.Exchange(ctx, ports.ExchangeInput{
		Code:         input.Code,
		RedirectURI:  input.RedirectURI,
		CodeVerifier: input.CodeVerifier,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "code exchange failed", "error", err)
		return nil, apperrors.UpstreamAuth(upstreamFailureMessage, err)
	}

	user, err := s.users.UpsertByEmail(ctx, profile.Email, profile.Name)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "upsert user")
	}

	accessToken, err := s.tokens.MintAccess(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.MintRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshResult contains the rotated credentials.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

// Refresh verifies the refresh token, looks up its subject, and rotates:
// a brand-new refresh token plus a new access token. Either both are issued
// or an error is returned; no partial rotation state is ever exposed.
//
// There is no single-use enforcement: a still-valid token that was already
// rotated past remains usable until its own expiry. That is a property of the
// stateless design, not an oversight.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*RefreshResult, error) {
	if rawToken == "" {
		return nil, apperrors.InvalidToken("invalid or expired token")
	}

	claims, err := s.tokens.VerifyRefresh(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, apperrors.UserNotFound("user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "find user")
	}

	refreshToken, err := s.tokens.MintRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	accessToken, err := s.tokens.MintAccess(user)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// VerifyAccess checks an access token and returns its decoded claims. Used as
// the gate in front of protected routes.
func (s *AuthService) VerifyAccess(rawToken string) (tokens.AccessClaims, error) {
	return s.tokens.VerifyAccess(rawToken)
}

// Me returns the user record for an authenticated subject.
func (s *AuthService) Me(ctx context.Context, subject string) (domainauth.User, error) {
	user, err := s.users.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return domainauth.User{}, apperrors.UserNotFound("user not found")
		}
		return domainauth.User{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "find user")
	}
	return user, nil
}
