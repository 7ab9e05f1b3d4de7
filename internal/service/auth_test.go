package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	apperrors "github.com/clario/auth-api/internal/errors"
	"github.com/clario/auth-api/internal/mocks"
	mockauth "github.com/clario/auth-api/internal/mocks/auth"
	"github.com/clario/auth-api/internal/ports"
	"github.com/clario/auth-api/internal/tokens"
)

const allowedRedirect = "https://app.example.com/auth/callback"

type serviceFixture struct {
	svc       *AuthService
	exchanger *mockauth.MockExchanger
	users     *mockauth.MemoryUserStore
	issuer    *tokens.Issuer
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	exchanger := mockauth.NewMockExchanger()
	users := mockauth.NewMemoryUserStore()
	issuer := tokens.NewIssuer(tokens.Config{AccessSecret: []byte("test-secret")})

	svc := NewAuthService(AuthServiceOptions{
		Exchanger: exchanger,
		Users:     users,
		Tokens:    issuer,
		Redirects: domainauth.NewAllowlist([]string{allowedRedirect, "postmessage"}),
		Logger:    slog.New(slog.DiscardHandler),
	})

	return &serviceFixture{svc: svc, exchanger: exchanger, users: users, issuer: issuer}
}

func TestLoginSuccess(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.Login(context.Background(), LoginInput{
		Code:        "auth-code",
		RedirectURI: allowedRedirect,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "mock.user@example.com", result.User.Email)
	assert.Equal(t, "Mock User", result.User.Name)
	assert.NotEmpty(t, result.User.ID)

	// Both credentials are bound to the persisted user.
	accessClaims, err := f.issuer.VerifyAccess(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, accessClaims.Subject)
	assert.Equal(t, result.User.Email, accessClaims.Email)

	refreshClaims, err := f.issuer.VerifyRefresh(result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, refreshClaims.Subject)
}

func TestLoginUpsertsByEmail(t *testing.T) {
	f := newServiceFixture(t)

	first, err := f.svc.Login(context.Background(), LoginInput{Code: "c1", RedirectURI: allowedRedirect})
	require.NoError(t, err)

	f.exchanger.Profile.Name = "Renamed User"
	second, err := f.svc.Login(context.Background(), LoginInput{Code: "c2", RedirectURI: allowedRedirect})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Renamed User", second.User.Name)
}

func TestLoginValidatesInput(t *testing.T) {
	f := newServiceFixture(t)

	tests := []struct {
		name  string
		input LoginInput
	}{
		{"missing code", LoginInput{RedirectURI: allowedRedirect}},
		{"missing redirect", LoginInput{Code: "auth-code"}},
		{"missing both", LoginInput{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tc.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestLoginRejectsUnapprovedRedirect(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Login(context.Background(), LoginInput{
		Code:        "auth-code",
		RedirectURI: "https://evil.com/auth/callback",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsRedirectNotAllowed(err))
}

func TestLoginAcceptsPostmessage(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.Login(context.Background(), LoginInput{
		Code:        "auth-code",
		RedirectURI: "postmessage",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestLoginUpstreamFailureIsOpaque(t *testing.T) {
	f := newServiceFixture(t)

	providerErr := errors.New("oauth2: invalid_grant: code was already redeemed")
	f.exchanger.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Profile, error) {
		return domainauth.Profile{}, providerErr
	}

	_, err := f.svc.Login(context.Background(), LoginInput{
		Code:        "stale-code",
		RedirectURI: allowedRedirect,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamAuth(err))
	assert.Equal(t, "Authentication failed", apperrors.PublicMessage(err))
	// The provider detail survives as cause for server-side logging.
	assert.True(t, errors.Is(err, providerErr))
}

func TestLoginUserStoreFailure(t *testing.T) {
	f := newServiceFixture(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserStore(ctrl)
	store.EXPECT().
		UpsertByEmail(gomock.Any(), "mock.user@example.com", "Mock User").
		Return(domainauth.User{}, errors.New("connection refused"))
	f.svc.users = store

	_, err := f.svc.Login(context.Background(), LoginInput{
		Code:        "auth-code",
		RedirectURI: allowedRedirect,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
}

func TestRefreshRotates(t *testing.T) {
	f := newServiceFixture(t)

	login, err := f.svc.Login(context.Background(), LoginInput{Code: "c", RedirectURI: allowedRedirect})
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.NotEmpty(t, rotated.AccessToken)

	claims, err := f.issuer.VerifyRefresh(rotated.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, claims.Subject)
}

func TestRefreshDoesNotInvalidateOldToken(t *testing.T) {
	// Stateless tokens carry their own validity. Rotating past a token does
	// not revoke it; it stays usable until its own expiry.
	f := newServiceFixture(t)

	login, err := f.svc.Login(context.Background(), LoginInput{Code: "c", RedirectURI: allowedRedirect})
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	again, err := f.svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, again.AccessToken)
}

func TestRefreshRejectsEmptyToken(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Refresh(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidToken(err))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newServiceFixture(t)

	login, err := f.svc.Login(context.Background(), LoginInput{Code: "c", RedirectURI: allowedRedirect})
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), login.AccessToken)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidToken(err))
	assert.Equal(t, "invalid or expired token", apperrors.PublicMessage(err))
}

func TestRefreshUnknownSubject(t *testing.T) {
	f := newServiceFixture(t)

	// Valid refresh token whose subject has no user record.
	raw, err := f.issuer.MintRefresh("ghost-user")
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), raw)
	require.Error(t, err)
	assert.True(t, apperrors.IsUserNotFound(err))
}

func TestRefreshUserStoreFailure(t *testing.T) {
	f := newServiceFixture(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserStore(ctrl)
	store.EXPECT().
		FindByID(gomock.Any(), "user-1").
		Return(domainauth.User{}, errors.New("connection refused"))
	f.svc.users = store

	raw, err := f.issuer.MintRefresh("user-1")
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), raw)
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
}

func TestMe(t *testing.T) {
	f := newServiceFixture(t)
	f.users.Add(domainauth.User{ID: "user-9", Email: "bob@example.com", Name: "Bob"})

	user, err := f.svc.Me(context.Background(), "user-9")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)

	_, err = f.svc.Me(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsUserNotFound(err))
}

func TestVerifyAccessDelegates(t *testing.T) {
	f := newServiceFixture(t)

	login, err := f.svc.Login(context.Background(), LoginInput{Code: "c", RedirectURI: allowedRedirect})
	require.NoError(t, err)

	claims, err := f.svc.VerifyAccess(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, claims.Subject)

	_, err = f.svc.VerifyAccess("garbage")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidToken(err))
}
