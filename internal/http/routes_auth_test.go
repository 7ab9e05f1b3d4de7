package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	mockauth "github.com/clario/auth-api/internal/mocks/auth"
	"github.com/clario/auth-api/internal/service"
	"github.com/clario/auth-api/internal/tokens"
)

// newTestRouter wires a real AuthService (mock exchanger, in-memory user
// store, real token issuer) behind the production router so these tests
// exercise the full session lifecycle over HTTP.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	issuer := tokens.NewIssuer(tokens.Config{AccessSecret: []byte("test-secret")})
	svc := service.NewAuthService(service.AuthServiceOptions{
		Exchanger: mockauth.NewMockExchanger(),
		Users:     mockauth.NewMemoryUserStore(),
		Tokens:    issuer,
		Redirects: domainauth.NewAllowlist([]string{"https://app.example.com/auth/callback"}),
		Logger:    slog.New(slog.DiscardHandler),
	})

	return NewRouter(RouterServices{
		Auth:       svc,
		RefreshTTL: issuer.RefreshTTL(),
		Logger:     slog.New(slog.DiscardHandler),
	})
}

func doLogin(t *testing.T, router http.Handler) (accessToken string, rt *http.Cookie) {
	t.Helper()

	body := `{"code":"auth-code","redirectUri":"https://app.example.com/auth/callback"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.AccessToken)

	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			return resp.AccessToken, c
		}
	}
	t.Fatal("login did not set the rt cookie")
	return "", nil
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)

	accessToken, rt := doLogin(t, router)
	require.NotEmpty(t, rt.Value)
	assert.True(t, rt.HttpOnly)

	// The access token opens the protected profile route.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var user domainauth.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "mock.user@example.com", user.Email)

	// Rotation: the refresh cookie buys a fresh pair.
	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(rt)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshResp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&refreshResp))
	require.NotEmpty(t, refreshResp.AccessToken)

	var rotated *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			rotated = c
		}
	}
	require.NotNil(t, rotated)
	assert.NotEqual(t, rt.Value, rotated.Value)

	// The rotated access token works on the protected route too.
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+refreshResp.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logout clears the cookie and always reports success.
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(rotated)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestOldRefreshTokenStillUsableAfterRotation(t *testing.T) {
	router := newTestRouter(t)

	_, rt := doLogin(t, router)

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.AddCookie(rt)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRejectsAccessTokenCookie(t *testing.T) {
	router := newTestRouter(t)

	accessToken, _ := doLogin(t, router)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: accessToken})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestLoginRejectsBadRedirectOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	body := `{"code":"auth-code","redirectUri":"https://evil.com/auth/callback"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
