package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	apperrors "github.com/clario/auth-api/internal/errors"
	"github.com/clario/auth-api/internal/service"
	"github.com/clario/auth-api/internal/tokens"
)

// refreshCookieName is the HttpOnly cookie carrying the refresh token.
const refreshCookieName = "rt"

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, input service.LoginInput) (*service.LoginResult, error)
	Refresh(ctx context.Context, rawToken string) (*service.RefreshResult, error)
	VerifyAccess(rawToken string) (tokens.AccessClaims, error)
	Me(ctx context.Context, subject string) (domainauth.User, error)
}

// AuthHandlers provides HTTP handlers for the session lifecycle endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	RefreshTTL   time.Duration
	// SecureCookies gates the Secure attribute on the refresh cookie.
	// True in production, false in dev so plain-HTTP localhost works.
	SecureCookies bool
	Logger        *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// googleLoginRequest is the POST /auth/google body.
type googleLoginRequest struct {
	Code         string `json:"code"`
	RedirectURI  string `json:"redirectUri"`
	CodeVerifier string `json:"codeVerifier,omitempty"`
}

// GoogleLogin handles the login endpoint.
// POST /auth/google {code, redirectUri, codeVerifier?}.
func (h *AuthHandlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), service.LoginInput{
		Code:         req.Code,
		RedirectURI:  req.RedirectURI,
		CodeVerifier: req.CodeVerifier,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	WriteJSON(w, http.StatusOK, map[string]any{
		"accessToken": result.AccessToken,
		"user":        result.User,
	})
}

// Refresh handles the token rotation endpoint.
// POST /auth/refresh with the rt cookie.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		WriteError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	result, refreshErr := h.Svc.Refresh(r.Context(), cookie.Value)
	if refreshErr != nil {
		h.writeServiceError(w, r, refreshErr)
		return
	}

	// Rotation: the cookie is overwritten with the brand-new refresh token.
	h.setRefreshCookie(w, result.RefreshToken)
	WriteJSON(w, http.StatusOK, map[string]string{
		"accessToken": result.AccessToken,
	})
}

// Logout handles the logout endpoint.
// POST /auth/logout. Always succeeds: clearing the cookie is best-effort and
// returns 204 whether or not a session existed.
func (h *AuthHandlers) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
// GET /auth/me with a Bearer access token (enforced by RequireAuth).
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Svc.Me(r.Context(), claims.Subject)
	if err != nil {
		// The caller already holds a valid access token, so this path is
		// allowed to be specific about a missing account.
		if apperrors.IsUserNotFound(err) {
			WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// writeServiceError maps service errors to HTTP responses. Provider and
// internal detail is logged, never returned.
func (h *AuthHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		WriteError(w, http.StatusBadRequest, apperrors.PublicMessage(err))
	case apperrors.ErrCodeRedirectNotAllowed:
		WriteError(w, http.StatusBadRequest, apperrors.PublicMessage(err))
	case apperrors.ErrCodeUpstreamAuth:
		WriteError(w, http.StatusUnauthorized, apperrors.PublicMessage(err))
	case apperrors.ErrCodeInvalidToken:
		WriteError(w, http.StatusUnauthorized, apperrors.PublicMessage(err))
	case apperrors.ErrCodeUserNotFound:
		// On the refresh path a missing account must not be distinguishable
		// from an invalid token.
		WriteError(w, http.StatusUnauthorized, apperrors.PublicMessage(err))
	default:
		h.logger().ErrorContext(r.Context(), "auth request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// setRefreshCookie writes the rt cookie with the session's security attributes.
func (h *AuthHandlers) setRefreshCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.RefreshTTL.Seconds()),
	})
}

// clearRefreshCookie clears the rt cookie by expiring it immediately. It
// mirrors the attributes used when setting the cookie to maximize
// compatibility across browsers during deletion.
func (h *AuthHandlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}
