package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// RouterServices holds the dependencies needed by the HTTP router.
type RouterServices struct {
	Auth          AuthServiceInterface
	CookieDomain  string
	SecureCookies bool
	RefreshTTL    time.Duration
	Logger        *slog.Logger // Logger for handler errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:           services.Auth,
		CookieDomain:  services.CookieDomain,
		RefreshTTL:    services.RefreshTTL,
		SecureCookies: services.SecureCookies,
		Logger:        services.Logger,
	}
	registerAuthRoutes(mux, authHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

// registerAuthRoutes wires the session lifecycle endpoints.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /auth/google", http.HandlerFunc(h.GoogleLogin))
	mux.Handle("POST /auth/refresh", http.HandlerFunc(h.Refresh))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /auth/me", RequireAuth(h.Svc)(http.HandlerFunc(h.Me)))
}
