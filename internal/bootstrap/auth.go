package bootstrap

import (
	"log/slog"

	"github.com/clario/auth-api/config"
	"github.com/clario/auth-api/internal/adapters/devauth"
	"github.com/clario/auth-api/internal/adapters/oidc"
	domainauth "github.com/clario/auth-api/internal/domain/auth"
	"github.com/clario/auth-api/internal/ports"
	"github.com/clario/auth-api/internal/service"
	"github.com/clario/auth-api/internal/tokens"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth   config.AuthConfig
	Users  ports.UserStore
	Logger *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.Users == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: user store not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}
	if cfg.Auth.Tokens.JWTSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: JWT_SECRET not configured")
		}
		return nil
	}

	issuer := tokens.NewIssuer(tokens.Config{
		AccessSecret:  []byte(cfg.Auth.Tokens.JWTSecret),
		RefreshSecret: []byte(cfg.Auth.Tokens.RefreshSecret()),
		AccessTTL:     cfg.Auth.Tokens.AccessTTL(),
		RefreshTTL:    cfg.Auth.Tokens.RefreshTTL(),
	})

	allowlist := domainauth.NewAllowlist(cfg.Auth.AllowedRedirects)
	if allowlist.IsEmpty() && cfg.Logger != nil {
		// An empty allow-list rejects every login; surfaced loudly since the
		// validator never fails open.
		cfg.Logger.Warn("redirect allow-list is empty; all logins will be rejected")
	}

	exchanger := buildExchanger(cfg)
	if exchanger == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Exchanger: exchanger,
		Users:     cfg.Users,
		Tokens:    issuer,
		Redirects: allowlist,
		Logger:    cfg.Logger,
	})
}

func buildExchanger(cfg AuthConfig) ports.CodeExchanger {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			Subject: cfg.Auth.DevAuth.Subject,
			Email:   cfg.Auth.DevAuth.Email,
			Name:    cfg.Auth.DevAuth.Name,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
			}
			return nil
		}
		return prov

	case config.AuthModeOAuth:
		google := cfg.Auth.Google
		if google.ClientID == "" || google.ClientSecret == "" {
			if cfg.Logger != nil {
				cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
					"client_id_empty", google.ClientID == "",
					"client_secret_empty", google.ClientSecret == "",
				)
			}
			return nil
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     google.ClientID,
			ClientSecret: google.ClientSecret,
			IssuerURL:    google.IssuerURL,
			Timeout:      google.Timeout,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
			}
			return nil
		}
		return prov

	default:
		return nil
	}
}
