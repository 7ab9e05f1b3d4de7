package devauth

// Package devauth provides a simple, config-driven CodeExchanger for local
// development. It skips the provider round-trip entirely and returns the
// configured identity for any non-empty code.

import (
	"context"
	"errors"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	"github.com/clario/auth-api/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	Subject string
	Email   string
	Name    string
}

// Provider implements ports.CodeExchanger for local development.
type Provider struct {
	profile domainauth.Profile
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Subject == "" {
		return nil, errors.New("dev auth: Subject is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	return &Provider{
		profile: domainauth.Profile{
			Subject:       cfg.Subject,
			Email:         cfg.Email,
			Name:          cfg.Name,
			EmailVerified: true,
		},
	}, nil
}

// Exchange ignores the code's value (beyond requiring it to be present, so the
// handler's missing-field path stays exercised) and returns the dev profile.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Profile, error) {
	if in.Code == "" {
		return domainauth.Profile{}, errors.New("authorization code is required")
	}
	return p.profile, nil
}
