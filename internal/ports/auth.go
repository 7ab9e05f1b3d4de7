package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
)

// ErrUserNotFound is returned by UserStore implementations when no user
// matches the given identifier.
var ErrUserNotFound = errors.New("user not found")

// ExchangeInput groups parameters for the authorization-code exchange.
type ExchangeInput struct {
	Code         string
	RedirectURI  string
	CodeVerifier string // optional PKCE verifier
}

// CodeExchanger trades an authorization code for a verified identity profile
// at the external OAuth provider. Callers must have validated RedirectURI
// against the allow-list first; implementations do not re-validate it.
type CodeExchanger interface {
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Profile, error)
}

// UserStore is the persistence collaborator for platform user records.
// The auth core only ever touches users through this interface.
type UserStore interface {
	// UpsertByEmail finds the user keyed by email, creating the record on
	// first login, and returns it.
	UpsertByEmail(ctx context.Context, email, name string) (domainauth.User, error)

	// FindByID returns the user with the given ID, or ErrUserNotFound.
	FindByID(ctx context.Context, id string) (domainauth.User, error)
}
