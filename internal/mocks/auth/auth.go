package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	"github.com/clario/auth-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CodeExchanger = (*MockExchanger)(nil)
	_ ports.UserStore     = (*MemoryUserStore)(nil)
)

// MockExchanger simulates the OAuth provider exchange with a fixed profile.
type MockExchanger struct {
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Profile, error)

	// Profile is returned for any non-empty code when ExchangeFunc is unset.
	Profile domainauth.Profile
}

// NewMockExchanger creates a MockExchanger with a sensible default profile.
func NewMockExchanger() *MockExchanger {
	return &MockExchanger{
		Profile: domainauth.Profile{
			Subject:       "google-sub-1",
			Email:         "mock.user@example.com",
			Name:          "Mock User",
			EmailVerified: true,
		},
	}
}

func (m *MockExchanger) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Profile, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	if in.Code == "" {
		return domainauth.Profile{}, errors.New("authorization code is required")
	}
	return m.Profile, nil
}

// MemoryUserStore is an in-memory ports.UserStore for tests.
type MemoryUserStore struct {
	mu      sync.Mutex
	byID    map[string]domainauth.User
	byEmail map[string]string
	seq     int
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]domainauth.User),
		byEmail: make(map[string]string),
	}
}

// Add seeds a user record directly, e.g. one with a learning type set.
func (s *MemoryUserStore) Add(user domainauth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[user.ID] = user
	s.byEmail[strings.ToLower(user.Email)] = user.ID
}

func (s *MemoryUserStore) UpsertByEmail(_ context.Context, email, name string) (domainauth.User, error) {
	if email == "" {
		return domainauth.User{}, errors.New("email is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byEmail[email]; ok {
		user := s.byID[id]
		if name != "" {
			user.Name = name
			s.byID[id] = user
		}
		return user, nil
	}

	s.seq++
	user := domainauth.User{
		ID:    fmt.Sprintf("user-%d", s.seq),
		Email: email,
		Name:  name,
	}
	s.byID[user.ID] = user
	s.byEmail[email] = user.ID
	return user, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (domainauth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	return user, nil
}
