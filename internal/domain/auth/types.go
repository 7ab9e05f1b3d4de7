package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

// Profile represents the authenticated principal returned by the OAuth provider.
// Adapters map provider-specific ID token claims into this shape.
type Profile struct {
	Subject       string // stable provider user identifier (the "sub" claim)
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// User is the platform user record consumed through the user-store collaborator.
// LearningTypeID is a nullable classification attribute carried in access
// tokens for authorization-tier personalization.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	LearningTypeID *int64 `json:"learningTypeId"`
}
