// Package auth implements BookEasy's authentication core: account
// registration, credential verification, stateless signed session tokens
// carried in an HTTP-only cookie, and the admin gate guarding privileged
// hotel mutations.
//
// Sessions are self-contained signed claim sets -- no server-side session
// table and no revocation list. That trades instant revocation for
// simplicity, which is acceptable for a demonstration-grade booking app.
// The TokenCodec interface isolates this choice so a revocation list or
// shorter expiry can be added without touching call sites.
package auth

import (
	"time"
)

// Account represents a registered BookEasy user. This is the domain model
// used throughout the application. Database scanning and JSON marshaling
// use this struct directly. The password hash is excluded from JSON so no
// handler can accidentally echo it back to the client.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest holds the data submitted to POST /auth/login. Account may
// be either a username or an email address.
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput is the validated input for authenticating an account.
type LoginInput struct {
	Account  string
	Password string
}

// --- Principal ---

// Principal is the verified identity derived from a valid session token:
// the account ID plus the role flag embedded in the token. It is
// request-scoped and never persisted.
type Principal struct {
	AccountID string
	IsAdmin   bool
}
