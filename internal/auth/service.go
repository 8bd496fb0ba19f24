package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aiwlulu/BookEasy/internal/apperror"
)

// AuthService defines the business logic contract for authentication.
// Handlers and middleware call these methods -- they never touch the
// repository or the token codec directly.
type AuthService interface {
	// Register creates a new non-admin account after checking username and
	// email uniqueness.
	Register(ctx context.Context, input RegisterInput) (*Account, error)

	// Login verifies credentials and issues a session token. The input
	// account is resolved as a username first, then as an email.
	Login(ctx context.Context, input LoginInput) (token string, account *Account, err error)

	// VerifySession validates a session token and resolves the account it
	// names. An empty token means the client sent no session cookie.
	VerifySession(ctx context.Context, token string) (*Account, error)
}

// authService implements AuthService with argon2id hashing and signed
// stateless session tokens.
type authService struct {
	repo  AccountRepository
	codec TokenCodec
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo AccountRepository, codec TokenCodec) AuthService {
	return &authService{
		repo:  repo,
		codec: codec,
	}
}

// Register creates a new account. Username and email are checked
// independently -- either one already taken is a conflict. The checks are
// a fast-path rejection only: the unique indexes on the users table remain
// the authoritative guard against concurrent registrations, and a
// duplicate-entry error from the insert surfaces as the same conflict.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, apperror.NewBadRequest("registration failed").Wrap(fmt.Errorf("checking username: %w", err))
	}
	if taken {
		return nil, apperror.NewConflict("this username is already registered")
	}

	taken, err = s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewBadRequest("registration failed").Wrap(fmt.Errorf("checking email: %w", err))
	}
	if taken {
		return nil, apperror.NewConflict("this email is already registered")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	account := &Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		// A concurrent registration may have won the race; the repository
		// reports that as a conflict, which passes through unchanged.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewBadRequest("registration failed").Wrap(fmt.Errorf("creating account: %w", err))
	}

	slog.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return account, nil
}

// Login authenticates an account by username or email plus password. The
// identifier is resolved with two explicit lookups, first-match-wins:
// username, then email. "No such account" and "wrong password" stay
// distinct error kinds so callers and tests can tell them apart.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *Account, error) {
	identifier := strings.TrimSpace(input.Account)

	account, err := s.resolveAccount(ctx, identifier)
	if err != nil {
		return "", nil, err
	}

	if !verifyPassword(input.Password, account.PasswordHash) {
		return "", nil, apperror.NewUnauthorized("incorrect password")
	}

	token, err := s.codec.Issue(account.ID, account.IsAdmin)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("issuing session token: %w", err))
	}

	slog.Info("account logged in",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return token, account, nil
}

// resolveAccount looks the identifier up as a username first, then as an
// email address.
func (s *authService) resolveAccount(ctx context.Context, identifier string) (*Account, error) {
	account, err := s.repo.FindByUsername(ctx, identifier)
	if err == nil {
		return account, nil
	}
	if !isNotFound(err) {
		return nil, apperror.NewInternal(fmt.Errorf("looking up username: %w", err))
	}

	account, err = s.repo.FindByEmail(ctx, strings.ToLower(identifier))
	if err == nil {
		return account, nil
	}
	if !isNotFound(err) {
		return nil, apperror.NewInternal(fmt.Errorf("looking up email: %w", err))
	}

	return nil, apperror.NewNotFound("no account with that username or email")
}

// VerifySession validates a session token and returns the account it
// names. Failure modes, in order: no token at all, a token that does not
// verify, an account deleted after the token was issued, and a store
// failure during the lookup.
func (s *authService) VerifySession(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, apperror.NewUnauthenticated("login required")
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, apperror.NewForbidden("invalid session token")
	}

	account, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NewNotFound("account no longer exists")
		}
		return nil, apperror.NewInternal(fmt.Errorf("resolving session account: %w", err))
	}

	return account, nil
}

// isNotFound reports whether err is an apperror with a 404 code.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == 404
}
