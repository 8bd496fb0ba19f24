package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aiwlulu/BookEasy/internal/apperror"
)

// --- Mock Repository ---

// mockAccountRepo implements AccountRepository for testing.
type mockAccountRepo struct {
	createFn         func(ctx context.Context, account *Account) error
	findByIDFn       func(ctx context.Context, id string) (*Account, error)
	findByUsernameFn func(ctx context.Context, username string) (*Account, error)
	findByEmailFn    func(ctx context.Context, email string) (*Account, error)
	usernameExistsFn func(ctx context.Context, username string) (bool, error)
	emailExistsFn    func(ctx context.Context, email string) (bool, error)
}

func (m *mockAccountRepo) Create(ctx context.Context, account *Account) error {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return nil
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*Account, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("account not found")
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*Account, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, apperror.NewNotFound("account not found")
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("account not found")
}

func (m *mockAccountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.usernameExistsFn != nil {
		return m.usernameExistsFn(ctx, username)
	}
	return false, nil
}

func (m *mockAccountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

// --- Test Helpers ---

// newTestService creates an authService with a mock repo and a real codec.
func newTestService(repo *mockAccountRepo) AuthService {
	return NewAuthService(repo, NewTokenCodec(testSecret, time.Hour))
}

// assertAppError checks that err is an *apperror.AppError with the
// expected code and type.
func assertAppError(t *testing.T, err error, expectedCode int, expectedType string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	if appErr.Type != expectedType {
		t.Errorf("expected error type %q, got %q", expectedType, appErr.Type)
	}
}

// testAccount returns an account with a digest of the given password.
func testAccount(t *testing.T, username, password string, isAdmin bool) *Account {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	return &Account{
		ID:           "account-123",
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	repo := &mockAccountRepo{
		createFn: func(ctx context.Context, account *Account) error {
			if account.Username != "alice" {
				t.Errorf("expected username alice, got %s", account.Username)
			}
			if account.Email != "alice@example.com" {
				t.Errorf("expected email alice@example.com, got %s", account.Email)
			}
			if account.IsAdmin {
				t.Error("expected non-admin account")
			}
			if account.PasswordHash == "" {
				t.Error("expected password hash to be set")
			}
			if account.PasswordHash == "secret-password" {
				t.Error("plaintext password stored as hash")
			}
			return nil
		},
	}

	svc := newTestService(repo)
	account, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account == nil {
		t.Fatal("expected account, got nil")
	}
	if account.ID == "" {
		t.Error("expected account ID to be generated")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &mockAccountRepo{
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "taken",
		Email:    "new@example.com",
		Password: "secret-password",
	})
	assertAppError(t, err, 409, "conflict")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockAccountRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "newuser",
		Email:    "taken@example.com",
		Password: "secret-password",
	})
	assertAppError(t, err, 409, "conflict")
}

func TestRegister_ExistenceCheckError(t *testing.T) {
	repo := &mockAccountRepo{
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			return false, errors.New("db connection lost")
		},
	}

	svc := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	assertAppError(t, err, 400, "bad_request")
}

func TestRegister_CreateError(t *testing.T) {
	repo := &mockAccountRepo{
		createFn: func(ctx context.Context, account *Account) error {
			return errors.New("db write error")
		},
	}

	svc := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	assertAppError(t, err, 400, "bad_request")
}

func TestRegister_LosesInsertRace(t *testing.T) {
	// Existence checks pass, but a concurrent registration wins the insert
	// race and the unique index rejects ours. The repository's conflict
	// must pass through unchanged.
	repo := &mockAccountRepo{
		createFn: func(ctx context.Context, account *Account) error {
			return apperror.NewConflict("an account with this username or email already exists")
		},
	}

	svc := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	assertAppError(t, err, 409, "conflict")
}

// --- Login Tests ---

func TestLogin_ByUsername(t *testing.T) {
	account := testAccount(t, "alice", "secret-password", false)
	repo := &mockAccountRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*Account, error) {
			if username != "alice" {
				t.Errorf("expected username lookup for alice, got %s", username)
			}
			return account, nil
		},
	}

	svc := newTestService(repo)
	token, got, err := svc.Login(context.Background(), LoginInput{
		Account:  "alice",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if got.Username != "alice" {
		t.Errorf("expected account alice, got %s", got.Username)
	}
}

func TestLogin_ByEmailFallback(t *testing.T) {
	account := testAccount(t, "alice", "secret-password", false)
	var emailLookups int
	repo := &mockAccountRepo{
		findByEmailFn: func(ctx context.Context, email string) (*Account, error) {
			emailLookups++
			if email != "alice@example.com" {
				t.Errorf("expected email lookup for alice@example.com, got %s", email)
			}
			return account, nil
		},
	}

	svc := newTestService(repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Account:  "Alice@Example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if emailLookups != 1 {
		t.Errorf("expected exactly one email lookup, got %d", emailLookups)
	}
}

func TestLogin_UnknownAccount(t *testing.T) {
	repo := &mockAccountRepo{}

	svc := newTestService(repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Account:  "nobody",
		Password: "whatever-password",
	})
	assertAppError(t, err, 404, "not_found")
	if token != "" {
		t.Error("expected no token for unknown account")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	account := testAccount(t, "alice", "secret-password", false)
	repo := &mockAccountRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*Account, error) {
			return account, nil
		},
	}

	svc := newTestService(repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Account:  "alice",
		Password: "wrong-password",
	})
	// Wrong password on an existing account is unauthorized, never not_found.
	assertAppError(t, err, 401, "unauthorized")
	if token != "" {
		t.Error("expected no token for wrong password")
	}
}

func TestLogin_StoreError(t *testing.T) {
	repo := &mockAccountRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*Account, error) {
			return nil, errors.New("db connection lost")
		},
	}

	svc := newTestService(repo)
	_, _, err := svc.Login(context.Background(), LoginInput{
		Account:  "alice",
		Password: "secret-password",
	})
	assertAppError(t, err, 500, "internal_error")
}

// --- VerifySession Tests ---

func TestVerifySession_MissingToken(t *testing.T) {
	svc := newTestService(&mockAccountRepo{})

	_, err := svc.VerifySession(context.Background(), "")
	assertAppError(t, err, 401, "unauthenticated")
}

func TestVerifySession_InvalidToken(t *testing.T) {
	svc := newTestService(&mockAccountRepo{})

	_, err := svc.VerifySession(context.Background(), "not-a-real-token")
	assertAppError(t, err, 403, "forbidden")
}

func TestVerifySession_AccountGone(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	token, err := codec.Issue("deleted-account", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	svc := newTestService(&mockAccountRepo{})

	_, err = svc.VerifySession(context.Background(), token)
	assertAppError(t, err, 404, "not_found")
}

func TestVerifySession_StoreError(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	token, err := codec.Issue("account-123", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	repo := &mockAccountRepo{
		findByIDFn: func(ctx context.Context, id string) (*Account, error) {
			return nil, errors.New("db connection lost")
		},
	}

	svc := newTestService(repo)
	_, err = svc.VerifySession(context.Background(), token)
	assertAppError(t, err, 500, "internal_error")
}

func TestVerifySession_Success(t *testing.T) {
	account := testAccount(t, "alice", "secret-password", true)

	repo := &mockAccountRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*Account, error) {
			return account, nil
		},
		findByIDFn: func(ctx context.Context, id string) (*Account, error) {
			if id != account.ID {
				t.Errorf("expected lookup for %s, got %s", account.ID, id)
			}
			return account, nil
		},
	}

	svc := newTestService(repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Account:  "alice",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got, err := svc.VerifySession(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != account.ID {
		t.Errorf("expected account %s, got %s", account.ID, got.ID)
	}
	if !got.IsAdmin {
		t.Error("expected admin flag to be preserved")
	}
}
