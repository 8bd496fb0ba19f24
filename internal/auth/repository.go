package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/aiwlulu/BookEasy/internal/apperror"
)

// mysqlErrDuplicateEntry is the MySQL/MariaDB error number raised when an
// insert violates a unique index.
const mysqlErrDuplicateEntry = 1062

// AccountRepository defines the data access contract for account records.
// The auth service only ever does lookup-by-key and insert through this
// interface; all SQL lives in the concrete implementation.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// accountRepository implements AccountRepository with hand-written MariaDB queries.
type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository backed by the given DB pool.
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts a new account row. The users table carries unique indexes
// on username and email; those are the authoritative guard against
// concurrent registrations, so a duplicate-entry error here is surfaced as
// a conflict rather than an internal failure.
func (r *accountRepository) Create(ctx context.Context, account *Account) error {
	query := `INSERT INTO users (id, username, email, password_hash, is_admin, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.IsAdmin,
		account.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return apperror.NewConflict("an account with this username or email already exists")
		}
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

// FindByID retrieves an account by its UUID.
// Returns apperror.NotFound if no account exists with this ID.
func (r *accountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

// FindByUsername retrieves an account by its username.
// Returns apperror.NotFound if no account exists with this username.
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return r.findOne(ctx, `WHERE username = ?`, username)
}

// FindByEmail retrieves an account by its email address.
// Returns apperror.NotFound if no account exists with this email.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.findOne(ctx, `WHERE email = ?`, email)
}

// findOne runs a single-row account lookup with the given predicate.
func (r *accountRepository) findOne(ctx context.Context, where string, arg any) (*Account, error) {
	query := `SELECT id, username, email, password_hash, is_admin, created_at
	          FROM users ` + where

	account := &Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.IsAdmin,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}

	return account, nil
}

// UsernameExists returns true if an account with the given username exists.
// Used during registration as a fast-path rejection before hashing.
func (r *accountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking username existence: %w", err)
	}

	return exists, nil
}

// EmailExists returns true if an account with the given email exists.
func (r *accountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}

	return exists, nil
}
