package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/eseegm97/cse340-site-development/internal/utils"
)

// Account roles, lowest privilege first. Anyone without a session is
// treated as RoleAnonymous by the middleware; the value never appears in
// the database.
const (
	RoleAnonymous = "anonymous"
	RoleClient    = "client"
	RoleEmployee  = "employee"
	RoleAdmin     = "admin"
)

// Account mirrors the 'account' table minus the password hash. The hash is
// deliberately absent from the struct: it never crosses this package's
// boundary, so no response or token can carry it by accident. Verification
// happens inside Authenticate.
type Account struct {
	ID        uint64
	FirstName string
	LastName  string
	Email     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// ErrEmailExists is returned when an insert or update collides with the
// unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidCredentials is returned by Authenticate for both an unknown
// email and a wrong password, so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Create hashes the password with the given bcrypt cost and inserts the
// account with the client role. It returns the new id, or ErrEmailExists
// when the email is already registered.
func (r *AccountRepo) Create(ctx context.Context, firstName, lastName, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO account (firstname, lastname, email, password_hash, role) VALUES (?,?,?,?,?)",
		firstName, lastName, email, hash, RoleClient)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Authenticate looks the account up by email and verifies the submitted
// password against the stored hash. The bcrypt comparison runs even when
// the caller is about to be rejected for a different reason; both failure
// modes collapse into ErrInvalidCredentials.
func (r *AccountRepo) Authenticate(ctx context.Context, email, password string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		a    Account
		hash string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,firstname,lastname,email,password_hash,role,created_at,updated_at FROM account WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &hash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if !utils.VerifyPassword(hash, password) {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// GetByID fetches an account by id. Returns ErrNotFound when missing.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (Account, error) {
	var a Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,firstname,lastname,email,role,created_at,updated_at FROM account WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}

// EmailInUse reports whether the email belongs to an account other than
// excludeID. Registration passes excludeID 0.
func (r *AccountRepo) EmailInUse(ctx context.Context, email string, excludeID uint64) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM account WHERE email=? AND id<>? LIMIT 1",
		email, excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateProfile rewrites the identity fields of one account. It returns
// sql.ErrNoRows when the id matched no row and ErrEmailExists on an email
// collision.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE account SET firstname=?, lastname=?, email=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		firstName, lastName, email, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePassword hashes and stores a new password for one account.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE account SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
