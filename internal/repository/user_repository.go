package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/nmoreau/lastseats/internal/model"
	"github.com/nmoreau/lastseats/internal/utils"
)

// UserRepo persists accounts for all three actor kinds.  The role column
// carries an explicit PROVIDER/SEEKER/ADMIN tag; nothing ever infers a
// user's kind by probing other tables.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = `id, email, password_hash, role, identity_verified, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.IdentityVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID.  Providers always start with
// identity_verified = false; only an admin flips the flag.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
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

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetProvider fetches a user and confirms it carries the PROVIDER role.
// Used by the block list, which only references providers.
func (r *UserRepo) GetProvider(ctx context.Context, id uint64) (model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return u, err
	}
	if u.Role != "PROVIDER" {
		return u, ErrUserNotFound
	}
	return u, nil
}

// SetIdentityVerified flips a provider's verification flag.
func (r *UserRepo) SetIdentityVerified(ctx context.Context, id uint64, verified bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET identity_verified=? WHERE id=? AND role='PROVIDER'",
		verified, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish an absent provider from an already-set flag.
		if _, err := r.GetProvider(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
