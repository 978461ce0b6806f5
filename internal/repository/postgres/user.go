package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/auth-service/internal/model"
)

const (
	uniqueViolation     = "23505"
	usernameUniqueIndex = "users_username_key"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, email, username, full_name, password_hash, phone, address_line1, address_line2,
	city, state, postal_code, country, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	var username *string
	err := row.Scan(
		&user.ID, &user.Email, &username, &user.FullName, &user.PasswordHash,
		&user.Profile.Phone, &user.Profile.AddressLine1, &user.Profile.AddressLine2,
		&user.Profile.City, &user.Profile.State, &user.Profile.PostalCode, &user.Profile.Country,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if username != nil {
		user.Username = *username
	}
	return user, err
}

// nullable stores an empty string as NULL so the unique index ignores it.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, username, full_name, password_hash, phone, address_line1, address_line2,
			  city, state, postal_code, country, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, nullable(user.Username), user.FullName, user.PasswordHash,
		user.Profile.Phone, user.Profile.AddressLine1, user.Profile.AddressLine2,
		user.Profile.City, user.Profile.State, user.Profile.PostalCode, user.Profile.Country,
		user.IsActive, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == usernameUniqueIndex {
				return model.User{}, model.ErrDuplicateUsername
			}
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// UpdateProfile sets the non-nil fields of update in a single statement.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate, updatedAt time.Time) (model.User, error) {
	query := `UPDATE users SET
			  full_name = COALESCE($2, full_name),
			  phone = COALESCE($3, phone),
			  address_line1 = COALESCE($4, address_line1),
			  address_line2 = COALESCE($5, address_line2),
			  city = COALESCE($6, city),
			  state = COALESCE($7, state),
			  postal_code = COALESCE($8, postal_code),
			  country = COALESCE($9, country),
			  updated_at = $10
			  WHERE id = $1
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		id, update.FullName, update.Phone, update.AddressLine1, update.AddressLine2,
		update.City, update.State, update.PostalCode, update.Country, updatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool, updatedAt time.Time) error {
	query := `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, active, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
