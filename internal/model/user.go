package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
//
// Implementations must reject a second record with the same email with
// ErrAlreadyExists, a second record with the same non-empty username with
// ErrDuplicateUsername, and report missing records with ErrNotFound.
//
// Mutations touch only the columns they name, so concurrent writers of
// different columns never overwrite each other.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate, updatedAt time.Time) (User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, updatedAt time.Time) error
}

// User represents a stored user with its password verifier and profile.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	Profile      Profile
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds optional contact and shipping address fields.
type Profile struct {
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	Country      *string
}

// ProfileUpdate is a partial profile change. Nil fields keep their stored value.
type ProfileUpdate struct {
	FullName     *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	Country      *string
}

// Apply merges the update into the user and reports whether anything was set.
func (u ProfileUpdate) Apply(user *User) bool {
	changed := false
	if u.FullName != nil {
		user.FullName = *u.FullName
		changed = true
	}

	fields := []struct {
		src *string
		dst **string
	}{
		{u.Phone, &user.Profile.Phone},
		{u.AddressLine1, &user.Profile.AddressLine1},
		{u.AddressLine2, &user.Profile.AddressLine2},
		{u.City, &user.Profile.City},
		{u.State, &user.Profile.State},
		{u.PostalCode, &user.Profile.PostalCode},
		{u.Country, &user.Profile.Country},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		v := *f.src
		*f.dst = &v
		changed = true
	}

	return changed
}

// RegisterParams contains the data needed to create an account.
// Username is optional.
type RegisterParams struct {
	Email    string
	Username string
	Password string
	FullName string
}

// PublicUser is the password-free view of a user returned to clients.
type PublicUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     *string   `json:"username"`
	FullName     string    `json:"full_name"`
	IsActive     bool      `json:"is_active"`
	Phone        *string   `json:"phone"`
	AddressLine1 *string   `json:"address_line1"`
	AddressLine2 *string   `json:"address_line2"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	PostalCode   *string   `json:"postal_code"`
	Country      *string   `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public returns the client-facing view of the user.
func (u User) Public() PublicUser {
	var username *string
	if u.Username != "" {
		v := u.Username
		username = &v
	}

	return PublicUser{
		ID:           u.ID,
		Email:        u.Email,
		Username:     username,
		FullName:     u.FullName,
		IsActive:     u.IsActive,
		Phone:        u.Profile.Phone,
		AddressLine1: u.Profile.AddressLine1,
		AddressLine2: u.Profile.AddressLine2,
		City:         u.Profile.City,
		State:        u.Profile.State,
		PostalCode:   u.Profile.PostalCode,
		Country:      u.Profile.Country,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
