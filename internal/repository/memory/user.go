package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/auth-service/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository is a thread-safe in-memory user store.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]model.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[uuid.UUID]model.User),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(user), nil
}

// Create stores a new user. Uniqueness is checked under the write lock.
func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return model.User{}, model.ErrAlreadyExists
	}
	if _, ok := r.byID[user.ID]; ok {
		return model.User{}, model.ErrAlreadyExists
	}
	if user.Username != "" {
		if _, ok := r.byUsername[user.Username]; ok {
			return model.User{}, model.ErrDuplicateUsername
		}
		r.byUsername[user.Username] = user.ID
	}

	stored := clone(user)
	r.byID[user.ID] = stored
	r.byEmail[user.Email] = user.ID

	return clone(stored), nil
}

// UpdatePassword replaces only the password verifier.
func (r *UserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}

	user.PasswordHash = passwordHash
	user.UpdatedAt = updatedAt
	r.byID[id] = user

	return nil
}

// UpdateProfile merges update into the stored profile.
func (r *UserRepository) UpdateProfile(_ context.Context, id uuid.UUID, update model.ProfileUpdate, updatedAt time.Time) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	update.Apply(&user)
	user.UpdatedAt = updatedAt
	stored := clone(user)
	r.byID[id] = stored

	return clone(stored), nil
}

// SetActive enables or disables the account.
func (r *UserRepository) SetActive(_ context.Context, id uuid.UUID, active bool, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}

	user.IsActive = active
	user.UpdatedAt = updatedAt
	r.byID[id] = user

	return nil
}

// Ping always succeeds.
func (r *UserRepository) Ping(context.Context) error {
	return nil
}

func clone(user model.User) model.User {
	p := &user.Profile
	for _, field := range []**string{
		&p.Phone, &p.AddressLine1, &p.AddressLine2, &p.City, &p.State, &p.PostalCode, &p.Country,
	} {
		if *field != nil {
			v := **field
			*field = &v
		}
	}
	return user
}
