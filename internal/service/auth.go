package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/model"
	"github.com/dtroode/auth-service/internal/validation"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown email, so that both failure paths run bcrypt.
const dummyPassword = "timing-equalization-password"

// fallbackDummyVerifier is a well-formed cost 10 bcrypt hash used when
// dummyPassword cannot be hashed.
const fallbackDummyVerifier = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Auth implements account registration and credential operations.
type Auth struct {
	userStore     model.UserStore
	hasher        model.PasswordHasher
	tokenService  *TokenService
	validator     *validation.Validator
	foldEmailCase bool
	metrics       model.AuthMetrics
	logger        *logger.Logger
	now           func() time.Time
	dummyOnce     sync.Once
	dummyVerifier string
}

// AuthOptions configures optional Auth behavior.
type AuthOptions struct {
	// CaseInsensitiveEmail lower-cases emails before storage and lookup.
	CaseInsensitiveEmail bool
	// Metrics receives registration and login events. Optional.
	Metrics model.AuthMetrics
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	validator *validation.Validator,
	opts AuthOptions,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:     userStore,
		hasher:        hasher,
		tokenService:  tokenService,
		validator:     validator,
		foldEmailCase: opts.CaseInsensitiveEmail,
		metrics:       metricsOrNop(opts.Metrics),
		logger:        logger,
		now:           time.Now,
	}
}

func (a *Auth) normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if a.foldEmailCase {
		return strings.ToLower(email)
	}
	return email
}

// Register creates a new active account. No tokens are issued.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	params.Email = a.normalizeEmail(params.Email)
	params.Username = strings.TrimSpace(params.Username)
	params.FullName = strings.TrimSpace(params.FullName)

	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email)

	if err := a.validator.Registration(params); err != nil {
		a.logger.Info("Auth service: registration input rejected",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, err
	}

	_, err := a.userStore.GetByEmail(ctx, params.Email)
	switch {
	case err == nil:
		a.logger.Info("Auth service: user already exists",
			"email", params.Email)
		return model.User{}, model.ErrDuplicateEmail
	case !errors.Is(err, model.ErrNotFound):
		a.logger.Error("Auth service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		Username:     params.Username,
		FullName:     params.FullName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			a.logger.Info("Auth service: user already exists",
				"email", params.Email)
			return model.User{}, model.ErrDuplicateEmail
		}
		if errors.Is(err, model.ErrDuplicateUsername) {
			a.logger.Info("Auth service: username already taken",
				"username", params.Username)
			return model.User{}, model.ErrDuplicateUsername
		}
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.metrics.UserRegistered()
	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", user.ID)

	return user, nil
}

// Login verifies credentials and issues an access and a refresh token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = a.normalizeEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	if err := validation.Apply(
		validation.Required("email", email),
		validation.Required("password", password),
	); err != nil {
		return model.Session{}, err
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.hasher.Verify(password, a.dummy())
			a.metrics.LoginAttempt(false)
			a.logger.Info("Auth service: login failed",
				"email", email)
			return model.Session{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.metrics.LoginAttempt(false)
		a.logger.Info("Auth service: login failed",
			"email", email)
		return model.Session{}, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		a.metrics.LoginAttempt(false)
		a.logger.Info("Auth service: login for inactive user",
			"user_id", user.ID)
		return model.Session{}, model.ErrAccountDisabled
	}

	access, refresh, err := a.tokenService.Issue(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.metrics.LoginAttempt(true)
	a.logger.Info("Auth service: user login completed successfully",
		"user_id", user.ID)

	return model.Session{Access: access, Refresh: refresh, User: user}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	return a.tokenService.Refresh(ctx, refreshToken)
}

// GetUser returns the user with the given id.
func (a *Auth) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
// Tokens issued before the change remain valid until they expire.
func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	a.logger.Debug("Auth service: starting password change",
		"user_id", userID)

	if err := a.validator.Password("new_password", newPassword); err != nil {
		return err
	}

	user, err := a.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			a.logger.Error("Auth service: failed to get user by id",
				"user_id", userID,
				"error", err.Error())
		}
		return err
	}

	if !a.hasher.Verify(oldPassword, user.PasswordHash) {
		a.logger.Info("Auth service: password change rejected",
			"user_id", userID)
		return model.ErrInvalidCredentials
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.UpdatePassword(ctx, userID, hash, a.now()); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrUserNotFound
		}
		a.logger.Error("Auth service: failed to update password",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Info("Auth service: password changed",
		"user_id", userID)

	return nil
}

// UpdateProfile merges the supplied profile fields into the stored user.
func (a *Auth) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	if err := a.validator.ProfileUpdate(update); err != nil {
		return model.User{}, err
	}

	saved, err := a.userStore.UpdateProfile(ctx, userID, update, a.now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrUserNotFound
		}
		a.logger.Error("Auth service: failed to update profile",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	a.logger.Info("Auth service: profile updated",
		"user_id", userID)

	return saved, nil
}

func (a *Auth) dummy() string {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(dummyPassword)
		if err != nil {
			a.logger.Error("Auth service: failed to prepare dummy verifier, using fallback",
				"error", err.Error())
			hash = fallbackDummyVerifier
		}
		a.dummyVerifier = hash
	})
	return a.dummyVerifier
}
