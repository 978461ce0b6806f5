package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/model"
)

// TokenService issues, refreshes and verifies tokens. It composes the
// TokenManager with the UserStore so that tokens of missing or inactive
// users are rejected.
type TokenService struct {
	manager model.TokenManager
	users   model.UserStore
	rotate  bool
	metrics model.AuthMetrics
	logger  *logger.Logger
}

// NewTokenService creates a TokenService. When rotate is set, Refresh also
// issues a new refresh token. metrics may be nil.
func NewTokenService(
	manager model.TokenManager,
	users model.UserStore,
	rotate bool,
	metrics model.AuthMetrics,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager: manager,
		users:   users,
		rotate:  rotate,
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

// Issue creates an access and a refresh token for the user.
func (s *TokenService) Issue(userID uuid.UUID) (access, refresh model.IssuedToken, err error) {
	access, err = s.manager.GenerateAccessToken(userID)
	if err != nil {
		return model.IssuedToken{}, model.IssuedToken{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err = s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return model.IssuedToken{}, model.IssuedToken{}, fmt.Errorf("issue refresh: %w", err)
	}

	s.metrics.TokensIssued(2)

	return access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	userID, err := s.manager.ParseRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Auth service: refresh token rejected",
			"reason", err.Error())
		return model.TokenPair{}, fmt.Errorf("%w: %w", model.ErrInvalidRefreshToken, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Auth service: refresh for unknown user",
				"user_id", userID)
			return model.TokenPair{}, model.ErrUserNotFound
		}
		s.logger.Error("Auth service: failed to get user by id",
			"user_id", userID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if !user.IsActive {
		s.logger.Info("Auth service: refresh for inactive user",
			"user_id", userID)
		return model.TokenPair{}, model.ErrUserNotFound
	}

	var pair model.TokenPair
	pair.Access, err = s.manager.GenerateAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	issued := 1
	if s.rotate {
		pair.Refresh, err = s.manager.GenerateRefreshToken(userID)
		if err != nil {
			return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
		}
		issued++
	}
	s.metrics.TokensIssued(issued)

	s.logger.Debug("Auth service: tokens refreshed",
		"user_id", userID,
		"rotated", s.rotate)

	return pair, nil
}

// Authenticate resolves an access token to the active user it was issued for.
func (s *TokenService) Authenticate(ctx context.Context, accessToken string) (model.User, error) {
	if accessToken == "" {
		return model.User{}, model.ErrMissingToken
	}

	userID, err := s.manager.ParseAccessToken(accessToken)
	if err != nil {
		s.logger.Warn("Auth service: access token rejected",
			"reason", err.Error())
		return model.User{}, fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Auth service: access token for unknown user",
				"user_id", userID)
			return model.User{}, fmt.Errorf("%w: user not found", model.ErrUnauthenticated)
		}
		s.logger.Error("Auth service: failed to get user by id",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if !user.IsActive {
		s.logger.Warn("Auth service: access token for inactive user",
			"user_id", userID)
		return model.User{}, fmt.Errorf("%w: user is inactive", model.ErrUnauthenticated)
	}

	return user, nil
}
