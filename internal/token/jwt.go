package token

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/auth-service/internal/model"
)

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by two independent HMAC keys.
type JWT struct {
	accessKey  Key
	refreshKey Key
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWT creates a new JWT token manager. Keys must be non-empty and must differ.
func NewJWT(accessKey, refreshKey Key, accessTTL, refreshTTL time.Duration) (*JWT, error) {
	if len(accessKey) == 0 || len(refreshKey) == 0 {
		return nil, errors.New("signing keys must not be empty")
	}
	if bytes.Equal(accessKey, refreshKey) {
		return nil, errors.New("access and refresh signing keys must differ")
	}

	return &JWT{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// AccessTTL returns the lifetime of issued access tokens.
func (j *JWT) AccessTTL() time.Duration {
	return j.accessTTL
}

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (model.IssuedToken, error) {
	return j.issue(userID, PurposeAccess, j.accessKey, j.accessTTL)
}

// GenerateRefreshToken creates a long-lived refresh token.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID) (model.IssuedToken, error) {
	return j.issue(userID, PurposeRefresh, j.refreshKey, j.refreshTTL)
}

// ParseAccessToken validates an access token and returns its user ID.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	return j.parse(tokenString, j.accessKey, PurposeAccess)
}

// ParseRefreshToken validates a refresh token and returns its user ID.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, error) {
	return j.parse(tokenString, j.refreshKey, PurposeRefresh)
}

func (j *JWT) issue(userID uuid.UUID, purpose Purpose, key Key, ttl time.Duration) (model.IssuedToken, error) {
	now := j.now()
	value, err := Issue(userID.String(), purpose, key, ttl, now)
	if err != nil {
		return model.IssuedToken{}, err
	}

	return model.IssuedToken{Value: value, ExpiresAt: now.Add(ttl)}, nil
}

func (j *JWT) parse(tokenString string, key Key, purpose Purpose) (uuid.UUID, error) {
	subject, err := Parse(tokenString, key, purpose, j.now())
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", model.ErrMalformedToken)
	}

	return userID, nil
}
