package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (IssuedToken, error)
	GenerateRefreshToken(userID uuid.UUID) (IssuedToken, error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (uuid.UUID, error)
}

// IssuedToken is a signed token together with its expiry.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair is the result of a refresh. Refresh is empty unless rotation is enabled.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// Session is the result of a successful login.
type Session struct {
	Access  IssuedToken
	Refresh IssuedToken
	User    User
}
