package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/auth-service/internal/model"
)

// Purpose distinguishes access tokens from refresh tokens.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// KeySize is the length of generated signing keys in bytes.
const KeySize = 32

// Key is an HMAC signing key.
type Key []byte

// GenerateKey returns a random signing key.
func GenerateKey() (Key, error) {
	key := make(Key, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return key, nil
}

// Claims represents JWT claims with the token purpose.
type Claims struct {
	jwt.RegisteredClaims
	Purpose Purpose `json:"type"`
}

var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithoutClaimsValidation(),
)

// Issue signs a token for subject that expires ttl after now.
func Issue(subject string, purpose Purpose, key Key, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	})

	signed, err := token.SignedString([]byte(key))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}

	return signed, nil
}

// Parse validates token and returns its subject.
//
// Checks run in order: structure, signature, purpose, expiry. The first failing
// check decides the error: model.ErrMalformedToken, model.ErrInvalidSignature,
// model.ErrWrongTokenType or model.ErrTokenExpired. A token is expired once now
// reaches its exp claim.
func Parse(tokenString string, key Key, expected Purpose, now time.Time) (string, error) {
	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(key), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return "", fmt.Errorf("%w: %w", model.ErrMalformedToken, err)
		}
		return "", fmt.Errorf("%w: %w", model.ErrInvalidSignature, err)
	}

	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: missing exp claim", model.ErrMalformedToken)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing sub claim", model.ErrMalformedToken)
	}

	if claims.Purpose != expected {
		return "", fmt.Errorf("%w: expected %s, got %q", model.ErrWrongTokenType, expected, claims.Purpose)
	}

	if !now.Before(claims.ExpiresAt.Time) {
		return "", model.ErrTokenExpired
	}

	return claims.Subject, nil
}
