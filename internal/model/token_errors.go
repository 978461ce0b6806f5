package model

import "errors"

// Token codec failures. They are collapsed to ErrUnauthenticated or
// ErrInvalidRefreshToken before reaching a client.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrTokenExpired     = errors.New("token expired")
)
