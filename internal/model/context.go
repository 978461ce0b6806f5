package model

import "context"

// ContextManager stores the authenticated user in a request context.
type ContextManager interface {
	SetUserToContext(ctx context.Context, user User) context.Context
	GetUserFromContext(ctx context.Context) (User, bool)
}

// PasswordHasher turns passwords into verifiers and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, verifier string) bool
}
