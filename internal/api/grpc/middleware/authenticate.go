package middleware

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/status"

	"github.com/dtroode/auth-service/internal/api/apierror"
	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/model"
)

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.User, error)
}

// Authenticate validates bearer tokens and injects the user into context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the bearer token from the authorization metadata and resolves the user.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	// Missing metadata or a foreign scheme is treated as no token at all.
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		token = ""
	}

	user, err := m.authenticator.Authenticate(ctx, token)
	if err != nil {
		m.logger.Debug("gRPC request rejected by authentication", "error", err.Error())
		apiErr := apierror.FromError(err)
		return nil, status.Error(apiErr.GRPCCode, apiErr.Message)
	}

	return m.contextManager.SetUserToContext(ctx, user), nil
}
