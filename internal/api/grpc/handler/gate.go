package handler

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/model"
)

var _ GateServer = (*Gate)(nil)

// Gate lets sibling services resolve a bearer token to a user.
type Gate struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewGate creates a new Gate handler.
func NewGate(contextManager model.ContextManager, logger *logger.Logger) *Gate {
	return &Gate{contextManager: contextManager, logger: logger}
}

// WhoAmI returns the public view of the user authenticated by the interceptor chain.
func (h *Gate) WhoAmI(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	user, ok := h.contextManager.GetUserFromContext(ctx)
	if !ok {
		return nil, handleError(model.ErrMissingToken)
	}

	resp, err := publicUserStruct(user.Public())
	if err != nil {
		h.logger.Error("Gate handler: failed to build response",
			"user_id", user.ID,
			"error", err.Error())
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return resp, nil
}

func publicUserStruct(u model.PublicUser) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":         u.ID.String(),
		"email":      u.Email,
		"full_name":  u.FullName,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": u.UpdatedAt.UTC().Format(time.RFC3339),
	}

	optional := map[string]*string{
		"username":      u.Username,
		"phone":         u.Phone,
		"address_line1": u.AddressLine1,
		"address_line2": u.AddressLine2,
		"city":          u.City,
		"state":         u.State,
		"postal_code":   u.PostalCode,
		"country":       u.Country,
	}
	for key, value := range optional {
		if value == nil {
			fields[key] = nil
			continue
		}
		fields[key] = *value
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to convert user: %w", err)
	}
	return s, nil
}
