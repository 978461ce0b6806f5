package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"

	"github.com/dtroode/auth-service/internal/model"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   codes.Code
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        model.NewValidationError("email", "must be a valid email address"),
			wantStatus: http.StatusBadRequest,
			wantCode:   codes.InvalidArgument,
			wantMsg:    "email: must be a valid email address",
		},
		{
			name:       "duplicate email",
			err:        model.ErrDuplicateEmail,
			wantStatus: http.StatusConflict,
			wantCode:   codes.AlreadyExists,
		},
		{
			name:       "duplicate username",
			err:        model.ErrDuplicateUsername,
			wantStatus: http.StatusConflict,
			wantCode:   codes.AlreadyExists,
			wantMsg:    "username already taken",
		},
		{
			name:       "invalid credentials",
			err:        model.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantCode:   codes.Unauthenticated,
			wantMsg:    "incorrect email or password",
		},
		{
			name:       "invalid refresh token keeps codec kind hidden",
			err:        fmt.Errorf("%w: %w", model.ErrInvalidRefreshToken, model.ErrTokenExpired),
			wantStatus: http.StatusUnauthorized,
			wantCode:   codes.Unauthenticated,
			wantMsg:    "invalid refresh token",
		},
		{
			name:       "unauthenticated hides cause",
			err:        fmt.Errorf("%w: %w", model.ErrUnauthenticated, model.ErrInvalidSignature),
			wantStatus: http.StatusUnauthorized,
			wantCode:   codes.Unauthenticated,
			wantMsg:    "could not validate credentials",
		},
		{
			name:       "missing token",
			err:        model.ErrMissingToken,
			wantStatus: http.StatusUnauthorized,
			wantCode:   codes.Unauthenticated,
		},
		{
			name:       "user not found",
			err:        model.ErrUserNotFound,
			wantStatus: http.StatusUnauthorized,
			wantCode:   codes.Unauthenticated,
		},
		{
			name:       "account disabled",
			err:        model.ErrAccountDisabled,
			wantStatus: http.StatusForbidden,
			wantCode:   codes.PermissionDenied,
		},
		{
			name:       "repository failure",
			err:        fmt.Errorf("failed to get user by email: %w", errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   codes.Internal,
			wantMsg:    "internal server error",
		},
		{
			name:       "api error passes through",
			err:        BadRequest("invalid request body"),
			wantStatus: http.StatusBadRequest,
			wantCode:   codes.InvalidArgument,
			wantMsg:    "invalid request body",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantCode, got.GRPCCode)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Message)
			}
			assert.NotContains(t, got.Message, "connection refused")
		})
	}
}

func TestFromError_Nil(t *testing.T) {
	assert.Nil(t, FromError(nil))
}
