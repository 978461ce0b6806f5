package apierror

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/dtroode/auth-service/internal/model"
)

// APIError is a transport-neutral description of a failed request.
type APIError struct {
	HTTPStatus int
	GRPCCode   codes.Code
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	errUnauthenticated = &APIError{HTTPStatus: http.StatusUnauthorized, GRPCCode: codes.Unauthenticated, Message: "could not validate credentials"}
	errInternal        = &APIError{HTTPStatus: http.StatusInternalServerError, GRPCCode: codes.Internal, Message: "internal server error"}
)

// FromError maps a service error to its client-facing form. Authentication
// failures carry no detail about the cause. Unknown errors become internal.
func FromError(err error) *APIError {
	var validationErr *model.ValidationError
	var apiErr *APIError

	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &validationErr):
		return &APIError{HTTPStatus: http.StatusBadRequest, GRPCCode: codes.InvalidArgument, Message: validationErr.Error()}
	case errors.Is(err, model.ErrMissingToken):
		return &APIError{HTTPStatus: http.StatusUnauthorized, GRPCCode: codes.Unauthenticated, Message: "not authenticated"}
	case errors.Is(err, model.ErrUnauthenticated):
		return errUnauthenticated
	case errors.Is(err, model.ErrDuplicateEmail):
		return &APIError{HTTPStatus: http.StatusConflict, GRPCCode: codes.AlreadyExists, Message: "email already registered"}
	case errors.Is(err, model.ErrDuplicateUsername):
		return &APIError{HTTPStatus: http.StatusConflict, GRPCCode: codes.AlreadyExists, Message: "username already taken"}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &APIError{HTTPStatus: http.StatusUnauthorized, GRPCCode: codes.Unauthenticated, Message: "incorrect email or password"}
	case errors.Is(err, model.ErrInvalidRefreshToken):
		return &APIError{HTTPStatus: http.StatusUnauthorized, GRPCCode: codes.Unauthenticated, Message: "invalid refresh token"}
	case errors.Is(err, model.ErrUserNotFound):
		return &APIError{HTTPStatus: http.StatusUnauthorized, GRPCCode: codes.Unauthenticated, Message: "user not found"}
	case errors.Is(err, model.ErrAccountDisabled):
		return &APIError{HTTPStatus: http.StatusForbidden, GRPCCode: codes.PermissionDenied, Message: "account is deactivated"}
	default:
		return errInternal
	}
}

// BadRequest builds an APIError for a request that could not be decoded.
func BadRequest(message string) *APIError {
	return &APIError{HTTPStatus: http.StatusBadRequest, GRPCCode: codes.InvalidArgument, Message: message}
}
