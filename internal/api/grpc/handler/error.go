package handler

import (
	"google.golang.org/grpc/status"

	"github.com/dtroode/auth-service/internal/api/apierror"
)

func handleError(err error) error {
	apiErr := apierror.FromError(err)
	return status.Error(apiErr.GRPCCode, apiErr.Message)
}
