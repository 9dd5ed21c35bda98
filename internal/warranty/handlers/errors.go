package handlers

import (
	"errors"

	e "github.com/gartstein/warranty/internal/warranty/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapServiceError converts service errors to gRPC status errors.
func mapServiceError(err error, logger *zap.Logger) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, e.ErrConnection):
		logger.Warn("Tenant database unavailable", zap.Error(err))
		return status.Error(codes.Unavailable, e.ErrConnection.Error())
	default:
		logger.Error("Internal server error", zap.Error(err))
		return status.Error(codes.Internal, "internal server error")
	}
}
