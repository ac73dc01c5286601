package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var statusCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrValidation, codes.InvalidArgument},
	{common.ErrDuplicateCredential, codes.AlreadyExists},
	{common.ErrUnknownCredential, codes.NotFound},
	{common.ErrInvalidPassword, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrNoContentAvailable, codes.NotFound},
	{common.ErrRateLimited, codes.ResourceExhausted},
}

// toStatus converts a service error into a gRPC status whose message starts
// with the stable error code. Storage and unexpected failures are logged and
// reported without their cause.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return status.Error(sc.code, common.Code(err)+": "+err.Error())
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	s.logger.Error(ctx, "request failed", "request_id", requestID(ctx), "error", err)
	return status.Error(codes.Internal, common.CodeStorage+": internal error")
}
