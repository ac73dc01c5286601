package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/dmitrijs2005/campuswall/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	sessionKey   ctxKey = "session"
	requestIDKey ctxKey = "requestID"
)

// publicMethods can be called without a session token.
var publicMethods = map[string]bool{
	api.FullMethod(api.MethodPing):      true,
	api.FullMethod(api.MethodRegister):  true,
	api.FullMethod(api.MethodLogin):     true,
	api.FullMethod(api.MethodRandomBox): true,
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey, id)

	s.metrics.inflight.Inc()
	defer s.metrics.inflight.Dec()

	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)
	code := status.Code(err)

	s.metrics.observe(info.FullMethod, code, elapsed)
	s.logger.Info(ctx, "request served",
		"request_id", id,
		"method", info.FullMethod,
		"code", code.String(),
		"duration", elapsed,
	)
	return resp, err
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, common.CodeInvalidToken+": missing token")
	}

	session, err := s.users.Verify(accessToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return handler(context.WithValue(ctx, sessionKey, session), req)
}

// sessionFrom returns the session the interceptor attached to ctx.
func sessionFrom(ctx context.Context) (*auth.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*auth.Session)
	return s, ok && s != nil
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
