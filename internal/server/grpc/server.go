// Package grpc exposes the CampusWall services over gRPC.
package grpc

import (
	"context"
	"iter"
	"net"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/logging"
	"github.com/dmitrijs2005/campuswall/internal/server/auth"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
	"github.com/dmitrijs2005/campuswall/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, phone, password string) (int64, error)
	Login(ctx context.Context, phone, password string) (*services.LoginResult, error)
	Verify(token string) (*auth.Session, error)
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, fields map[string]any) (*models.Profile, error)
	ListUsers(ctx context.Context) ([]*models.Profile, error)
}

type BoxService interface {
	RandomBox(ctx context.Context) (*models.BoxDetails, error)
	RecordView(ctx context.Context, userID, boxID int64) error
	History(ctx context.Context, userID int64) (iter.Seq[*models.ViewedBox], error)
	PostBox(ctx context.Context, ownerID int64, nb services.NewBox) (int64, error)
}

type UploadService interface {
	PresignUpload(ctx context.Context, userID int64, kind string) (*services.PresignedURL, error)
	PresignDownload(ctx context.Context, key string) (*services.PresignedURL, error)
}

type GRPCServer struct {
	address string
	users   UserService
	boxes   BoxService
	uploads UploadService
	logger  logging.Logger
	metrics *rpcMetrics
	limiter *rateLimiter
}

var _ api.CampusWallServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us UserService, bs BoxService, ups UploadService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		boxes:   bs,
		uploads: ups,
		metrics: newRPCMetrics(),
	}
}

// LimitAuth throttles Register and Login to rps requests per second per
// client address with the given burst. A non-positive rps disables it.
func (s *GRPCServer) LimitAuth(rps float64, burst int) {
	if rps <= 0 {
		s.limiter = nil
		return
	}
	s.limiter = newRateLimiter(rps, burst)
}

// newServer builds the grpc.Server with the interceptor chain and the
// CampusWall service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.rateLimitInterceptor,
		s.accessTokenInterceptor,
	))
	api.RegisterCampusWallServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	if err := srv.Serve(lis); err != nil {
		return err
	}

	<-stopped
	return nil
}
