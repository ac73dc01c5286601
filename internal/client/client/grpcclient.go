package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ServerError is a failure reported by the server. It unwraps to the
// matching sentinel of package common, and also to ErrUnauthorized when the
// session token was rejected.
type ServerError struct {
	Code    string
	Message string
	errs    []error
}

func (e *ServerError) Error() string   { return e.Message }
func (e *ServerError) Unwrap() []error { return e.errs }

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.CampusWallClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewCampusWallClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewCampusWallClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
	s.expiresAt = expiresAt
}

// LoggedIn reports whether a session token is held and not yet expired.
func (s *GRPCClient) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != "" && time.Now().Before(s.expiresAt)
}

// Logout drops the session token. The token itself stays valid on the server
// until it expires.
func (s *GRPCClient) Logout() {
	s.setToken("", time.Time{})
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) Register(ctx context.Context, phone string, password []byte) (int64, error) {

	resp, err := s.client.Register(ctx, &api.RegisterRequest{PhoneNumber: phone, Password: string(password)})
	if err != nil {
		return 0, s.mapError(err)
	}

	return resp.UserID, nil

}

func (s *GRPCClient) Login(ctx context.Context, phone string, password []byte) (*api.Profile, error) {

	resp, err := s.client.Login(ctx, &api.LoginRequest{PhoneNumber: phone, Password: string(password)})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setToken(resp.Token, resp.ExpiresAt)

	return resp.Profile, nil

}

// Profile returns the profile of userID, or of the caller when userID is 0.
func (s *GRPCClient) Profile(ctx context.Context, userID int64) (*api.Profile, error) {
	resp, err := s.client.GetProfile(ctx, &api.GetProfileRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Profile, nil
}

func (s *GRPCClient) UpdateProfile(ctx context.Context, fields map[string]any) (*api.Profile, error) {
	resp, err := s.client.UpdateProfile(ctx, &api.UpdateProfileRequest{Fields: fields})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Profile, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]*api.Profile, error) {
	resp, err := s.client.ListUsers(ctx, &api.ListUsersRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Users, nil
}

func (s *GRPCClient) PostBox(ctx context.Context, box *api.PostBoxRequest) (int64, error) {
	resp, err := s.client.PostBox(ctx, box)
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.BoxID, nil
}

func (s *GRPCClient) RandomBox(ctx context.Context) (*api.BoxDetails, error) {
	resp, err := s.client.RandomBox(ctx, &api.RandomBoxRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Box, nil
}

func (s *GRPCClient) RecordView(ctx context.Context, boxID int64) error {
	if _, err := s.client.RecordView(ctx, &api.RecordViewRequest{BoxID: boxID}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) History(ctx context.Context) ([]*api.ViewedBox, error) {
	resp, err := s.client.History(ctx, &api.HistoryRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Boxes, nil
}

func (s *GRPCClient) PresignUpload(ctx context.Context, kind string) (*api.PresignResponse, error) {
	resp, err := s.client.PresignUpload(ctx, &api.PresignUploadRequest{Kind: kind})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) PresignDownload(ctx context.Context, key string) (*api.PresignResponse, error) {
	resp, err := s.client.PresignDownload(ctx, &api.PresignDownloadRequest{Key: key})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

// mapError turns a gRPC status into a ServerError carrying the server's
// error code. A rejected session token also clears the local session.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	}

	code, _, found := strings.Cut(st.Message(), ": ")
	sentinel := common.FromCode(code)
	if !found || common.Code(sentinel) != code {
		return err
	}

	se := &ServerError{Code: code, Message: st.Message(), errs: []error{sentinel}}
	if errors.Is(sentinel, common.ErrInvalidToken) || errors.Is(sentinel, common.ErrTokenExpired) {
		s.Logout()
		se.errs = append(se.errs, ErrUnauthorized)
	}
	return se
}
