package grpc

import (
	"context"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/dmitrijs2005/campuswall/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// caller returns the authenticated session of a protected call.
func (s *GRPCServer) caller(ctx context.Context) (*auth.Session, error) {
	session, ok := sessionFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.CodeInvalidToken+": missing session")
	}
	return session, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	id, err := s.users.Register(ctx, req.PhoneNumber, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", id)
	return &api.RegisterResponse{UserID: id}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	res, err := s.users.Login(ctx, req.PhoneNumber, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Profile:   profileToAPI(res.Profile, res.Profile.UserID),
	}, nil

}

func (s *GRPCServer) GetProfile(ctx context.Context, req *api.GetProfileRequest) (*api.ProfileResponse, error) {
	session, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	id := req.UserID
	if id == 0 {
		id = session.UserID
	}

	p, err := s.users.GetProfile(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.ProfileResponse{Profile: profileToAPI(p, session.UserID)}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.ProfileResponse, error) {
	session, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.users.UpdateProfile(ctx, session.UserID, req.Fields)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.ProfileResponse{Profile: profileToAPI(p, session.UserID)}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *api.ListUsersRequest) (*api.ListUsersResponse, error) {
	session, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*api.Profile, 0, len(list))
	for _, p := range list {
		out = append(out, profileToAPI(p, session.UserID))
	}
	return &api.ListUsersResponse{Users: out}, nil
}

func (s *GRPCServer) PostBox(ctx context.Context, req *api.PostBoxRequest) (*api.PostBoxResponse, error) {
	session, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.boxes.PostBox(ctx, session.UserID, newBoxFromAPI(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Box posted", "box_id", id, "user_id", session.UserID)
	return &api.PostBoxResponse{BoxID: id}, nil
}

func (s *GRPCServer) RandomBox(ctx context.Context, req *api.RandomBoxRequest) (*api.BoxResponse, error) {
	d, err := s.boxes.RandomBox(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.BoxResponse{Box: boxDetailsToAPI(d)}, nil
}

func (s *GRPCServer) RecordView(ctx context.Context, req *api.RecordViewRequest) (*api.RecordViewResponse, error) {
	session, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.boxes.RecordView(ctx, session.UserID, req.BoxID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.RecordViewResponse{}, nil
}

func (s *GRPCServer) History(ctx context.Context, req *api.HistoryRequest) (*api.HistoryResponse, error) {
	session, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	seq, err := s.boxes.History(ctx, session.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := []*api.ViewedBox{}
	for v := range seq {
		out = append(out, viewedBoxToAPI(v))
	}
	return &api.HistoryResponse{Boxes: out}, nil
}

func (s *GRPCServer) PresignUpload(ctx context.Context, req *api.PresignUploadRequest) (*api.PresignResponse, error) {
	session, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.uploads.PresignUpload(ctx, session.UserID, req.Kind)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return presignToAPI(p), nil
}

func (s *GRPCServer) PresignDownload(ctx context.Context, req *api.PresignDownloadRequest) (*api.PresignResponse, error) {
	if _, err := s.caller(ctx); err != nil {
		return nil, err
	}

	p, err := s.uploads.PresignDownload(ctx, req.Key)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return presignToAPI(p), nil
}
