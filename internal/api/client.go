package api

import (
	"context"

	"google.golang.org/grpc"
)

// CampusWallClient is the client side of CampusWallServer.
type CampusWallClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error)
	PostBox(ctx context.Context, in *PostBoxRequest, opts ...grpc.CallOption) (*PostBoxResponse, error)
	RandomBox(ctx context.Context, in *RandomBoxRequest, opts ...grpc.CallOption) (*BoxResponse, error)
	RecordView(ctx context.Context, in *RecordViewRequest, opts ...grpc.CallOption) (*RecordViewResponse, error)
	History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error)
	PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignResponse, error)
	PresignDownload(ctx context.Context, in *PresignDownloadRequest, opts ...grpc.CallOption) (*PresignResponse, error)
}

type campusWallClient struct {
	cc grpc.ClientConnInterface
}

// NewCampusWallClient returns a client that sends every call with the JSON
// codec.
func NewCampusWallClient(cc grpc.ClientConnInterface) CampusWallClient {
	return &campusWallClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *campusWallClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *campusWallClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *campusWallClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *campusWallClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *campusWallClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodUpdateProfile, in, opts)
}

func (c *campusWallClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, MethodListUsers, in, opts)
}

func (c *campusWallClient) PostBox(ctx context.Context, in *PostBoxRequest, opts ...grpc.CallOption) (*PostBoxResponse, error) {
	return invoke[PostBoxResponse](ctx, c.cc, MethodPostBox, in, opts)
}

func (c *campusWallClient) RandomBox(ctx context.Context, in *RandomBoxRequest, opts ...grpc.CallOption) (*BoxResponse, error) {
	return invoke[BoxResponse](ctx, c.cc, MethodRandomBox, in, opts)
}

func (c *campusWallClient) RecordView(ctx context.Context, in *RecordViewRequest, opts ...grpc.CallOption) (*RecordViewResponse, error) {
	return invoke[RecordViewResponse](ctx, c.cc, MethodRecordView, in, opts)
}

func (c *campusWallClient) History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c.cc, MethodHistory, in, opts)
}

func (c *campusWallClient) PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignResponse, error) {
	return invoke[PresignResponse](ctx, c.cc, MethodPresignUpload, in, opts)
}

func (c *campusWallClient) PresignDownload(ctx context.Context, in *PresignDownloadRequest, opts ...grpc.CallOption) (*PresignResponse, error) {
	return invoke[PresignResponse](ctx, c.cc, MethodPresignDownload, in, opts)
}
