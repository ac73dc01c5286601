package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "campuswall.v1.CampusWall"

const (
	MethodPing            = "Ping"
	MethodRegister        = "Register"
	MethodLogin           = "Login"
	MethodGetProfile      = "GetProfile"
	MethodUpdateProfile   = "UpdateProfile"
	MethodListUsers       = "ListUsers"
	MethodPostBox         = "PostBox"
	MethodRandomBox       = "RandomBox"
	MethodRecordView      = "RecordView"
	MethodHistory         = "History"
	MethodPresignUpload   = "PresignUpload"
	MethodPresignDownload = "PresignDownload"
)

// FullMethod returns the "/service/method" path of a method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// CampusWallServer is implemented by the server.
type CampusWallServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*ProfileResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	PostBox(context.Context, *PostBoxRequest) (*PostBoxResponse, error)
	RandomBox(context.Context, *RandomBoxRequest) (*BoxResponse, error)
	RecordView(context.Context, *RecordViewRequest) (*RecordViewResponse, error)
	History(context.Context, *HistoryRequest) (*HistoryResponse, error)
	PresignUpload(context.Context, *PresignUploadRequest) (*PresignResponse, error)
	PresignDownload(context.Context, *PresignDownloadRequest) (*PresignResponse, error)
}

// unary builds the method descriptor for one request/response call,
// running the server interceptor chain when one is installed.
func unary[Req, Resp any](method string, call func(CampusWallServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CampusWallServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CampusWallServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CampusWallServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, CampusWallServer.Ping),
		unary(MethodRegister, CampusWallServer.Register),
		unary(MethodLogin, CampusWallServer.Login),
		unary(MethodGetProfile, CampusWallServer.GetProfile),
		unary(MethodUpdateProfile, CampusWallServer.UpdateProfile),
		unary(MethodListUsers, CampusWallServer.ListUsers),
		unary(MethodPostBox, CampusWallServer.PostBox),
		unary(MethodRandomBox, CampusWallServer.RandomBox),
		unary(MethodRecordView, CampusWallServer.RecordView),
		unary(MethodHistory, CampusWallServer.History),
		unary(MethodPresignUpload, CampusWallServer.PresignUpload),
		unary(MethodPresignDownload, CampusWallServer.PresignDownload),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "campuswall.json",
}

func RegisterCampusWallServer(s grpc.ServiceRegistrar, srv CampusWallServer) {
	s.RegisterService(&ServiceDesc, srv)
}
