package client

import (
	"context"

	"github.com/dmitrijs2005/campuswall/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, phone string, password []byte) (int64, error)
	Login(ctx context.Context, phone string, password []byte) (*api.Profile, error)
	Logout()
	LoggedIn() bool
	Profile(ctx context.Context, userID int64) (*api.Profile, error)
	UpdateProfile(ctx context.Context, fields map[string]any) (*api.Profile, error)
	ListUsers(ctx context.Context) ([]*api.Profile, error)
	PostBox(ctx context.Context, box *api.PostBoxRequest) (int64, error)
	RandomBox(ctx context.Context) (*api.BoxDetails, error)
	RecordView(ctx context.Context, boxID int64) error
	History(ctx context.Context) ([]*api.ViewedBox, error)
	PresignUpload(ctx context.Context, kind string) (*api.PresignResponse, error)
	PresignDownload(ctx context.Context, key string) (*api.PresignResponse, error)
}
