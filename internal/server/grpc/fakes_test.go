package grpc

import (
	"context"
	"iter"

	"github.com/dmitrijs2005/campuswall/internal/server/auth"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
	"github.com/dmitrijs2005/campuswall/internal/server/services"
)

type fakeUsers struct {
	session   *auth.Session
	verifyErr error
	verified  []string
}

func (f *fakeUsers) Register(context.Context, string, string) (int64, error) { return 0, nil }
func (f *fakeUsers) Login(context.Context, string, string) (*services.LoginResult, error) {
	return nil, nil
}
func (f *fakeUsers) Verify(token string) (*auth.Session, error) {
	f.verified = append(f.verified, token)
	return f.session, f.verifyErr
}
func (f *fakeUsers) GetProfile(context.Context, int64) (*models.Profile, error) { return nil, nil }
func (f *fakeUsers) UpdateProfile(context.Context, int64, map[string]any) (*models.Profile, error) {
	return nil, nil
}
func (f *fakeUsers) ListUsers(context.Context) ([]*models.Profile, error) { return nil, nil }

type fakeUploads struct {
	gotUserID int64
	gotKind   string
	gotKey    string
	out       *services.PresignedURL
	err       error
}

func (f *fakeUploads) PresignUpload(_ context.Context, userID int64, kind string) (*services.PresignedURL, error) {
	f.gotUserID, f.gotKind = userID, kind
	return f.out, f.err
}

func (f *fakeUploads) PresignDownload(_ context.Context, key string) (*services.PresignedURL, error) {
	f.gotKey = key
	return f.out, f.err
}

type fakeBoxes struct {
	history []*models.ViewedBox
	err     error
}

func (f *fakeBoxes) RandomBox(context.Context) (*models.BoxDetails, error) { return nil, f.err }
func (f *fakeBoxes) RecordView(context.Context, int64, int64) error        { return f.err }
func (f *fakeBoxes) History(context.Context, int64) (iter.Seq[*models.ViewedBox], error) {
	if f.err != nil {
		return nil, f.err
	}
	return func(yield func(*models.ViewedBox) bool) {
		for _, v := range f.history {
			if !yield(v) {
				return
			}
		}
	}, nil
}
func (f *fakeBoxes) PostBox(context.Context, int64, services.NewBox) (int64, error) { return 0, f.err }

var sessionFixture = auth.Session{UserID: 7, PhoneNumber: "13900000000"}
