package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/client/config"
)

type fakeClient struct {
	loggedIn bool

	regPhone string
	regPass  []byte
	regErr   error

	loginProfile *api.Profile
	loginErr     error

	profileID int64
	updated   []map[string]any
	users     []*api.Profile

	posted   *api.PostBoxRequest
	random   *api.BoxDetails
	randErr  error
	views    []int64
	viewErr  error
	history  []*api.ViewedBox
	presigns []string
	download string
}

func (f *fakeClient) Close() error                   { return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) Register(_ context.Context, phone string, password []byte) (int64, error) {
	f.regPhone, f.regPass = phone, append([]byte(nil), password...)
	return 11, f.regErr
}

func (f *fakeClient) Login(_ context.Context, phone string, password []byte) (*api.Profile, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.loggedIn = true
	return f.loginProfile, nil
}

func (f *fakeClient) Logout()        { f.loggedIn = false }
func (f *fakeClient) LoggedIn() bool { return f.loggedIn }

func (f *fakeClient) Profile(_ context.Context, userID int64) (*api.Profile, error) {
	f.profileID = userID
	return &api.Profile{UserID: userID, PhoneNumber: "13800000000"}, nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, fields map[string]any) (*api.Profile, error) {
	f.updated = append(f.updated, fields)
	return &api.Profile{UserID: 1, PhoneNumber: "13800000000"}, nil
}

func (f *fakeClient) ListUsers(context.Context) ([]*api.Profile, error) { return f.users, nil }

func (f *fakeClient) PostBox(_ context.Context, box *api.PostBoxRequest) (int64, error) {
	f.posted = box
	return 5, nil
}

func (f *fakeClient) RandomBox(context.Context) (*api.BoxDetails, error) { return f.random, f.randErr }

func (f *fakeClient) RecordView(_ context.Context, boxID int64) error {
	f.views = append(f.views, boxID)
	return f.viewErr
}

func (f *fakeClient) History(context.Context) ([]*api.ViewedBox, error) { return f.history, nil }

func (f *fakeClient) PresignUpload(_ context.Context, kind string) (*api.PresignResponse, error) {
	f.presigns = append(f.presigns, kind)
	key := kind + "/" + string(rune('a'+len(f.presigns)-1))
	return &api.PresignResponse{Key: key, URL: "http://s3/" + key}, nil
}

func (f *fakeClient) PresignDownload(_ context.Context, key string) (*api.PresignResponse, error) {
	f.download = key
	return &api.PresignResponse{Key: key, URL: "http://s3/" + key}, nil
}

func newTestApp(f *fakeClient, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return newApp(&config.Config{}, f, bufio.NewReader(strings.NewReader(input)), &out), &out
}

// stubText answers getSimpleText prompts in order.
func stubText(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			t.Fatal("unexpected prompt")
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}
