package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/dmitrijs2005/campuswall/internal/cryptox"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteUserService(t *testing.T) (*UserService, *sqlDB) {
	t.Helper()
	db, m := newSQLiteDeps(t)
	return NewUserService(db, m, newTestConfig()), &sqlDB{db}
}

func TestRegisterLoginVerify_RoundTrip(t *testing.T) {
	svc, _ := newSQLiteUserService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "13800000000", "s3cret")
	require.NoError(t, err)
	require.NotZero(t, id)

	res, err := svc.Login(ctx, "13800000000", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	session, err := svc.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, id, session.UserID)
	assert.Equal(t, "13800000000", session.PhoneNumber)
}

func TestRegister_DuplicateKeepsOneRow(t *testing.T) {
	svc, db := newSQLiteUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "138", "x")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "138", "x")
	assert.ErrorIs(t, err, common.ErrDuplicateCredential)
	assert.Equal(t, 1, db.count(t, `SELECT COUNT(*) FROM users WHERE phone_number = '138'`))
}

func TestRegister_ConcurrentDuplicates(t *testing.T) {
	svc, db := newSQLiteUserService(t)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, dups int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "139", "pw")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, common.ErrDuplicateCredential):
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, dups)
	assert.Equal(t, 1, db.count(t, `SELECT COUNT(*) FROM users WHERE phone_number = '139'`))
}

func TestRegister_StoresSaltedHashWithConfiguredCost(t *testing.T) {
	db, m := newSQLiteDeps(t)
	cfg := newTestConfig()
	cfg.BcryptCost = 10
	svc := NewUserService(db, m, cfg)
	ctx := context.Background()

	_, err := svc.Register(ctx, "1", "same-password")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "2", "same-password")
	require.NoError(t, err)

	var h1, h2 string
	require.NoError(t, db.QueryRow(`SELECT password_hash FROM users WHERE phone_number = '1'`).Scan(&h1))
	require.NoError(t, db.QueryRow(`SELECT password_hash FROM users WHERE phone_number = '2'`).Scan(&h2))

	assert.NotEqual(t, "same-password", h1)
	assert.NotEqual(t, h1, h2, "each hash carries its own salt")
	cost, err := cryptox.HashCost([]byte(h1))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestRegister_ValidationBeforeStorage(t *testing.T) {
	repo := &fakeUsersRepo{getErr: common.ErrorNotFound}
	svc := NewUserService(nil, &fakeRepoMgr{users: repo}, newTestConfig())

	for _, in := range [][2]string{{"", "pw"}, {"   ", "pw"}, {"138", ""}} {
		_, err := svc.Register(context.Background(), in[0], in[1])
		assert.ErrorIs(t, err, common.ErrValidation)
	}
	_, err := svc.Register(context.Background(), "138", strings.Repeat("x", cryptox.MaxPasswordLength+1))
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 0, repo.calls, "invalid input never reaches storage")
}

func TestRegister_OverlongPasswordOnTakenPhone(t *testing.T) {
	svc, _ := newSQLiteUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "138", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "138", strings.Repeat("x", cryptox.MaxPasswordLength+1))
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.NotErrorIs(t, err, common.ErrDuplicateCredential)
}

func TestLogin_ValidationBeforeStorage(t *testing.T) {
	repo := &fakeUsersRepo{getErr: errDBDown}
	svc := NewUserService(nil, &fakeRepoMgr{users: repo}, newTestConfig())

	for _, in := range [][2]string{{"", "pw"}, {"138", ""}, {"138", strings.Repeat("x", cryptox.MaxPasswordLength+1)}} {
		_, err := svc.Login(context.Background(), in[0], in[1])
		assert.ErrorIs(t, err, common.ErrValidation)
	}
	assert.Equal(t, 0, repo.calls)
}

func TestRegister_UniqueConstraintIsDuplicate(t *testing.T) {
	repo := &fakeUsersRepo{getErr: common.ErrorNotFound, createErr: common.ErrorAlreadyExists}
	svc := NewUserService(nil, &fakeRepoMgr{users: repo}, newTestConfig())

	_, err := svc.Register(context.Background(), "138", "pw")
	assert.ErrorIs(t, err, common.ErrDuplicateCredential)
}

func TestRegister_StorageError(t *testing.T) {
	repo := &fakeUsersRepo{getErr: errDBDown}
	svc := NewUserService(nil, &fakeRepoMgr{users: repo}, newTestConfig())

	_, err := svc.Register(context.Background(), "138", "pw")
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.Equal(t, common.CodeStorage, common.Code(err))
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := newSQLiteUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "138", "right")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "999", "right")
	assert.ErrorIs(t, err, common.ErrUnknownCredential)

	_, err = svc.Login(ctx, "138", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidPassword)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLogin_StorageError(t *testing.T) {
	svc := NewUserService(nil, &fakeRepoMgr{users: &fakeUsersRepo{getErr: errDBDown}}, newTestConfig())

	_, err := svc.Login(context.Background(), "138", "pw")
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestLogin_NeverExposesPasswordOrHash(t *testing.T) {
	db, m := newSQLiteDeps(t)
	svc := NewUserService(db, m, newTestConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, "138", "hunter2-plaintext")
	require.NoError(t, err)
	var hash string
	require.NoError(t, db.QueryRow(`SELECT password_hash FROM users`).Scan(&hash))

	res, err := svc.Login(ctx, "138", "hunter2-plaintext")
	require.NoError(t, err)

	parts := strings.Split(res.Token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	profileJSON, err := json.Marshal(res.Profile)
	require.NoError(t, err)

	for _, out := range []string{string(payload), string(profileJSON)} {
		assert.NotContains(t, out, "hunter2-plaintext")
		assert.NotContains(t, out, hash)
		assert.NotContains(t, out, "password")
	}

	// bad input must not echo the password back either
	_, err = svc.Login(ctx, "138", "wrong-plaintext")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "wrong-plaintext")
	assert.NotContains(t, err.Error(), hash)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	svc, _ := newSQLiteUserService(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	_, err := svc.Register(ctx, "138", "pw")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "138", "pw")
	require.NoError(t, err)
	assert.True(t, now.Add(time.Hour).Equal(res.ExpiresAt))

	now = res.ExpiresAt.Add(-time.Second)
	_, err = svc.Verify(res.Token)
	require.NoError(t, err)

	now = res.ExpiresAt.Add(time.Second)
	_, err = svc.Verify(res.Token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = svc.Verify(res.Token + "x")
	assert.Error(t, err)
}

func TestUpdateProfile_AllowlistedFields(t *testing.T) {
	svc, db := newSQLiteUserService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "138", "pw")
	require.NoError(t, err)
	uni := repotest.SeedUniversity(t, db.DB, "Fudan")

	// numbers decoded from JSON arrive as float64
	p, err := svc.UpdateProfile(ctx, id, map[string]any{
		"nickname":      "neo",
		"signature":     "hello",
		"gender":        float64(models.GenderFemale),
		"university_id": float64(uni),
	})
	require.NoError(t, err)
	assert.Equal(t, "neo", p.Nickname)
	assert.Equal(t, "hello", p.Signature)
	assert.Equal(t, models.GenderFemale, p.Gender)
	require.NotNil(t, p.University)
	assert.Equal(t, "Fudan", *p.University)

	p, err = svc.UpdateProfile(ctx, id, map[string]any{"university_id": nil})
	require.NoError(t, err)
	assert.Nil(t, p.UniversityID)
	assert.Nil(t, p.University)
}

func TestUpdateProfile_RejectsCredentialFields(t *testing.T) {
	repo := &fakeUsersRepo{}
	svc := NewUserService(nil, &fakeRepoMgr{users: repo}, newTestConfig())

	for _, field := range []string{"password", "password_hash", "user_id", "phone_number", "created_at"} {
		_, err := svc.UpdateProfile(context.Background(), 1, map[string]any{"nickname": "ok", field: "x"})
		assert.ErrorIs(t, err, common.ErrValidation, field)
	}
	assert.Zero(t, repo.calls, "nothing may be written")
}

func TestUpdateProfile_InvalidValues(t *testing.T) {
	svc := NewUserService(nil, &fakeRepoMgr{users: &fakeUsersRepo{}}, newTestConfig())

	cases := []map[string]any{
		{},
		{"gender": float64(2)},
		{"gender": "female"},
		{"gender": 0.5},
		{"university_id": float64(-1)},
		{"nickname": 42},
	}
	for _, fields := range cases {
		_, err := svc.UpdateProfile(context.Background(), 1, fields)
		assert.ErrorIs(t, err, common.ErrValidation, "%v", fields)
	}
}

func TestUpdateProfile_UnknownUniversity(t *testing.T) {
	svc, _ := newSQLiteUserService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "138", "pw")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, id, map[string]any{"university_id": int64(404)})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	svc, _ := newSQLiteUserService(t)

	_, err := svc.GetProfile(context.Background(), 77)
	assert.ErrorIs(t, err, common.ErrUnknownCredential)

	_, err = svc.GetProfile(context.Background(), 0)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestListUsers_NewestFirst(t *testing.T) {
	svc, _ := newSQLiteUserService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "1", "pw")
	require.NoError(t, err)
	second, err := svc.Register(ctx, "2", "pw")
	require.NoError(t, err)

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].UserID)
	assert.Equal(t, first, list[1].UserID)
}
