package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/dbx"
	"github.com/dmitrijs2005/campuswall/internal/server/config"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/boxes"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/repotest"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/users"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/views"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errDBDown = errors.New("db down")

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		BcryptCost:                  bcrypt.MinCost,
	}
}

// newSQLiteDeps returns a migrated database and the manager serving it.
func newSQLiteDeps(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	db := repotest.NewSQLite(t)
	m, err := repomanager.NewRepositoryManager(config.DriverSQLite)
	require.NoError(t, err)
	return db, m
}

type sqlDB struct{ *sql.DB }

func (d *sqlDB) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRow(query, args...).Scan(&n))
	return n
}

type fakeRepoMgr struct {
	users users.Repository
	boxes boxes.Repository
	views views.Repository
}

func (m *fakeRepoMgr) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoMgr) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoMgr) Boxes(dbx.DBTX) boxes.Repository              { return m.boxes }
func (m *fakeRepoMgr) Views(dbx.DBTX) views.Repository              { return m.views }

type fakeUsersRepo struct {
	calls int

	getOut *models.User
	getErr error

	createErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.UserID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	f.calls++
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	f.calls++
	return nil, f.getErr
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, userID int64, columns []users.Column, updatedAt time.Time) error {
	f.calls++
	return nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.Profile, error) {
	f.calls++
	return nil, f.getErr
}

type fakeBoxesRepo struct {
	ids    []int64
	idsErr error
	getErr error
}

func (f *fakeBoxesRepo) Create(ctx context.Context, box *models.Box) (*models.Box, error) {
	return box, nil
}
func (f *fakeBoxesRepo) AddPicture(context.Context, int64, int, string) error { return nil }
func (f *fakeBoxesRepo) AddUniversity(context.Context, int64, int64) error    { return nil }
func (f *fakeBoxesRepo) ListIDs(context.Context) ([]int64, error)             { return f.ids, f.idsErr }
func (f *fakeBoxesRepo) Get(ctx context.Context, id int64) (*models.Box, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.Box{ID: id}, nil
}
func (f *fakeBoxesRepo) Pictures(context.Context, int64) ([]string, error)     { return nil, nil }
func (f *fakeBoxesRepo) Universities(context.Context, int64) ([]string, error) { return nil, nil }

type fakeViewsRepo struct {
	upsertErr error
	history   []*models.ViewedBox
}

func (f *fakeViewsRepo) Upsert(context.Context, models.ViewRecord) error { return f.upsertErr }
func (f *fakeViewsRepo) History(context.Context, int64) ([]*models.ViewedBox, error) {
	return f.history, nil
}
