package views

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func countRows(t *testing.T, db *sql.DB, userID, boxID int64) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM boxes_history WHERE user_id = $1 AND box_id = $2`, userID, boxID).Scan(&n))
	return n
}

func TestUpsert_SingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+boxes_history.*ON\s+CONFLICT\s*\(user_id,\s*box_id\)\s+DO\s+UPDATE.*WHERE\s+boxes_history\.viewed_at\s*<=\s*EXCLUDED\.viewed_at$`).
		WithArgs(int64(1), int64(2), t0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.Upsert(context.Background(), models.ViewRecord{UserID: 1, BoxID: 2, ViewedAt: t0}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO boxes_history`).WillReturnError(errors.New("db down"))

	repo := NewPostgresRepository(db)
	err = repo.Upsert(context.Background(), models.ViewRecord{UserID: 1, BoxID: 2, ViewedAt: t0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestSQLite_UpsertKeepsOneRowAndLatestTimestamp(t *testing.T) {
	db := repotest.NewSQLite(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	u := repotest.SeedUser(t, db, "1")
	b := repotest.SeedBox(t, db, u, "box")

	require.NoError(t, repo.Upsert(ctx, models.ViewRecord{UserID: u, BoxID: b, ViewedAt: t0}))
	require.NoError(t, repo.Upsert(ctx, models.ViewRecord{UserID: u, BoxID: b, ViewedAt: t0.Add(time.Minute)}))
	// an older timestamp arriving late must not move viewed_at back
	require.NoError(t, repo.Upsert(ctx, models.ViewRecord{UserID: u, BoxID: b, ViewedAt: t0.Add(30 * time.Second)}))

	assert.Equal(t, 1, countRows(t, db, u, b))

	h, err := repo.History(ctx, u)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.True(t, t0.Add(time.Minute).Equal(h[0].ViewedAt), "got %v", h[0].ViewedAt)
}

func TestSQLite_UpsertConcurrent(t *testing.T) {
	db := repotest.NewSQLite(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	u := repotest.SeedUser(t, db, "1")
	b := repotest.SeedBox(t, db, u, "box")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Upsert(ctx, models.ViewRecord{UserID: u, BoxID: b, ViewedAt: t0.Add(time.Duration(i) * time.Second)})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 1, countRows(t, db, u, b))
	h, err := repo.History(ctx, u)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.True(t, t0.Add(19*time.Second).Equal(h[0].ViewedAt))
}

func TestSQLite_HistoryOrderAndIsolation(t *testing.T) {
	db := repotest.NewSQLite(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	alice := repotest.SeedUser(t, db, "1")
	bob := repotest.SeedUser(t, db, "2")
	b1 := repotest.SeedBox(t, db, alice, "one")
	b2 := repotest.SeedBox(t, db, alice, "two")
	b3 := repotest.SeedBox(t, db, alice, "three")

	require.NoError(t, repo.Upsert(ctx, models.ViewRecord{UserID: alice, BoxID: b1, ViewedAt: t0}))
	require.NoError(t, repo.Upsert(ctx, models.ViewRecord{UserID: alice, BoxID: b2, ViewedAt: t0.Add(2 * time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, models.ViewRecord{UserID: alice, BoxID: b3, ViewedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, models.ViewRecord{UserID: bob, BoxID: b1, ViewedAt: t0.Add(5 * time.Hour)}))

	h, err := repo.History(ctx, alice)
	require.NoError(t, err)
	require.Len(t, h, 3)
	assert.Equal(t, []int64{b2, b3, b1}, []int64{h[0].ID, h[1].ID, h[2].ID})
	assert.Equal(t, "two", h[0].Title)

	h, err = repo.History(ctx, bob)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, b1, h[0].ID)

	h, err = repo.History(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, h)
}
