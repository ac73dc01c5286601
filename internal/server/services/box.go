package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/dmitrijs2005/campuswall/internal/dbx"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/repomanager"
)

// NewBox is the input of PostBox.
type NewBox struct {
	Title         string
	Content       string
	Contact       string
	Pictures      []string
	UniversityIDs []int64
}

// BoxService draws random blind boxes and keeps per-user view history.
// It holds no state of its own besides the random source and the clock.
type BoxService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	intN        func(n int) int
	now         func() time.Time
}

func NewBoxService(db *sql.DB, m repomanager.RepositoryManager) *BoxService {
	return &BoxService{
		db:          db,
		repomanager: m,
		intN:        rand.IntN,
		now:         time.Now,
	}
}

// WithRand replaces the random source used by PickRandom.
func (s *BoxService) WithRand(r *rand.Rand) *BoxService {
	s.intN = r.IntN
	return s
}

// WithClock replaces the time source used to stamp views and new boxes.
func (s *BoxService) WithClock(now func() time.Time) *BoxService {
	s.now = now
	return s
}

// PickRandom returns the id of a box chosen uniformly from all boxes at
// read time. With no boxes it fails with common.ErrNoContentAvailable.
func (s *BoxService) PickRandom(ctx context.Context) (int64, error) {
	ids, err := s.repomanager.Boxes(s.db).ListIDs(ctx)
	if err != nil {
		return 0, storageError("list boxes", err)
	}
	if len(ids) == 0 {
		return 0, common.ErrNoContentAvailable
	}
	return ids[s.intN(len(ids))], nil
}

// RandomBox picks a box and loads its pictures and university names. A box
// deleted between the pick and the fetch reads as no content.
func (s *BoxService) RandomBox(ctx context.Context) (*models.BoxDetails, error) {
	id, err := s.PickRandom(ctx)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Boxes(s.db)

	box, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoContentAvailable
		}
		return nil, storageError("get box", err)
	}

	pictures, err := repo.Pictures(ctx, id)
	if err != nil {
		return nil, storageError("get box pictures", err)
	}
	universities, err := repo.Universities(ctx, id)
	if err != nil {
		return nil, storageError("get box universities", err)
	}

	return &models.BoxDetails{Box: *box, Pictures: pictures, Universities: universities}, nil
}

// RecordView marks boxID as viewed by userID now. Repeating the call only
// moves the timestamp forward, so it is safe to retry.
func (s *BoxService) RecordView(ctx context.Context, userID, boxID int64) error {
	if userID <= 0 || boxID <= 0 {
		return fmt.Errorf("%w: user and box ids must be positive", common.ErrValidation)
	}

	rec := models.ViewRecord{UserID: userID, BoxID: boxID, ViewedAt: s.now().UTC()}
	if err := s.repomanager.Views(s.db).Upsert(ctx, rec); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown box %d", common.ErrValidation, boxID)
		}
		return storageError("record view", err)
	}
	return nil
}

// History returns the boxes userID has viewed, most recent first. The rows
// are read once; the sequence replays that snapshot on every range and
// hands out copies, so callers cannot alter later iterations.
func (s *BoxService) History(ctx context.Context, userID int64) (iter.Seq[*models.ViewedBox], error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", common.ErrValidation)
	}

	rows, err := s.repomanager.Views(s.db).History(ctx, userID)
	if err != nil {
		return nil, storageError("history", err)
	}

	return func(yield func(*models.ViewedBox) bool) {
		for _, r := range rows {
			if r == nil {
				continue
			}
			v := *r
			if !yield(&v) {
				return
			}
		}
	}, nil
}

// PostBox stores a box with its pictures and universities in one
// transaction. Either every row is written or none is.
func (s *BoxService) PostBox(ctx context.Context, ownerID int64, nb NewBox) (int64, error) {
	if err := validateNewBox(ownerID, nb); err != nil {
		return 0, err
	}

	box := &models.Box{
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(nb.Title),
		Content:   nb.Content,
		Contact:   nb.Contact,
		CreatedAt: s.now().UTC(),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Boxes(tx)
		if _, err := repo.Create(ctx, box); err != nil {
			return err
		}
		for i, url := range nb.Pictures {
			if err := repo.AddPicture(ctx, box.ID, i, url); err != nil {
				return fmt.Errorf("picture %d: %w", i, err)
			}
		}
		for _, uid := range nb.UniversityIDs {
			if err := repo.AddUniversity(ctx, box.ID, uid); err != nil {
				return fmt.Errorf("university %d: %w", uid, err)
			}
		}
		return nil
	})
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: unknown owner or university", common.ErrValidation)
		}
		return 0, storageError("post box", err)
	}

	return box.ID, nil
}

func validateNewBox(ownerID int64, nb NewBox) error {
	if ownerID <= 0 {
		return fmt.Errorf("%w: owner id must be positive", common.ErrValidation)
	}
	if strings.TrimSpace(nb.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	own := uploadPrefixes[UploadBoxPicture] + "/" + strconv.FormatInt(ownerID, 10) + "/"
	for i, p := range nb.Pictures {
		if !knownKey(p) || !strings.HasPrefix(p, own) {
			return fmt.Errorf("%w: picture %d is not one of the poster's uploads", common.ErrValidation, i)
		}
	}
	seen := make(map[int64]struct{}, len(nb.UniversityIDs))
	for _, id := range nb.UniversityIDs {
		if id <= 0 {
			return fmt.Errorf("%w: university id must be positive", common.ErrValidation)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: university %d listed twice", common.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
