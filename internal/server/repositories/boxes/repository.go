package boxes

import (
	"context"

	"github.com/dmitrijs2005/campuswall/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, box *models.Box) (*models.Box, error)
	AddPicture(ctx context.Context, boxID int64, position int, url string) error
	AddUniversity(ctx context.Context, boxID int64, universityID int64) error
	ListIDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, boxID int64) (*models.Box, error)
	Pictures(ctx context.Context, boxID int64) ([]string, error)
	Universities(ctx context.Context, boxID int64) ([]string, error)
}
