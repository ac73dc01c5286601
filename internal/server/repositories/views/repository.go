package views

import (
	"context"

	"github.com/dmitrijs2005/campuswall/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, rec models.ViewRecord) error
	History(ctx context.Context, userID int64) ([]*models.ViewedBox, error)
}
