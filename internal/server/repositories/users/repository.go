package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/server/models"
)

// Column is one allowlisted profile column and its new value.
type Column struct {
	Name  string
	Value any
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, columns []Column, updatedAt time.Time) error
	List(ctx context.Context) ([]*models.Profile, error)
}
