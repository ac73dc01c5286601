// Package boxes stores blind boxes together with their picture and
// university rows.
package boxes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/dmitrijs2005/campuswall/internal/dbx"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, box *models.Box) (*models.Box, error) {
	query :=
		`INSERT INTO blind_boxes (user_id, title, content, contact, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING box_id`

	err := r.db.QueryRowContext(ctx, query, box.OwnerID, box.Title, box.Content, box.Contact, box.CreatedAt).Scan(&box.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return box, nil
}

func (r *PostgresRepository) AddPicture(ctx context.Context, boxID int64, position int, url string) error {
	query :=
		`INSERT INTO blind_box_pictures (box_id, position, picture_url)
		 VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, boxID, position, url); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddUniversity(ctx context.Context, boxID int64, universityID int64) error {
	query :=
		`INSERT INTO universities_boxes (box_id, university_id)
		 VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, boxID, universityID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListIDs returns the ids of every box that can currently be drawn.
func (r *PostgresRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT box_id FROM blind_boxes`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) Get(ctx context.Context, boxID int64) (*models.Box, error) {
	query :=
		`SELECT box_id, user_id, title, content, contact, created_at
		 FROM blind_boxes
		 WHERE box_id = $1`

	var b models.Box
	err := r.db.QueryRowContext(ctx, query, boxID).Scan(&b.ID, &b.OwnerID, &b.Title, &b.Content, &b.Contact, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &b, nil
}

// Pictures returns the picture urls of a box in posting order.
func (r *PostgresRepository) Pictures(ctx context.Context, boxID int64) ([]string, error) {
	query :=
		`SELECT picture_url
		 FROM blind_box_pictures
		 WHERE box_id = $1
		 ORDER BY position`

	return r.strings(ctx, query, boxID)
}

// Universities returns the names of the universities a box is posted to.
func (r *PostgresRepository) Universities(ctx context.Context, boxID int64) ([]string, error) {
	query :=
		`SELECT un.university_name
		 FROM universities_boxes ub
		 JOIN universities un ON un.university_id = ub.university_id
		 WHERE ub.box_id = $1
		 ORDER BY un.university_name`

	return r.strings(ctx, query, boxID)
}

func (r *PostgresRepository) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
