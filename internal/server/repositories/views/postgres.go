// Package views stores the per-user view history of blind boxes.
package views

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/campuswall/internal/dbx"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert records a view in a single statement. The (user_id, box_id) key
// keeps one row per pair and viewed_at never moves backwards, so
// concurrent and repeated calls converge on the latest timestamp.
func (r *PostgresRepository) Upsert(ctx context.Context, rec models.ViewRecord) error {
	query :=
		`INSERT INTO boxes_history (user_id, box_id, viewed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, box_id) DO UPDATE
		 SET viewed_at = EXCLUDED.viewed_at
		 WHERE boxes_history.viewed_at <= EXCLUDED.viewed_at`

	if _, err := r.db.ExecContext(ctx, query, rec.UserID, rec.BoxID, rec.ViewedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// History returns the boxes the user has viewed, most recent first. Views
// whose box no longer exists are dropped by the join.
func (r *PostgresRepository) History(ctx context.Context, userID int64) ([]*models.ViewedBox, error) {
	query :=
		`SELECT b.box_id, b.user_id, b.title, b.content, b.contact, b.created_at, h.viewed_at
		 FROM boxes_history h
		 JOIN blind_boxes b ON b.box_id = h.box_id
		 WHERE h.user_id = $1
		 ORDER BY h.viewed_at DESC, h.box_id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ViewedBox
	for rows.Next() {
		var v models.ViewedBox
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Content, &v.Contact, &v.CreatedAt, &v.ViewedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
