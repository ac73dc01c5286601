// Package users stores credentials and profiles. Queries use $n
// placeholders and run unchanged on PostgreSQL (pgx) and SQLite.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/dmitrijs2005/campuswall/internal/dbx"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
)

// UpdatableColumns are the only columns UpdateProfile will write.
var UpdatableColumns = map[string]struct{}{
	"nickname":       {},
	"avatar_url":     {},
	"background_url": {},
	"signature":      {},
	"gender":         {},
	"university_id":  {},
}

const profileSelect = `SELECT u.user_id, u.phone_number, u.nickname, u.avatar_url, u.background_url,
		u.signature, u.gender, u.university_id, un.university_name
		FROM users u
		LEFT JOIN universities un ON un.university_id = u.university_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the credential row and sets user.ID. A taken phone number
// yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (phone_number, password_hash)
		 VALUES ($1, $2)
		 RETURNING user_id`

	err := r.db.QueryRowContext(ctx, query, user.PhoneNumber, string(user.PasswordHash)).Scan(&user.UserID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	query :=
		`SELECT user_id, phone_number, password_hash, nickname, avatar_url, background_url,
		 signature, gender, university_id
		 FROM users
		 WHERE phone_number = $1`

	var (
		user         models.User
		hash         string
		universityID sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, phone).Scan(
		&user.UserID, &user.PhoneNumber, &hash, &user.Nickname, &user.AvatarURL, &user.BackgroundURL,
		&user.Signature, &user.Gender, &universityID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.PasswordHash = []byte(hash)
	if universityID.Valid {
		user.UniversityID = &universityID.Int64
	}

	return &user, nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	query := profileSelect + `
		WHERE u.user_id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// UpdateProfile writes the given columns in one statement. Column names are
// checked against UpdatableColumns; values are always bound as parameters.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID int64, columns []Column, updatedAt time.Time) error {
	if len(columns) == 0 {
		return nil
	}

	sets := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+2)
	for _, c := range columns {
		if _, ok := UpdatableColumns[c.Name]; !ok {
			return fmt.Errorf("%w: column %q is not updatable", common.ErrValidation, c.Name)
		}
		args = append(args, c.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Name, len(args)))
	}
	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, userID)

	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// List returns every profile, newest user first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Profile, error) {
	query := profileSelect + `
		ORDER BY u.user_id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.Profile, error) {
	var (
		p              models.Profile
		universityID   sql.NullInt64
		universityName sql.NullString
	)
	if err := s.Scan(&p.UserID, &p.PhoneNumber, &p.Nickname, &p.AvatarURL, &p.BackgroundURL,
		&p.Signature, &p.Gender, &universityID, &universityName); err != nil {
		return nil, err
	}
	if universityID.Valid {
		p.UniversityID = &universityID.Int64
	}
	if universityName.Valid {
		p.University = &universityName.String
	}
	return &p, nil
}
