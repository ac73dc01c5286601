// Package services contains server-side business logic. This file implements
// UserService: registration, login, stateless session tokens and profiles.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/dmitrijs2005/campuswall/internal/cryptox"
	"github.com/dmitrijs2005/campuswall/internal/dbx"
	"github.com/dmitrijs2005/campuswall/internal/server/auth"
	"github.com/dmitrijs2005/campuswall/internal/server/config"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/users"
)

// LoginResult is a signed session token and the profile it was built from.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Profile   *models.Profile
}

// UserService provides credential and profile operations:
// - Register: create a credential with a bcrypt hash
// - Login: check the password and sign a session token
// - Verify: validate a token and return its session
// - GetProfile, UpdateProfile, ListUsers: non-credential fields only
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	bcryptCost  int
	now         func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      auth.NewIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration),
		bcryptCost:  cfg.BcryptCost,
		now:         time.Now,
	}
}

// WithClock pins the time source used for token issue, verification and
// profile timestamps.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	s.issuer.WithClock(now)
	return s
}

// Register creates a credential and returns the new user id. The phone
// number must not be registered yet.
func (s *UserService) Register(ctx context.Context, phone, password string) (int64, error) {
	phone = strings.TrimSpace(phone)
	if err := validateCredentials(phone, password); err != nil {
		return 0, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByPhone(ctx, phone)
	switch {
	case err == nil:
		return 0, common.ErrDuplicateCredential
	case !errors.Is(err, common.ErrorNotFound):
		return 0, storageError("lookup user", err)
	}

	hash, err := cryptox.HashPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return 0, err
		}
		return 0, fmt.Errorf("hash password: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{Profile: models.Profile{PhoneNumber: phone}, PasswordHash: hash})
	if err != nil {
		// a concurrent registration won the unique constraint
		if errors.Is(err, common.ErrorAlreadyExists) {
			return 0, common.ErrDuplicateCredential
		}
		return 0, storageError("create user", err)
	}
	return u.UserID, nil
}

// Login checks the password for phone and returns a signed session token.
// An unregistered phone and a wrong password are reported as different
// errors.
func (s *UserService) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	phone = strings.TrimSpace(phone)
	if err := validateCredentials(phone, password); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownCredential
		}
		return nil, storageError("lookup user", err)
	}

	if err := cryptox.CheckPassword(user.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, common.ErrInvalidPassword) {
			return nil, err
		}
		return nil, storageError("stored credential", err)
	}

	token, expiresAt, err := s.issuer.Issue(sessionOf(&user.Profile))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Profile: &user.Profile}, nil
}

// Verify validates token and returns the session it carries.
func (s *UserService) Verify(token string) (*auth.Session, error) {
	return s.issuer.Verify(token)
}

// GetProfile returns the profile of userID with its university resolved.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", common.ErrValidation)
	}
	p, err := s.repomanager.Users(s.db).GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user %d", common.ErrUnknownCredential, userID)
		}
		return nil, storageError("get profile", err)
	}
	return p, nil
}

// UpdateProfile applies fields to the user's profile and returns the result.
// Only the columns in users.UpdatableColumns may be named; any other field
// rejects the whole request before storage is touched.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, fields map[string]any) (*models.Profile, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", common.ErrValidation)
	}
	columns, err := profileColumns(fields)
	if err != nil {
		return nil, err
	}

	err = s.repomanager.Users(s.db).UpdateProfile(ctx, userID, columns, s.now().UTC())
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: user %d", common.ErrUnknownCredential, userID)
	case dbx.IsForeignKeyViolation(err):
		return nil, fmt.Errorf("%w: unknown university", common.ErrValidation)
	case err != nil:
		return nil, storageError("update profile", err)
	}

	return s.GetProfile(ctx, userID)
}

// ListUsers returns every profile, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.Profile, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, storageError("list users", err)
	}
	return list, nil
}

// --- helpers below ---

// validateCredentials rejects input no stored credential can match.
func validateCredentials(phone, password string) error {
	if phone == "" || password == "" {
		return fmt.Errorf("%w: phone number and password are required", common.ErrValidation)
	}
	if len(password) > cryptox.MaxPasswordLength {
		return fmt.Errorf("%w: password longer than %d bytes", common.ErrValidation, cryptox.MaxPasswordLength)
	}
	return nil
}

func sessionOf(p *models.Profile) auth.Session {
	return auth.Session{
		UserID:        p.UserID,
		PhoneNumber:   p.PhoneNumber,
		Nickname:      p.Nickname,
		AvatarURL:     p.AvatarURL,
		BackgroundURL: p.BackgroundURL,
		Gender:        p.Gender,
		UniversityID:  p.UniversityID,
	}
}

// profileColumns validates the requested profile fields and returns them in
// a stable order.
func profileColumns(fields map[string]any) ([]users.Column, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", common.ErrValidation)
	}

	var columns []users.Column
	for _, name := range []string{"nickname", "avatar_url", "background_url", "signature", "gender", "university_id"} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		value, err := profileValue(name, v)
		if err != nil {
			return nil, err
		}
		columns = append(columns, users.Column{Name: name, Value: value})
	}

	if len(columns) != len(fields) {
		for name := range fields {
			if _, ok := users.UpdatableColumns[name]; !ok {
				return nil, fmt.Errorf("%w: field %q cannot be updated", common.ErrValidation, name)
			}
		}
	}
	return columns, nil
}

func profileValue(name string, v any) (any, error) {
	switch name {
	case "gender":
		g, ok := asInt64(v)
		if !ok || (g != models.GenderMale && g != models.GenderFemale) {
			return nil, fmt.Errorf("%w: gender must be %d or %d", common.ErrValidation, models.GenderMale, models.GenderFemale)
		}
		return g, nil
	case "university_id":
		if v == nil {
			return nil, nil
		}
		id, ok := asInt64(v)
		if !ok || id <= 0 {
			return nil, fmt.Errorf("%w: university_id must be a positive integer", common.ErrValidation)
		}
		return id, nil
	default:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", common.ErrValidation, name)
		}
		return str, nil
	}
}

// asInt64 accepts the integer forms a decoded request may carry. JSON
// numbers arrive as float64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrStorage, op, err)
}
