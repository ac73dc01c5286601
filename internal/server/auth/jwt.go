// Package auth issues and verifies the signed session tokens. A token is the
// whole session: nothing is stored server-side, so a token stays valid until
// it expires.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the identity carried by a token. It holds profile fields only;
// the password hash and audit timestamps are never part of it.
type Session struct {
	UserID        int64  `json:"user_id"`
	PhoneNumber   string `json:"phone_number"`
	Nickname      string `json:"nickname,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	BackgroundURL string `json:"background_url,omitempty"`
	Gender        int    `json:"gender"`
	UniversityID  *int64 `json:"university_id,omitempty"`
}

// Claims are the registered JWT claims plus the session fields.
type Claims struct {
	jwt.RegisteredClaims
	Session
}

// Issuer signs and verifies tokens with one HS256 secret and a fixed
// validity window.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, validity: validity, now: time.Now}
}

// WithClock replaces the time source. Tests use it to pin issue and
// verification instants.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue signs s and returns the token with its expiry instant.
func (i *Issuer) Issue(s Session) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.validity).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Session: s,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Verify checks signature, algorithm and expiry. It returns
// common.ErrTokenExpired for a correctly signed token past its expiry and
// common.ErrInvalidToken for anything else that fails.
func (i *Issuer) Verify(tokenString string) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == 0 {
		return nil, common.ErrInvalidToken
	}

	return &claims.Session, nil
}
