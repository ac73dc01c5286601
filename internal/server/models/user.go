// Package models defines server-side data models persisted in the database.
package models

import "time"

// Gender values stored in users.gender.
const (
	GenderMale   = 0
	GenderFemale = 1
)

// Profile holds the non-credential user fields. It is what clients see.
type Profile struct {
	UserID        int64   `json:"user_id"`
	PhoneNumber   string  `json:"phone_number"`
	Nickname      string  `json:"nickname"`
	AvatarURL     string  `json:"avatar_url"`
	BackgroundURL string  `json:"background_url"`
	Signature     string  `json:"signature"`
	Gender        int     `json:"gender"`
	UniversityID  *int64  `json:"university_id,omitempty"`
	University    *string `json:"university"`
}

// User is the stored credential row. PasswordHash never leaves the
// services package.
type User struct {
	Profile
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
