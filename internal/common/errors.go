// Package common defines shared constants and sentinel errors used across
// client and server layers of CampusWall. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Input was malformed or missing; rejected before any storage access.
	ErrValidation = errors.New("validation error")

	// Credential errors.
	ErrDuplicateCredential = errors.New("phone number is already registered")
	ErrUnknownCredential   = errors.New("phone number is not registered")
	ErrInvalidPassword     = errors.New("wrong password")

	// Session token errors. Both require the caller to log in again.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Blind box errors.
	ErrNoContentAvailable = errors.New("no blind boxes available")

	// Too many Register or Login attempts from one client.
	ErrRateLimited = errors.New("too many requests")

	// ErrStorage wraps every failure of the relational store. Its cause is
	// logged server-side and never returned to clients.
	ErrStorage = errors.New("storage error")
)

// Stable error codes reported to clients alongside the human readable text.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeDuplicateCredential = "DUPLICATE_CREDENTIAL"
	CodeUnknownCredential   = "UNKNOWN_CREDENTIAL"
	CodeInvalidPassword     = "INVALID_PASSWORD"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeExpiredToken        = "EXPIRED_TOKEN"
	CodeNoContentAvailable  = "NO_CONTENT_AVAILABLE"
	CodeRateLimited         = "RATE_LIMITED"
	CodeStorage             = "STORAGE_ERROR"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrValidation, CodeValidation},
	{ErrDuplicateCredential, CodeDuplicateCredential},
	{ErrUnknownCredential, CodeUnknownCredential},
	{ErrInvalidPassword, CodeInvalidPassword},
	{ErrInvalidToken, CodeInvalidToken},
	{ErrTokenExpired, CodeExpiredToken},
	{ErrNoContentAvailable, CodeNoContentAvailable},
	{ErrRateLimited, CodeRateLimited},
}

// Code returns the stable code for err. Anything outside the business
// taxonomy, storage failures included, is reported as CodeStorage.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeStorage
}

// FromCode returns the sentinel error for a stable code reported by the
// server. Unknown codes, CodeStorage included, return ErrStorage.
func FromCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return ErrStorage
}
