// Package cryptox wraps the password hashing primitive. Hashes are bcrypt
// strings: the random salt and the cost are embedded in the hash itself.
package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest password bcrypt accepts.
const MaxPasswordLength = 72

// ErrMalformedHash means the stored hash is not a bcrypt hash.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives a salted hash of password with a fresh random salt.
func HashPassword(password []byte, cost int) ([]byte, error) {
	if len(password) > MaxPasswordLength {
		return nil, fmt.Errorf("%w: password longer than %d bytes", common.ErrValidation, MaxPasswordLength)
	}
	return bcrypt.GenerateFromPassword(password, cost)
}

// CheckPassword compares password with hash in constant time. A mismatch is
// common.ErrInvalidPassword; an unparsable hash is ErrMalformedHash.
func CheckPassword(hash, password []byte) error {
	err := bcrypt.CompareHashAndPassword(hash, password)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return common.ErrInvalidPassword
	default:
		return fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// HashCost reports the work factor a hash was produced with.
func HashCost(hash []byte) (int, error) {
	return bcrypt.Cost(hash)
}
