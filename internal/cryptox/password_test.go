package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/campuswall/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	pw := []byte("correct horse")

	hash, err := HashPassword(pw, bcrypt.MinCost)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(hash, pw), "hash must not contain the plaintext")

	assert.NoError(t, CheckPassword(hash, pw))
	assert.ErrorIs(t, CheckPassword(hash, []byte("wrong horse")), common.ErrInvalidPassword)
}

func TestHashPassword_FreshSaltEachCall(t *testing.T) {
	pw := []byte("same")

	a, err := HashPassword(pw, bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword(pw, bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NoError(t, CheckPassword(a, pw))
	assert.NoError(t, CheckPassword(b, pw))
}

func TestHashPassword_Cost(t *testing.T) {
	hash, err := HashPassword([]byte("pw"), 10)
	require.NoError(t, err)

	cost, err := HashCost(hash)
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword([]byte(strings.Repeat("x", MaxPasswordLength+1)), bcrypt.MinCost)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := CheckPassword([]byte("plaintext-in-db"), []byte("pw"))
	assert.ErrorIs(t, err, ErrMalformedHash)
	assert.NotErrorIs(t, err, common.ErrInvalidPassword)
}
