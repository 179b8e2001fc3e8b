package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash([]byte("s3cret!"))
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.True(t, h.Compare(hash, []byte("s3cret!")))
	assert.False(t, h.Compare(hash, []byte("s3cret?")))
	assert.False(t, h.Compare("not-a-hash", []byte("s3cret!")))
}

func TestPasswordHasher_CompareDummyIsAlwaysFalse(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, h.CompareDummy([]byte("healthkeeper-dummy-password")))
	assert.False(t, h.CompareDummy([]byte("anything")))
}

func TestPasswordHasher_TooLong(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash([]byte(strings.Repeat("ж", 40)))
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestNewPasswordHasher_RejectsBadCost(t *testing.T) {
	t.Parallel()

	_, err := NewPasswordHasher(1)
	require.Error(t, err)
	_, err = NewPasswordHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)
}
