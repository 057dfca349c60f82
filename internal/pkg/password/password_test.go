package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("pw123")
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.NotEqual(t, "pw123", digest)

	assert.True(t, h.Verify("pw123", digest))
	assert.False(t, h.Verify("pw124", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHasher_DistinctSalts(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	d1, err := h.Hash("same-password")
	assert.NoError(t, err)
	d2, err := h.Hash("same-password")
	assert.NoError(t, err)

	// Salted: two digests of the same plaintext differ, both verify.
	assert.NotEqual(t, d1, d2)
	assert.True(t, h.Verify("same-password", d1))
	assert.True(t, h.Verify("same-password", d2))
}

func TestHasher_VerifyGarbageDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("pw123", "not-a-bcrypt-digest"))
}

func TestNewHasher_CostClamped(t *testing.T) {
	h := NewHasher(99)

	digest, err := h.Hash("pw123")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))
	assert.True(t, h.Verify("pw123", digest))
}
