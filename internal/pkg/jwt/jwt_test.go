package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T, accessTTL, refreshTTL time.Duration) *Codec {
	t.Helper()
	c, err := New("access-secret-123", "refresh-secret-456", accessTTL, refreshTTL)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresSecrets(t *testing.T) {
	_, err := New("", "refresh", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = New("access", "", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	c := newTestCodec(t, time.Hour, 24*time.Hour)

	token, expiresAt, err := c.IssueAccess(42, "alice", "a@x.com", "Alice A")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := c.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Alice A", claims.FullName)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	c := newTestCodec(t, time.Hour, 24*time.Hour)

	token, expiresAt, err := c.IssueRefresh(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, 5*time.Second)

	claims, err := c.ParseRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestRefreshToken_Unique(t *testing.T) {
	c := newTestCodec(t, time.Hour, 24*time.Hour)

	// Same user, same instant: the jti still makes each token distinct.
	first, _, err := c.IssueRefresh(42)
	require.NoError(t, err)
	second, _, err := c.IssueRefresh(42)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestParse_Expired(t *testing.T) {
	c := newTestCodec(t, -time.Minute, -time.Minute)

	access, _, err := c.IssueAccess(1, "u", "u@x.com", "U")
	require.NoError(t, err)
	_, err = c.ParseAccess(access)
	assert.ErrorIs(t, err, ErrExpired)

	refresh, _, err := c.IssueRefresh(1)
	require.NoError(t, err)
	_, err = c.ParseRefresh(refresh)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParse_Tampered(t *testing.T) {
	c := newTestCodec(t, time.Hour, time.Hour)

	token, _, err := c.IssueAccess(1, "u", "u@x.com", "U")
	require.NoError(t, err)

	// Flip a character inside the signed payload.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = c.ParseAccess(tampered)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrExpired)
}

func TestParse_Malformed(t *testing.T) {
	c := newTestCodec(t, time.Hour, time.Hour)

	_, err := c.ParseAccess("definitely-not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParse_WrongKind(t *testing.T) {
	c := newTestCodec(t, time.Hour, time.Hour)

	// A refresh token does not verify under the access secret and vice
	// versa: the two kinds are bound to independent keys.
	refresh, _, err := c.IssueRefresh(7)
	require.NoError(t, err)
	_, err = c.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	access, _, err := c.IssueAccess(7, "u", "u@x.com", "U")
	require.NoError(t, err)
	_, err = c.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}
