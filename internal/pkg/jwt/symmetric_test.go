package jwt

import (
	"bytes"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(t *testing.T, now *time.Time) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    bytes.Repeat([]byte("k"), 64),
		Issuer:    "mediflow",
		Audiences: []string{"mobile"},
		TTL:       time.Hour,
		Clock:     clock.Func(func() time.Time { return *now }),
		UUID:      uid.NewUUID(),
	})
	require.NoError(t, err)
	return s
}

func TestSymmetric_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	s := newTestJWT(t, &now)

	token, err := s.Generate(42, "9876543210")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.CustomerID)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestSymmetric_Expired(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	s := newTestJWT(t, &now)

	token, err := s.Generate(1, "9876543210")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_Tampered(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	s := newTestJWT(t, &now)

	token, err := s.Generate(1, "9876543210")
	require.NoError(t, err)

	_, err = s.Verify(token + "x")
	assert.Error(t, err)
}

func TestNewHS512_ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}
