package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tasktrackr/internal/domain"
)

func newTestCodec(t *testing.T, lifetime time.Duration) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-secret", lifetime)
	require.NoError(t, err)
	return codec
}

func TestTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Issue("user-1", domain.RoleAdmin, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", identity.UserID)
	require.Equal(t, domain.RoleAdmin, identity.Role)
	require.Equal(t, "alice", identity.Username)
}

func TestTokenExpiryBoundary(t *testing.T) {
	codec := newTestCodec(t, time.Minute)

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issuedAt }

	token, err := codec.Issue("user-1", domain.RoleUser, "bob")
	require.NoError(t, err)

	// just before expiry the token still verifies
	codec.now = func() time.Time { return issuedAt.Add(time.Minute - time.Second) }
	_, err = codec.Verify(token)
	require.NoError(t, err)

	// exactly at the expiry instant it is already expired
	codec.now = func() time.Time { return issuedAt.Add(time.Minute) }
	_, err = codec.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)

	codec.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = codec.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	token, err := codec.Issue("user-1", domain.RoleUser, "bob")
	require.NoError(t, err)

	other, err := NewTokenCodec("other-secret", time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	_, err := codec.Verify("not-a-token")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenUnknownRoleRejected(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Issue("user-1", domain.Role("superuser"), "eve")
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewTokenCodecValidation(t *testing.T) {
	_, err := NewTokenCodec("", time.Hour)
	require.Error(t, err)

	_, err = NewTokenCodec("secret", 0)
	require.Error(t, err)
}
