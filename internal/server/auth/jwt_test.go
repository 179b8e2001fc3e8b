package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(secret string) (*TokenService, *clock) {
	c := &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewTokenService(secret).WithClock(c.now), c
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newTestService("super-secret")

	tok, err := s.Issue("user-123")
	require.NoError(t, err)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestVerify_ExpiresAfter72Hours(t *testing.T) {
	t.Parallel()

	s, c := newTestService("secret")
	tok, err := s.Issue("u1")
	require.NoError(t, err)

	c.t = c.t.Add(71 * time.Hour)
	_, err = s.Verify(tok)
	require.NoError(t, err, "token must still be valid before 72h")

	c.t = c.t.Add(time.Hour + time.Second)
	_, err = s.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, _ := newTestService("right-secret")
	verifier, _ := newTestService("wrong-secret")

	tok, err := issuer.Issue("u2")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s, _ := newTestService("k")
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := s.Verify(tok)
		require.ErrorIs(t, err, common.ErrTokenInvalid, tok)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	s, _ := newTestService("k")
	tok, err := s.Issue("u1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	other, err := s.Issue("u2")
	require.NoError(t, err)
	parts[1] = strings.Split(other, ".")[1] + "x"

	_, err = s.Verify(strings.Join(parts, "."))
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	s, c := newTestService("k")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(c.t.Add(time.Hour))},
		UserID:           "u1",
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = s.Verify(hs512)
	require.ErrorIs(t, err, common.ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(none)
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestVerify_EmptyUserIDIsInvalid(t *testing.T) {
	t.Parallel()

	s, _ := newTestService("k")
	tok, err := s.Issue("")
	require.NoError(t, err)

	_, err = s.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestVerify_MissingExpiryIsInvalid(t *testing.T) {
	t.Parallel()

	s, _ := newTestService("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = s.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}
