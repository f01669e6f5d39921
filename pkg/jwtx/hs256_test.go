package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newHS256(t *testing.T, secret, issuer string) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256([]byte(secret), issuer)
	require.NoError(t, err)
	return h
}

func TestHS256_RoundTrip(t *testing.T) {
	h := newHS256(t, "mega_token_secret", "taskboard")
	require.Equal(t, "HS256", h.Alg())

	claims := jwtx.NewAccessClaims("user-1", "dev@example.com", []string{"DEVELOPER"},
		time.Hour, "taskboard", time.Now())
	tok, err := h.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(tok, "."), 3)

	got, err := h.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "dev@example.com", got.Email)
	require.True(t, got.HasRole("DEVELOPER"))
	require.False(t, got.HasRole("ADMIN"))
	require.NotEmpty(t, got.ID)
}

func TestHS256_EmptySecret(t *testing.T) {
	_, err := jwtx.NewHS256(nil, "")
	require.ErrorIs(t, err, jwtx.ErrEmptySecret)
}

func TestHS256_Rejects(t *testing.T) {
	h := newHS256(t, "secret-a", "taskboard")
	now := time.Now()

	t.Run("wrong secret", func(t *testing.T) {
		other := newHS256(t, "secret-b", "taskboard")
		tok, err := other.Sign(jwtx.NewAccessClaims("u", "", nil, time.Hour, "taskboard", now))
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := h.Sign(jwtx.NewAccessClaims("u", "", nil, time.Minute, "taskboard", now.Add(-time.Hour)))
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		tok, err := h.Sign(jwtx.NewAccessClaims("u", "", nil, time.Hour, "someone-else", now))
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("missing subject", func(t *testing.T) {
		tok, err := h.Sign(jwtx.NewAccessClaims("", "", nil, time.Hour, "taskboard", now))
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := h.Verify("not.a.jwt")
		require.Error(t, err)
		_, err = h.Verify("")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("u", "", nil, time.Hour, "taskboard", now)
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.Error(t, err)
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u", Issuer: "taskboard"}}
		tok, err := h.Sign(claims)
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.Error(t, err)
	})
}
