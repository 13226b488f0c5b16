// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trackbook/internal/platform/sec"
)

// signed builds an HS256 token; the inspector never checks the signature.
func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenInspector_VerifyToken(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	inspector := sec.NewTokenInspector().WithClock(func() time.Time { return now })

	t.Run("valid_token_uses_id_claim", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{"id": "7", "sub": "ignored", "email": "ana@example.com", "exp": now.Add(time.Hour).Unix()})

		claims, err := inspector.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "7", claims.UserID)
		assert.Equal(t, "ana@example.com", claims.Email)
		assert.Equal(t, token, claims.AccessToken)
	})

	t.Run("subject_fallback", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{"sub": "9", "exp": now.Add(time.Hour).Unix()})

		claims, err := inspector.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "9", claims.UserID)
	})

	t.Run("numeric_subject", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{"sub": 42, "exp": now.Add(time.Hour).Unix()})

		claims, err := inspector.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.UserID)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("numeric_id_claim", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{"id": 7, "sub": "ignored", "email": "ana@example.com", "exp": now.Add(time.Hour).Unix()})

		claims, err := inspector.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "7", claims.UserID)
		assert.Equal(t, "ana@example.com", claims.Email)
		require.NotNil(t, claims.ExpiresAt)
		assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("object_subject", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{"sub": map[string]any{"id": 1}, "exp": now.Add(time.Hour).Unix()})

		_, err := inspector.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{"sub": "9", "exp": now.Add(-time.Minute).Unix()})

		_, err := inspector.VerifyToken(token)
		assert.ErrorIs(t, err, sec.ErrTokenExpired)
	})

	t.Run("anonymous", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})

		_, err := inspector.VerifyToken(token)
		assert.ErrorIs(t, err, sec.ErrTokenSubject)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := inspector.VerifyToken("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestAuthClaims_Expired(t *testing.T) {
	now := time.Now()

	assert.False(t, (&sec.AuthClaims{}).Expired(now), "no exp claim never expires")

	claims := &sec.AuthClaims{}
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Second))
	assert.True(t, claims.Expired(now))
}
