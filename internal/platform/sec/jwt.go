// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec reads identity out of the access tokens issued by the
// reading-plan backend.
//
// # Architecture
//
// Trackbook never signs tokens and never holds the backend's keys. The backend
// verifies signatures on every call; this package only decodes the claims so
// the BFF can learn who the caller is and notice an expired token before it
// costs an upstream round-trip.
package sec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when the token's 'exp' claim is in the past.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenSubject is returned when the token names no user.
	ErrTokenSubject = errors.New("sec: token has no subject")
)

// AuthClaims represents the identity carried by an upstream access token.
type AuthClaims struct {
	jwt.RegisteredClaims

	// UserID mirrors the backend's 'id' claim; Subject is used when it is absent.
	UserID string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`

	// AccessToken is the raw bearer forwarded to the backend. Never serialized.
	AccessToken string `json:"-"`
}

// UnmarshalJSON accepts the 'id' and 'sub' claims as strings or numbers.
func (claims *AuthClaims) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for _, name := range []string{"id", "sub"} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		text, err := identifier(raw)
		if err != nil {
			return fmt.Errorf("claim %q: %w", name, err)
		}
		fields[name] = text
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	type plain AuthClaims
	return json.Unmarshal(normalized, (*plain)(claims))
}

// identifier rewrites a numeric JSON value as a JSON string.
func identifier(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '"' || bytes.Equal(trimmed, []byte("null")) {
		return raw, nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return nil, err
	}
	return json.Marshal(number.String())
}

// Expired reports whether the token carries an expiry at or before now.
func (claims *AuthClaims) Expired(now time.Time) bool {
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

// TokenInspector decodes upstream JWTs without verifying their signature.
type TokenInspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewTokenInspector creates a [TokenInspector] using the wall clock.
func NewTokenInspector() *TokenInspector {
	return &TokenInspector{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// WithClock returns a copy of the inspector that reads time from now.
func (inspector *TokenInspector) WithClock(now func() time.Time) *TokenInspector {
	return &TokenInspector{parser: inspector.parser, now: now}
}

// Inspect decodes the claims of tokenString. It does not check expiry.
func (inspector *TokenInspector) Inspect(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if _, _, err := inspector.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("sec: malformed token: %w", err)
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	claims.AccessToken = tokenString

	return claims, nil
}

// VerifyToken decodes tokenString and rejects expired or anonymous tokens.
//
// The name matches the middleware's TokenVerifier contract; signature checks
// remain the backend's job.
func (inspector *TokenInspector) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims, err := inspector.Inspect(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Expired(inspector.now()) {
		return nil, ErrTokenExpired
	}

	if claims.UserID == "" {
		return nil, ErrTokenSubject
	}

	return claims, nil
}
