// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/middleware"
	"github.com/taibuivan/trackbook/internal/platform/session"
)

// Session persists the sign-in state of one user in a [session.Store].
type Session struct {
	store    session.Store
	verifier middleware.TokenVerifier
}

// NewSession wraps store. verifier decides whether a stored token is still usable.
func NewSession(store session.Store, verifier middleware.TokenVerifier) *Session {
	return &Session{store: store, verifier: verifier}
}

// Save stores the token and the JSON-encoded user.
func (userSession *Session) Save(ctx context.Context, response AuthResponse) error {
	encoded, err := json.Marshal(response.User)
	if err != nil {
		return fmt.Errorf("auth_session_encode_failed: %w", err)
	}

	if err := userSession.store.Set(ctx, constants.SessionTokenKey, response.AccessToken); err != nil {
		return err
	}
	return userSession.store.Set(ctx, constants.SessionUserKey, string(encoded))
}

/*
Load restores the sign-in state.

The session is authenticated only when both entries are present, the user
decodes, and the token has not expired. Anything less reads as signed out;
only store failures are errors.
*/
func (userSession *Session) Load(ctx context.Context) (State, error) {
	token, hasToken, err := userSession.store.Get(ctx, constants.SessionTokenKey)
	if err != nil {
		return State{}, err
	}

	rawUser, hasUser, err := userSession.store.Get(ctx, constants.SessionUserKey)
	if err != nil {
		return State{}, err
	}

	if !hasToken || !hasUser || token == "" {
		return State{}, nil
	}

	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return State{}, nil
	}

	if _, err := userSession.verifier.VerifyToken(token); err != nil {
		return State{}, nil
	}

	return State{Authenticated: true, User: &user, Token: token}, nil
}

// Clear removes the token and the user.
func (userSession *Session) Clear(ctx context.Context) error {
	return userSession.store.Clear(ctx)
}
