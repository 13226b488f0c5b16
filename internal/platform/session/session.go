// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session provides the key-value persistence behind a signed-in user.

A browser keeps the access token and the user profile in local storage; a
server or a terminal has no such thing. [Store] is the smallest contract the
auth flow needs (get, set, clear) so the same session logic runs against:

  - [MemoryStore]: tests and short-lived processes.
  - [FileStore]: the terminal client, one JSON file per user profile.
  - [RedisStore]: the BFF, one hash per session with a sliding TTL.
*/
package session

import "context"

// Store persists the string entries of a single session.
//
// # Concurrency
//
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Clear removes every entry of the session.
	Clear(ctx context.Context) error
}

// Factory hands out the [Store] of one session.
type Factory interface {
	For(sessionID string) Store
}

// Single serves the same store whatever the session id. A terminal has only
// one session.
type Single struct {
	Store Store
}

// For implements [Factory].
func (single Single) For(string) Store {
	return single.Store
}
