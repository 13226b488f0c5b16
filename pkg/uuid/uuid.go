// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid mints the opaque identifiers Trackbook hands to browsers.

Session identifiers are UUIDv7: time-ordered, so a Redis SCAN over the session
prefix lists sessions roughly by creation, and unguessable enough to serve as a
bearer of the session cookie.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string. It panics only on entropy failure.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
