// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// LoginPasswordMinLen and LoginPasswordMaxLen bound the password accepted at sign-in.
	LoginPasswordMinLen = 6
	LoginPasswordMaxLen = 15

	// NewPasswordMinLen and NewPasswordMaxLen bound passwords chosen at
	// registration or reset.
	NewPasswordMinLen = 7
	NewPasswordMaxLen = 15

	// NameMaxLen caps first and last names.
	NameMaxLen = 50
)
