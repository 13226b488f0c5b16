// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Backend Contract

// Gateway is the backend's account API.
type Gateway interface {

	/*
		Login exchanges credentials for an access token.

		Returns:
		  - *AuthResponse: Profile and token
		  - error: apperr SESSION_EXPIRED (401) on wrong credentials, upstream errors otherwise
	*/
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)

	// Register creates an account. It does not sign the user in.
	Register(ctx context.Context, input RegisterInput) (*User, error)

	// RequestResetCode emails a password reset code.
	RequestResetCode(ctx context.Context, email string) (*CodeResetResult, error)

	// UpdatePassword sets a new password using a reset code and signs the user in.
	UpdatePassword(ctx context.Context, input PasswordResetInput) (*AuthResponse, error)
}
