// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth signs readers in and out of the reading-plan backend.

The backend owns accounts and issues access tokens. This package forwards the
credentials, keeps the returned token and profile in a server-side session and
answers "who is calling" for the rest of the BFF.

# Architecture

  - [Gateway]: the backend's /auth endpoints.
  - [Session]: token and user persisted in a [session.Store].
  - [Service]: validation, the sign-in lifecycle and the middleware's session lookups.
*/
package auth

import "time"

// # Domain Entities

// User is the profile the backend returns on sign-in.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	LastName  string     `json:"last_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// FullName joins the first and last name.
func (user User) FullName() string {
	if user.LastName == "" {
		return user.Name
	}
	return user.Name + " " + user.LastName
}

// AuthResponse is a successful sign-in: the profile and its access token.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// State is the sign-in state of one session.
type State struct {
	Authenticated bool   `json:"authenticated"`
	User          *User  `json:"user"`
	Token         string `json:"-"`
}

// # Inputs

// LoginInput holds sign-in credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput holds a new account. ConfirmPassword never leaves the BFF.
type RegisterInput struct {
	Name            string `json:"name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// CodeResetInput asks for a password reset code.
type CodeResetInput struct {
	Email string `json:"email"`
}

// PasswordResetInput completes a reset with the emailed code.
type PasswordResetInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// CodeResetResult is the backend's acknowledgement of a reset request.
type CodeResetResult struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	ExpiresIn string `json:"expires_in"`
}

// # Field Identifiers

const (
	FieldName            = "name"
	FieldLastName        = "last_name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldCode            = "code"
)
