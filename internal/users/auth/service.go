// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/middleware"
	"github.com/taibuivan/trackbook/internal/platform/session"
	"github.com/taibuivan/trackbook/internal/platform/validate"
)

// # Service Layer

// Service implements the sign-in lifecycle on top of a [Gateway] and
// server-side sessions.
type Service struct {
	gateway  Gateway
	sessions session.Factory
	verifier middleware.TokenVerifier
	logger   *slog.Logger
}

/*
NewService constructs a [Service].

Parameters:
  - gateway: Gateway (the backend's account API)
  - sessions: session.Factory (one store per session id)
  - verifier: middleware.TokenVerifier (decides whether a stored token is usable)
  - logger: *slog.Logger
*/
func NewService(gateway Gateway, sessions session.Factory, verifier middleware.TokenVerifier, logger *slog.Logger) *Service {
	return &Service{
		gateway:  gateway,
		sessions: sessions,
		verifier: verifier,
		logger:   logger,
	}
}

func (service *Service) session(sessionID string) *Session {
	return NewSession(service.sessions.For(sessionID), service.verifier)
}

// # Sign In

/*
Login signs a user in and stores the token in sessionID.

Parameters:
  - context: context.Context
  - sessionID: string (the new session's identifier)
  - input: LoginInput

Returns:
  - *State: The authenticated state
  - error: Validation, wrong credentials (SESSION_EXPIRED from the backend's 401) or upstream errors
*/
func (service *Service) Login(context context.Context, sessionID string, input LoginInput) (*State, error) {
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, LoginPasswordMinLen).
		MaxLen(FieldPassword, input.Password, LoginPasswordMaxLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	response, err := service.gateway.Login(context, input)
	if err != nil {
		if apperr.IsSessionExpired(err) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	return service.establish(context, sessionID, response)
}

// Register creates an account. The caller signs in afterwards.
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, NameMaxLen).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, NameMaxLen).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)
	validateNewPassword(validator, input.Password).
		Equal(FieldConfirmPassword, input.ConfirmPassword, input.Password, "Passwords do not match")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.gateway.Register(context, input)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Password Reset

// RequestPasswordReset asks the backend to email a reset code.
func (service *Service) RequestPasswordReset(context context.Context, email string) (*CodeResetResult, error) {
	email = strings.TrimSpace(email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.gateway.RequestResetCode(context, email)
}

// UpdatePassword completes a reset with the emailed code and signs the user in.
func (service *Service) UpdatePassword(context context.Context, sessionID string, input PasswordResetInput) (*State, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Code = strings.TrimSpace(input.Code)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldCode, input.Code)
	validateNewPassword(validator, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	response, err := service.gateway.UpdatePassword(context, input)
	if err != nil {
		return nil, err
	}

	return service.establish(context, sessionID, response)
}

// # Session Lifecycle

// Logout forgets everything stored for sessionID.
func (service *Service) Logout(context context.Context, sessionID string) error {
	if err := service.session(sessionID).Clear(context); err != nil {
		return err
	}
	service.logger.InfoContext(context, "user_logged_out")
	return nil
}

// Current returns the sign-in state of sessionID.
func (service *Service) Current(context context.Context, sessionID string) (*State, error) {
	state, err := service.session(sessionID).Load(context)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// SessionToken returns the raw access token of sessionID. Expiry is left to
// the caller, which ends the session when the token is rejected.
func (service *Service) SessionToken(context context.Context, sessionID string) (string, error) {
	token, _, err := service.sessions.For(sessionID).Get(context, constants.SessionTokenKey)
	return token, err
}

// EndSession drops every entry of sessionID.
func (service *Service) EndSession(context context.Context, sessionID string) error {
	return service.session(sessionID).Clear(context)
}

func (service *Service) establish(context context.Context, sessionID string, response *AuthResponse) (*State, error) {
	if err := service.session(sessionID).Save(context, *response); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", response.User.ID))

	user := response.User
	return &State{Authenticated: true, User: &user, Token: response.AccessToken}, nil
}

func validateNewPassword(validator *validate.Validator, password string) *validate.Validator {
	return validator.Required(FieldPassword, password).
		MinLen(FieldPassword, password, NewPasswordMinLen).
		MaxLen(FieldPassword, password, NewPasswordMaxLen)
}

var _ middleware.SessionResolver = (*Service)(nil)
