// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/remote"
)

// remoteGateway implements [Gateway] over the backend's /auth endpoints.
type remoteGateway struct {
	client *remote.Client
}

// NewRemoteGateway creates a [Gateway] backed by the reading-plan API.
func NewRemoteGateway(client *remote.Client) Gateway {
	return &remoteGateway{client: client}
}

// Login implements [Gateway].
func (gateway *remoteGateway) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var response authResponseDTO
	if err := gateway.client.Post(ctx, "/auth/login", loginDTO(input), &response); err != nil {
		return nil, fmt.Errorf("auth: login: %w", err)
	}
	return response.toDomain()
}

// Register implements [Gateway].
func (gateway *remoteGateway) Register(ctx context.Context, input RegisterInput) (*User, error) {
	request := registerDTO{
		Name:     input.Name,
		LastName: input.LastName,
		Email:    input.Email,
		Password: input.Password,
	}

	var response userDTO
	if err := gateway.client.Post(ctx, "/auth/register", request, &response); err != nil {
		return nil, fmt.Errorf("auth: register: %w", err)
	}

	user := response.toDomain()
	return &user, nil
}

// RequestResetCode implements [Gateway].
func (gateway *remoteGateway) RequestResetCode(ctx context.Context, email string) (*CodeResetResult, error) {
	var response codeResetDTO
	if err := gateway.client.Post(ctx, "/auth/codeReset", emailDTO{Email: email}, &response); err != nil {
		return nil, fmt.Errorf("auth: request reset code: %w", err)
	}

	return &CodeResetResult{
		Message:   response.Message,
		Email:     response.Email,
		ExpiresIn: response.ExpiresIn,
	}, nil
}

// UpdatePassword implements [Gateway].
func (gateway *remoteGateway) UpdatePassword(ctx context.Context, input PasswordResetInput) (*AuthResponse, error) {
	var response authResponseDTO
	if err := gateway.client.Post(ctx, "/auth/updatePassword", updatePasswordDTO(input), &response); err != nil {
		return nil, fmt.Errorf("auth: update password: %w", err)
	}
	return response.toDomain()
}

// # Wire Format

type loginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerDTO struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailDTO struct {
	Email string `json:"email"`
}

type updatePasswordDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type codeResetDTO struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	ExpiresIn string `json:"expiresIn"`
}

type userDTO struct {
	ID        flexibleID `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	LastName  string     `json:"last_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (dto userDTO) toDomain() User {
	return User{
		ID:        string(dto.ID),
		Email:     dto.Email,
		Name:      dto.Name,
		LastName:  dto.LastName,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}
}

// flexibleID accepts a string or numeric identifier.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	*id = flexibleID(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	if *id == "null" {
		*id = ""
	}
	return nil
}

// authResponseDTO keeps the backend's spelling of the token field.
type authResponseDTO struct {
	User        userDTO `json:"user"`
	AccessToken string  `json:"acces_token"`
}

func (dto authResponseDTO) toDomain() (*AuthResponse, error) {
	if dto.AccessToken == "" {
		return nil, apperr.BadGateway(errors.New("auth: backend answered without an access token"))
	}
	return &AuthResponse{User: dto.User.toDomain(), AccessToken: dto.AccessToken}, nil
}
