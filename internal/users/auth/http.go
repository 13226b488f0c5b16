// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
	"github.com/taibuivan/trackbook/internal/platform/middleware"
	requestutil "github.com/taibuivan/trackbook/internal/platform/request"
	"github.com/taibuivan/trackbook/internal/platform/respond"
	"github.com/taibuivan/trackbook/pkg/uuid"
)

// # Definitions & Constructors

// CookieOptions shapes the session cookie.
type CookieOptions struct {
	// Secure restricts the cookie to HTTPS. Disabled for local development.
	Secure bool

	// MaxAge matches the server-side session TTL.
	MaxAge time.Duration
}

// Handler implements the authentication endpoints.
type Handler struct {
	authService *Service
	cookie      CookieOptions
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, cookie CookieOptions) *Handler {
	return &Handler{authService: service, cookie: cookie}
}

// Routes returns a [chi.Router] with the authentication routes.
//
// # Endpoints
//   - POST /login           : Signs in and issues the session cookie.
//   - POST /register        : Creates an account.
//   - POST /code-reset      : Emails a password reset code.
//   - POST /update-password : Resets the password and signs in.
//   - POST /logout          : Ends the session.
//   - GET  /me              : The caller's sign-in state.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
	router.Post("/code-reset", handler.codeReset)
	router.Post("/update-password", handler.updatePassword)
	router.Post("/logout", handler.logout)

	router.With(middleware.RequireAuth).Get("/me", handler.me)

	return router
}

/*
Login signs a user in.

POST /api/v1/auth/login

Description: Forwards the credentials and stores the returned token in a fresh
server-side session. The browser only ever sees the HttpOnly session cookie.

Request:
  - Body: LoginInput (Email, Password)

Response:
  - 200: State: Authenticated state with the user
  - 400: Validation: Bad email or password length
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// A new identifier on every sign-in; the previous session is dropped.
	handler.discardSession(request)
	sessionID := uuid.New()

	state, err := handler.authService.Login(request.Context(), sessionID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setCookie(writer, sessionID)
	respond.OK(writer, state)
}

/*
Register creates an account.

POST /api/v1/auth/register

Request:
  - Body: RegisterInput (Name, LastName, Email, Password, ConfirmPassword)

Response:
  - 201: User: The created account
  - 400: Validation: Missing fields or mismatched passwords
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
CodeReset starts the password recovery flow.

POST /api/v1/auth/code-reset

Request:
  - Body: CodeResetInput (Email)

Response:
  - 200: CodeResetResult: Backend message and code lifetime
*/
func (handler *Handler) codeReset(writer http.ResponseWriter, request *http.Request) {
	var input CodeResetInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
UpdatePassword completes the password recovery flow.

POST /api/v1/auth/update-password

Request:
  - Body: PasswordResetInput (Email, Password, Code)

Response:
  - 200: State: Signed in with the new password
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	var input PasswordResetInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.discardSession(request)
	sessionID := uuid.New()

	state, err := handler.authService.UpdatePassword(request.Context(), sessionID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setCookie(writer, sessionID)
	respond.OK(writer, state)
}

/*
Logout ends the current session.

POST /api/v1/auth/logout

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.discardSession(request)

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.NoContent(writer)
}

/*
Me returns the caller's sign-in state.

GET /api/v1/auth/me

Response:
  - 200: State
  - 401: ErrUnauthorized: Not signed in
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	if sessionID := ctxutil.GetSessionID(request.Context()); sessionID != "" {
		state, err := handler.authService.Current(request.Context(), sessionID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if state.Authenticated {
			respond.OK(writer, state)
			return
		}
	}

	// Bearer callers have no stored profile; answer from the token.
	claims := requestutil.Claims(request)
	respond.OK(writer, State{
		Authenticated: true,
		User:          &User{ID: claims.UserID, Email: claims.Email},
	})
}

func (handler *Handler) setCookie(writer http.ResponseWriter, sessionID string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    sessionID,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(handler.cookie.MaxAge / time.Second),
		Secure:   handler.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// discardSession ends the session named by the request cookie, if any.
func (handler *Handler) discardSession(request *http.Request) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return
	}

	if err := handler.authService.EndSession(request.Context(), cookie.Value); err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_discard_failed", slog.String("error", err.Error()))
	}
}
