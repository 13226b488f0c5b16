// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
	"github.com/taibuivan/trackbook/internal/platform/respond"
	"github.com/taibuivan/trackbook/internal/platform/sec"
)

// TokenVerifier decodes an upstream access token into caller claims.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionResolver gives the middleware access to server-side sessions.
type SessionResolver interface {
	// SessionToken returns the access token stored for sessionID, or "" when
	// the session does not exist or holds no token.
	SessionToken(ctx context.Context, sessionID string) (string, error)

	// EndSession drops every entry of sessionID.
	EndSession(ctx context.Context, sessionID string) error
}

/*
Authenticate resolves the caller's identity.

Flow:
 1. An 'Authorization: Bearer <token>' header wins (terminal and API clients).
 2. Otherwise the session cookie is looked up in the session store.
 3. No credentials at all: the request proceeds as anonymous.
 4. Verified claims are placed in the context via [ctxutil.WithAuthUser].

A session whose token has expired is ended and answered with SESSION_EXPIRED.
When a downstream handler answers 401 for a cookie session (the backend
rejected the token) the session is ended as well, so the next page load starts
from the login screen.
*/
func Authenticate(verifier TokenVerifier, sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// 1. Bearer header
			if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
				scheme, token, ok := strings.Cut(header, " ")
				if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}

				claims, err := verifier.VerifyToken(token)
				if err != nil {
					respond.Error(writer, request, rejectToken(err))
					return
				}

				next.ServeHTTP(writer, request.WithContext(withIdentity(ctx, claims)))
				return
			}

			// 2. Session cookie
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			sessionID := cookie.Value
			ctx = ctxutil.WithSessionID(ctx, sessionID)

			token, err := sessions.SessionToken(ctx, sessionID)
			if err != nil {
				respond.Error(writer, request, apperr.ServiceUnavailable("Session store"))
				return
			}

			if token == "" {
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				endSession(ctx, sessions, sessionID, "session_token_rejected")
				respond.Error(writer, request, apperr.SessionExpired())
				return
			}

			// 3. Watch for upstream rejection
			recorder := newStatusRecorder(writer)
			next.ServeHTTP(recorder, request.WithContext(withIdentity(ctx, claims)))

			if recorder.status == http.StatusUnauthorized {
				endSession(ctx, sessions, sessionID, "session_ended_by_upstream")
			}
		})
	}
}

// RequireAuth blocks anonymous requests. Register it after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// withIdentity stores claims and tags the request logger with the user.
func withIdentity(ctx context.Context, claims *sec.AuthClaims) context.Context {
	ctx = ctxutil.WithAuthUser(ctx, claims)
	logger := ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID))
	return ctxutil.WithLogger(ctx, logger)
}

func rejectToken(err error) error {
	if errors.Is(err, sec.ErrTokenExpired) {
		return apperr.SessionExpired()
	}
	return apperr.Unauthorized("Invalid or expired token")
}

func endSession(ctx context.Context, sessions SessionResolver, sessionID, event string) {
	logger := ctxutil.GetLogger(ctx)
	if err := sessions.EndSession(context.WithoutCancel(ctx), sessionID); err != nil {
		logger.WarnContext(ctx, "session_end_failed", slog.String("error", err.Error()))
		return
	}
	logger.InfoContext(ctx, event)
}
