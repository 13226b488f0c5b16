// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
	"github.com/taibuivan/trackbook/internal/platform/sec"
)

// # Fakes

type fakeVerifier map[string]*sec.AuthClaims

func (verifier fakeVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token == "expired" {
		return nil, sec.ErrTokenExpired
	}
	claims, ok := verifier[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	claims.AccessToken = token
	return claims, nil
}

type fakeSessions struct {
	tokens map[string]string
	ended  []string
}

func (sessions *fakeSessions) SessionToken(_ context.Context, sessionID string) (string, error) {
	return sessions.tokens[sessionID], nil
}

func (sessions *fakeSessions) EndSession(_ context.Context, sessionID string) error {
	sessions.ended = append(sessions.ended, sessionID)
	delete(sessions.tokens, sessionID)
	return nil
}

func echoUser(status int) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if claims := ctxutil.GetAuthUser(request.Context()); claims != nil {
			writer.Header().Set("X-User", claims.UserID)
		}
		writer.Header().Set("X-Session", ctxutil.GetSessionID(request.Context()))
		writer.WriteHeader(status)
	})
}

// # Tests

func TestAuthenticate(t *testing.T) {
	verifier := fakeVerifier{"good": {UserID: "42"}}

	t.Run("anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		Authenticate(verifier, &fakeSessions{})(echoUser(http.StatusOK)).
			ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, recorder.Header().Get("X-User"))
	})

	t.Run("bearer", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer good")

		recorder := httptest.NewRecorder()
		Authenticate(verifier, &fakeSessions{})(echoUser(http.StatusOK)).ServeHTTP(recorder, request)

		assert.Equal(t, "42", recorder.Header().Get("X-User"))
	})

	t.Run("bad_scheme", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Basic abc")

		recorder := httptest.NewRecorder()
		Authenticate(verifier, &fakeSessions{})(echoUser(http.StatusOK)).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("expired_bearer", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer expired")

		recorder := httptest.NewRecorder()
		Authenticate(verifier, &fakeSessions{})(echoUser(http.StatusOK)).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "SESSION_EXPIRED")
	})

	t.Run("session_cookie", func(t *testing.T) {
		sessions := &fakeSessions{tokens: map[string]string{"s1": "good"}}
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "s1"})

		recorder := httptest.NewRecorder()
		Authenticate(verifier, sessions)(echoUser(http.StatusOK)).ServeHTTP(recorder, request)

		assert.Equal(t, "42", recorder.Header().Get("X-User"))
		assert.Equal(t, "s1", recorder.Header().Get("X-Session"))
		assert.Empty(t, sessions.ended)
	})

	t.Run("empty_session_is_anonymous", func(t *testing.T) {
		sessions := &fakeSessions{tokens: map[string]string{}}
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "gone"})

		recorder := httptest.NewRecorder()
		Authenticate(verifier, sessions)(echoUser(http.StatusOK)).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, recorder.Header().Get("X-User"))
		assert.Equal(t, "gone", recorder.Header().Get("X-Session"))
	})

	t.Run("expired_session_is_ended", func(t *testing.T) {
		sessions := &fakeSessions{tokens: map[string]string{"s2": "expired"}}
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "s2"})

		recorder := httptest.NewRecorder()
		Authenticate(verifier, sessions)(echoUser(http.StatusOK)).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, []string{"s2"}, sessions.ended)
	})

	t.Run("upstream_401_ends_session", func(t *testing.T) {
		sessions := &fakeSessions{tokens: map[string]string{"s3": "good"}}
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "s3"})

		recorder := httptest.NewRecorder()
		Authenticate(verifier, sessions)(echoUser(http.StatusUnauthorized)).ServeHTTP(recorder, request)

		assert.Equal(t, []string{"s3"}, sessions.ended)
	})
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(echoUser(http.StatusOK))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "1"}))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "given")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "given", seen)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	handler := limiter.Handler(echoUser(http.StatusOK))

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRealIP, "10.0.0.1")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestPanicRecovery(t *testing.T) {
	handler := PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", RealIP(request))
}
