// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/middleware"
	"github.com/taibuivan/trackbook/internal/platform/remote"
	"github.com/taibuivan/trackbook/internal/platform/sec"
	"github.com/taibuivan/trackbook/pkg/uuid"
)

func newTestRouter(service *Service) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(sec.NewTokenInspector(), service))
	router.Mount("/auth", NewHandler(service, CookieOptions{MaxAge: time.Hour}).Routes())
	return router
}

func post(handler http.Handler, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", constants.SessionCookieName)
	return nil
}

func TestHandler_LoginMeLogout(t *testing.T) {
	gateway := &fakeGateway{response: &AuthResponse{User: User{ID: "u-1", Email: "ana@example.com", Name: "Ana"}, AccessToken: token(t, "u-1", time.Hour)}}
	service := newTestService(gateway, newMemoryFactory())
	router := newTestRouter(service)

	recorder := post(router, "/auth/login", `{"email": "ana@example.com", "password": "secret1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "access_token")

	cookie := sessionCookie(t, recorder)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, uuid.Valid(cookie.Value))
	assert.Equal(t, 3600, cookie.MaxAge)

	// The cookie alone identifies the caller.
	request := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: cookie.Value})
	me := httptest.NewRecorder()
	router.ServeHTTP(me, request)
	require.Equal(t, http.StatusOK, me.Code)

	var body struct {
		Data State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &body))
	assert.True(t, body.Data.Authenticated)
	assert.Equal(t, "Ana", body.Data.User.Name)

	recorder = post(router, "/auth/logout", "", &http.Cookie{Name: constants.SessionCookieName, Value: cookie.Value})
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, -1, sessionCookie(t, recorder).MaxAge)

	request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: cookie.Value})
	me = httptest.NewRecorder()
	router.ServeHTTP(me, request)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestHandler_Me_Bearer(t *testing.T) {
	service := newTestService(&fakeGateway{}, newMemoryFactory())
	router := newTestRouter(service)

	request := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	request.Header.Set("Authorization", "Bearer "+token(t, "u-9", time.Hour))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"id":"u-9"`)
}

func TestHandler_Login_Errors(t *testing.T) {
	service := newTestService(&fakeGateway{}, newMemoryFactory())
	router := newTestRouter(service)

	recorder := post(router, "/auth/login", `{"email": "ana@example.com", "password": "123"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())

	recorder = post(router, "/auth/login", `not json`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_RegisterAndReset(t *testing.T) {
	gateway := &fakeGateway{response: &AuthResponse{User: User{ID: "u-1"}, AccessToken: token(t, "u-1", time.Hour)}}
	router := newTestRouter(newTestService(gateway, newMemoryFactory()))

	recorder := post(router, "/auth/register", `{"name": "Ana", "last_name": "Díaz", "email": "ana@example.com", "password": "secret12", "confirm_password": "secret12"}`)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = post(router, "/auth/code-reset", `{"email": "ana@example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ana@example.com", gateway.resetEmail)

	recorder = post(router, "/auth/update-password", `{"email": "ana@example.com", "password": "newpass1", "code": "123456"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, sessionCookie(t, recorder).Value)
}

// # Remote Gateway

func TestRemoteGateway(t *testing.T) {
	accessToken := token(t, "7", time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(request.Body).Decode(&body)

		switch request.URL.Path {
		case "/auth/login":
			assert.Equal(t, "ana@example.com", body["email"])
			_, _ = io.WriteString(writer, `{"statusCode": 200, "message": "ok", "data": {
				"user": {"id": 7, "email": "ana@example.com", "name": "Ana", "last_name": "Díaz", "created_at": "2024-01-02T03:04:05.000Z"},
				"acces_token": "`+accessToken+`"}}`)
		case "/auth/register":
			assert.Equal(t, "Díaz", body["lastName"])
			assert.NotContains(t, body, "confirm_password")
			_, _ = io.WriteString(writer, `{"statusCode": 201, "message": "created", "data": {"id": "8", "email": "b@example.com", "name": "B", "last_name": "C"}}`)
		case "/auth/codeReset":
			_, _ = io.WriteString(writer, `{"statusCode": 200, "message": "ok", "data": {"message": "Código enviado", "email": "ana@example.com", "expiresIn": "15 minutos"}}`)
		case "/auth/updatePassword":
			assert.Equal(t, "123456", body["code"])
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(writer, `{"statusCode": 400, "message": ["Código inválido", "Código expirado"]}`)
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client, err := remote.NewClient(remote.Options{BaseURL: server.URL}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	gateway := NewRemoteGateway(client)

	response, err := gateway.Login(t.Context(), LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "7", response.User.ID)
	assert.Equal(t, "Díaz", response.User.LastName)
	assert.Equal(t, accessToken, response.AccessToken)
	assert.Equal(t, 2024, response.User.CreatedAt.Year())

	user, err := gateway.Register(t.Context(), RegisterInput{Name: "B", LastName: "Díaz", Email: "b@example.com", Password: "secret12", ConfirmPassword: "secret12"})
	require.NoError(t, err)
	assert.Equal(t, "8", user.ID)

	reset, err := gateway.RequestResetCode(t.Context(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "15 minutos", reset.ExpiresIn)

	_, err = gateway.UpdatePassword(t.Context(), PasswordResetInput{Email: "ana@example.com", Password: "newpass1", Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, "Código inválido; Código expirado", apperr.As(err).Message)
}
