// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil extracts typed values from BFF requests.

Path parameters come from chi, identity from the auth middleware, and numeric
identifiers are parsed here so handlers never touch strconv directly.
*/
package requestutil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
	"github.com/taibuivan/trackbook/internal/platform/sec"
	"github.com/taibuivan/trackbook/internal/platform/validate"
	"github.com/taibuivan/trackbook/pkg/convert"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body into target.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	body := http.MaxBytesReader(nil, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam parses a positive integer URL parameter such as {planID}.

Returns:
  - int: The identifier
  - error: apperr.NotFound when the segment is not a positive integer, since
    no resource can live at such a path
*/
func IntParam(request *http.Request, name, resource string) (int, error) {
	value, ok, err := convert.ParseInt(chi.URLParam(request, name))
	if err != nil || !ok || value <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return value, nil
}

/*
OptionalIntQuery parses an optional integer query parameter.

Returns:
  - *int: nil when the parameter is absent
  - error: a validation error when it is present but not an integer
*/
func OptionalIntQuery(request *http.Request, name string) (*int, error) {
	value, ok, err := convert.ParseInt(request.URL.Query().Get(name))
	if err != nil {
		return nil, validate.RequiredError(name, fmt.Sprintf("%q must be an integer", name))
	}
	if !ok {
		return nil, nil
	}
	return &value, nil
}

// Claims extracts the authenticated user claims, or nil for anonymous requests.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredUserID returns the backend user id of the caller.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
