// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/respond"
	"github.com/taibuivan/trackbook/pkg/pagination"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestEnvelopes(t *testing.T) {
	t.Run("single_resource_has_no_meta", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.OK(recorder, map[string]int{"id_plan": 12})

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

		body := decode(t, recorder)
		assert.JSONEq(t, `{"id_plan": 12}`, string(body["data"]))
		assert.NotContains(t, body, "meta")
	})

	t.Run("page_carries_meta", func(t *testing.T) {
		items, meta := pagination.Slice([]string{"a", "b", "c"}, pagination.Params{Page: 2, Limit: 2})

		recorder := httptest.NewRecorder()
		respond.Paginated(recorder, items, meta)

		body := decode(t, recorder)
		assert.JSONEq(t, `["c"]`, string(body["data"]))
		assert.JSONEq(t, `{"page": 2, "limit": 2, "total": 3, "total_pages": 2}`, string(body["meta"]))
	})

	t.Run("created", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Created(recorder, "ok")
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})
}

func TestError(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/plans", nil)

	t.Run("validation_details", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, apperr.ValidationError("Validation failed", apperr.FieldError{Field: "title", Message: "This field is required"}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var envelope respond.ErrorEnvelope
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
		require.Len(t, envelope.Details, 1)
		assert.Equal(t, "title", envelope.Details[0].Field)
	})

	t.Run("expired_session_code", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, apperr.SessionExpired())

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, apperr.CodeSessionExpired, decodeCode(t, recorder))
	})

	t.Run("plain_error_is_hidden", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, errors.New("dial tcp: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "connection refused")
	})
}

func decodeCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Code
}
