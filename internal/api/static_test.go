// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFiles() fstest.MapFS {
	built := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"index.html":         {Data: []byte("<!doctype html><app-root></app-root>"), ModTime: built},
		"main-3F2A.js":       {Data: []byte("console.log('app')"), ModTime: built},
		"assets/logo.svg":    {Data: []byte("<svg/>"), ModTime: built},
		"assets/fonts/.keep": {Data: nil, ModTime: built},
	}
}

func get(handler http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestSPAHandler_Assets(t *testing.T) {
	handler := NewSPAHandler(testFiles())

	recorder := get(handler, "/main-3F2A.js", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "console.log('app')", recorder.Body.String())
	assert.Equal(t, assetCacheControl, recorder.Header().Get("Cache-Control"))
	assert.Contains(t, recorder.Header().Get("Content-Type"), "javascript")

	etag := recorder.Header().Get("ETag")
	require.NotEmpty(t, etag)

	recorder = get(handler, "/main-3F2A.js", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, recorder.Code)

	recorder = get(handler, "/assets/logo.svg", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSPAHandler_Fallback(t *testing.T) {
	handler := NewSPAHandler(testFiles())

	for _, target := range []string{"/", "/index.html", "/home/plans/12", "/assets", "/../../etc/passwd"} {
		recorder := get(handler, target, nil)
		require.Equal(t, http.StatusOK, recorder.Code, target)
		assert.Contains(t, recorder.Body.String(), "<app-root>", target)
		assert.Equal(t, indexCacheControl, recorder.Header().Get("Cache-Control"), target)
	}
}

func TestSPAHandler_Methods(t *testing.T) {
	handler := NewSPAHandler(testFiles())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestSPAHandler_NoIndex(t *testing.T) {
	handler := NewSPAHandler(fstest.MapFS{})

	recorder := get(handler, "/anything", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
