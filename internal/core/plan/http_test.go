// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
	"github.com/taibuivan/trackbook/internal/platform/sec"
)

func newTestRouter(repository Repository, signedIn bool) http.Handler {
	router := chi.NewRouter()
	if signedIn {
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				claims := &sec.AuthClaims{UserID: "u-1", AccessToken: "token"}
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
			})
		})
	}

	NewHandler(newTestService(repository, newMemoryCache())).RegisterRoutes(router)
	return router
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_RequiresAuth(t *testing.T) {
	router := newTestRouter(&fakeRepository{}, false)

	recorder := serve(router, http.MethodGet, "/plans", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandler_ListPlans(t *testing.T) {
	router := newTestRouter(&fakeRepository{plans: []Plan{{ID: 1, Title: "Dune", Progress: 81.2}}}, true)

	recorder := serve(router, http.MethodGet, "/plans?page=1&limit=10", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []Card `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 81, body.Data[0].ProgressPercent)
	assert.Equal(t, BandPrimary, body.Data[0].ProgressBand)
	assert.Equal(t, 1, body.Meta.Total)
}

func TestHandler_GetProgress(t *testing.T) {
	router := newTestRouter(&fakeRepository{details: map[int]*PlanWithDetails{12: fixture()}}, true)

	t.Run("default_focus", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/plans/12/progress", "")
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Data struct {
				FocusDay int `json:"focus_day"`
				Days     []struct {
					Day      int    `json:"day"`
					Status   string `json:"status"`
					Expanded bool   `json:"expanded"`
				} `json:"days"`
				Statistics map[string]int `json:"statistics"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

		assert.Equal(t, 2, body.Data.FocusDay)
		require.Len(t, body.Data.Days, 3)
		assert.Equal(t, "completed", body.Data.Days[0].Status)
		assert.True(t, body.Data.Days[1].Expanded)
		assert.Equal(t, 25, body.Data.Statistics["chapters_percentage"])
	})

	t.Run("explicit_day", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/plans/12/progress?day=3", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"focus_day":3`)
	})

	t.Run("bad_day", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/plans/12/progress?day=two", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("bad_plan_id", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/plans/abc/progress", "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("unknown_plan", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/plans/404/progress", "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestHandler_CreatePlan(t *testing.T) {
	repository := &fakeRepository{}
	router := newTestRouter(repository, true)

	recorder := serve(router, http.MethodPost, "/plans", `{
		"title": "Dune", "book_id": 4,
		"start_date": "2024-03-01", "end_date": "2024-03-31",
		"include_weekends": true, "pages_per_day": 12
	}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	require.NotNil(t, repository.created)
	assert.Equal(t, 12, *repository.created.PagesPerDay)
	assert.True(t, repository.created.IncludeWeekends)

	recorder = serve(router, http.MethodPost, "/plans", `{"title": ""}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(router, http.MethodPost, "/plans", `{not json`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_MarkChaptersRead(t *testing.T) {
	repository := &fakeRepository{
		details:    map[int]*PlanWithDetails{12: fixture()},
		markResult: &MarkReadResult{Message: "ok", NewProgress: 50, UpdatedAssignments: []ReadingAssignment{{ID: 2, Day: 2, IsRead: true}}},
	}
	router := newTestRouter(repository, true)

	// Load the plan first so the confirmation is merged into the cached copy.
	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/plans/12", "").Code)

	recorder := serve(router, http.MethodPost, "/plans/12/chapters/mark-read", `{"assignment_ids": [2], "actual_minutes": 20, "perceived_difficulty": 2}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data MarkReadOutcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data.Message)
	assert.Equal(t, 2, *body.Data.View.FocusDay)
	assert.Equal(t, StatusCompleted, body.Data.View.Days[1].Status)
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	repository := &fakeRepository{}
	router := newTestRouter(repository, true)

	recorder := serve(router, http.MethodPut, "/plans/5", `{"title": "Dune II", "end_date": "2024-05-01", "description": null}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, repository.updated.Description)

	recorder = serve(router, http.MethodDelete, "/plans/5", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, []int{5}, repository.deleted)
}
