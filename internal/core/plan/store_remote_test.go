// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trackbook/internal/core/plan"
	"github.com/taibuivan/trackbook/internal/platform/remote"
	"github.com/taibuivan/trackbook/pkg/pointer"
)

const planDetailsJSON = `{
	"statusCode": 200,
	"message": "ok",
	"data": {
		"id_plan": 12,
		"id_usuario": 3,
		"titulo": "Dune in a month",
		"descripcion": null,
		"fecha_inicio": "2024-03-01T00:00:00.000Z",
		"fecha_fin": "2024-03-31T23:59:59.000Z",
		"incluir_fines_semana": true,
		"paginas_por_dia": 20,
		"tiempo_estimado_dia": null,
		"estado": "activo",
		"progreso_porcentaje": "42.50",
		"libro": {"titulo": "Dune", "portada_url": "https://covers.example/dune.jpg"},
		"detalleplanlectura": [
			{
				"id_detalle": 100,
				"id_capitulo": 5,
				"capitulo": {"id_capitulo": 5, "numero_capitulo": 1, "titulo": "Arrakis", "paginas_estimadas": 18},
				"fecha_asignada": "2024-03-01T00:00:00.000Z",
				"dia": 1,
				"leido": true,
				"es_atrasado": false,
				"pagina_inicio": 1,
				"pagina_fin": 18,
				"tiempo_estimado_minutos": 36,
				"fecha_completado": "2024-03-01T20:15:00.000Z",
				"tiempo_real_minutos": 40,
				"dificultad_percibida": 2,
				"notas": "Slow start"
			},
			{
				"id_detalle": 101,
				"id_capitulo": 6,
				"fecha_asignada": "2024-03-02",
				"dia": 2,
				"leido": false,
				"es_atrasado": true,
				"pagina_inicio": 19,
				"pagina_fin": 40,
				"tiempo_estimado_minutos": 44,
				"fecha_completado": null,
				"tiempo_real_minutos": null,
				"dificultad_percibida": null,
				"notas": null
			}
		]
	}
}`

func newRemoteRepository(t *testing.T, handler http.HandlerFunc) plan.Repository {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := remote.NewClient(remote.Options{BaseURL: server.URL}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)

	return plan.NewRemoteRepository(client)
}

func decodeBody(t *testing.T, request *http.Request) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
	return body
}

func TestRemoteRepository_FindByID(t *testing.T) {
	repository := newRemoteRepository(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "/plan/12", request.URL.Path)
		_, _ = io.WriteString(writer, planDetailsJSON)
	})

	details, err := repository.FindByID(context.Background(), 12)
	require.NoError(t, err)

	assert.Equal(t, 12, details.ID)
	assert.Equal(t, "3", details.UserID)
	assert.Equal(t, "Dune", details.BookTitle)
	assert.Equal(t, "", details.Description)
	assert.Equal(t, 20, details.PagesPerDay)
	assert.Equal(t, 0, details.MinutesPerDay)
	assert.InDelta(t, 42.5, details.Progress, 0.001)
	assert.Equal(t, "2024-03-31", details.EndDate.String())

	require.Len(t, details.Assignments, 2)

	first := details.Assignments[0]
	assert.Equal(t, 100, first.ID)
	assert.Equal(t, 12, first.PlanID)
	assert.Equal(t, plan.Chapter{ID: 5, Number: 1, Title: "Arrakis", EstimatedPages: 18}, first.Chapter)
	assert.Equal(t, "2024-03-01", first.AssignedDate.String())
	assert.True(t, first.IsRead)
	assert.Equal(t, time.Date(2024, time.March, 1, 20, 15, 0, 0, time.UTC), first.CompletedAt.UTC())
	assert.Equal(t, 40, *first.ActualMinutes)
	assert.Equal(t, 2, *first.PerceivedDifficulty)
	assert.Equal(t, "Slow start", *first.Notes)

	second := details.Assignments[1]
	assert.Equal(t, 6, second.Chapter.ID)
	assert.True(t, second.IsOverdue)
	assert.Nil(t, second.CompletedAt)
	assert.Nil(t, second.Notes)
	assert.Equal(t, 22, second.Pages())
}

func TestRemoteRepository_ListByUser(t *testing.T) {
	repository := newRemoteRepository(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/plan/user/u-1", request.URL.Path)
		_, _ = io.WriteString(writer, `[
			{"id_plan": 1, "titulo": "A", "progreso_porcentaje": 10},
			{"id_plan": 2, "titulo": "B", "progreso_porcentaje": "99.9"}
		]`)
	})

	plans, err := repository.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 10.0, plans[0].Progress)
	assert.InDelta(t, 99.9, plans[1].Progress, 0.001)
}

func TestRemoteRepository_Create(t *testing.T) {
	repository := newRemoteRepository(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/plan/createPlan", request.URL.Path)

		body := decodeBody(t, request)
		assert.Equal(t, "Dune", body["titulo"])
		assert.Equal(t, float64(9), body["idLibro"])
		assert.Equal(t, "2024-03-01", body["fechaInicio"])
		assert.Equal(t, "2024-03-31T23:59:59Z", body["fechaFin"])
		assert.Equal(t, false, body["incluirFinesSemana"])
		assert.Equal(t, float64(15), body["paginasPorDia"])
		assert.Nil(t, body["tiempoEstimadoDia"])

		_, _ = io.WriteString(writer, `{"plan": {"id_plan": 77, "titulo": "Dune"}}`)
	})

	created, err := repository.Create(context.Background(), plan.CreatePlanInput{
		Title:       "Dune",
		BookID:      9,
		StartDate:   plan.NewDate(2024, time.March, 1),
		EndDate:     plan.NewDate(2024, time.March, 31),
		PagesPerDay: pointer.To(15),
	})
	require.NoError(t, err)
	assert.Equal(t, 77, created.ID)
}

func TestRemoteRepository_Update(t *testing.T) {
	repository := newRemoteRepository(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPut, request.Method)
		assert.Equal(t, "/plan/5", request.URL.Path)

		body := decodeBody(t, request)
		assert.Contains(t, body, "descripcion")
		assert.Nil(t, body["descripcion"])
		assert.Equal(t, "2024-04-30T23:59:59Z", body["fechaFin"])

		_, _ = io.WriteString(writer, `{"statusCode": 200, "message": "updated", "data": {"titulo": "Renamed"}}`)
	})

	updated, err := repository.Update(context.Background(), 5, plan.UpdatePlanInput{
		Title:   "Renamed",
		EndDate: plan.NewDate(2024, time.April, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.ID)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestRemoteRepository_MarkChaptersRead(t *testing.T) {
	repository := newRemoteRepository(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/plan/12/chapters/mark-read", request.URL.Path)

		body := decodeBody(t, request)
		assert.Equal(t, []any{float64(101)}, body["detalleIds"])
		assert.Equal(t, float64(25), body["tiempoRealMinutos"])
		assert.Equal(t, float64(3), body["dificultadPercibida"])
		assert.Equal(t, "ok", body["notas"])

		_, _ = io.WriteString(writer, `{
			"mensaje": "1 capítulo marcado como leído",
			"nuevoProgreso": 60,
			"detallesActualizados": [{"id_detalle": 101, "dia": 2, "leido": true, "tiempo_real_minutos": 25, "fecha_completado": "2024-03-02T10:00:00Z"}]
		}`)
	})

	result, err := repository.MarkChaptersRead(context.Background(), 12, plan.MarkReadRequest{
		AssignmentIDs:       []int{101},
		ActualMinutes:       25,
		PerceivedDifficulty: 3,
		Notes:               "ok",
	})
	require.NoError(t, err)

	assert.Equal(t, "1 capítulo marcado como leído", result.Message)
	assert.Equal(t, 60.0, result.NewProgress)
	require.Len(t, result.UpdatedAssignments, 1)
	assert.True(t, result.UpdatedAssignments[0].IsRead)
	assert.Equal(t, 25, *result.UpdatedAssignments[0].ActualMinutes)
}

func TestRemoteRepository_Errors(t *testing.T) {
	repository := newRemoteRepository(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(writer, `{"statusCode": 404, "message": "Plan no encontrado"}`)
	})

	_, err := repository.FindByID(context.Background(), 404)
	assert.True(t, remote.IsNotFound(err))

	err = repository.Delete(context.Background(), 404)
	assert.True(t, remote.IsNotFound(err))
}
