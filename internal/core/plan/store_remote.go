// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/trackbook/internal/platform/remote"
	"github.com/taibuivan/trackbook/pkg/pointer"
	"github.com/taibuivan/trackbook/pkg/slice"
)

// # Repository Implementation

// remoteRepository implements [Repository] over the backend's /plan endpoints.
type remoteRepository struct {
	client *remote.Client
}

// NewRemoteRepository creates a [Repository] backed by the reading-plan API.
func NewRemoteRepository(client *remote.Client) Repository {
	return &remoteRepository{client: client}
}

// ListByUser implements [Repository].
func (repository *remoteRepository) ListByUser(ctx context.Context, userID string) ([]Plan, error) {
	var plans []planDTO
	if err := repository.client.Get(ctx, "/plan/user/"+url.PathEscape(userID), &plans); err != nil {
		return nil, fmt.Errorf("plan: list for user %s: %w", userID, err)
	}

	return slice.Map(plans, planDTO.toDomain), nil
}

// FindByID implements [Repository].
func (repository *remoteRepository) FindByID(ctx context.Context, planID int) (*PlanWithDetails, error) {
	var dto planDetailsDTO
	if err := repository.client.Get(ctx, planPath(planID), &dto); err != nil {
		return nil, fmt.Errorf("plan: find %d: %w", planID, err)
	}

	plan := dto.toDomain()
	return &plan, nil
}

// Create implements [Repository].
func (repository *remoteRepository) Create(ctx context.Context, input CreatePlanInput) (*Plan, error) {
	request := createPlanDTO{
		Title:           input.Title,
		Description:     input.Description,
		BookID:          input.BookID,
		StartDate:       input.StartDate.String(),
		EndDate:         input.EndDate.EndOfDay(),
		IncludeWeekends: input.IncludeWeekends,
		PagesPerDay:     input.PagesPerDay,
		MinutesPerDay:   input.MinutesPerDay,
	}

	var response createPlanResponseDTO
	if err := repository.client.Post(ctx, "/plan/createPlan", request, &response); err != nil {
		return nil, fmt.Errorf("plan: create: %w", err)
	}

	plan := response.Plan.toDomain()
	return &plan, nil
}

// Update implements [Repository].
func (repository *remoteRepository) Update(ctx context.Context, planID int, input UpdatePlanInput) (*Plan, error) {
	request := updatePlanDTO{
		Title:           input.Title,
		Description:     input.Description,
		EndDate:         input.EndDate.EndOfDay(),
		IncludeWeekends: input.IncludeWeekends,
		PagesPerDay:     input.PagesPerDay,
		MinutesPerDay:   input.MinutesPerDay,
	}

	var response planDTO
	if err := repository.client.Put(ctx, planPath(planID), request, &response); err != nil {
		return nil, fmt.Errorf("plan: update %d: %w", planID, err)
	}

	plan := response.toDomain()
	if plan.ID == 0 {
		plan.ID = planID
	}
	return &plan, nil
}

// Delete implements [Repository].
func (repository *remoteRepository) Delete(ctx context.Context, planID int) error {
	if err := repository.client.Delete(ctx, planPath(planID), nil); err != nil {
		return fmt.Errorf("plan: delete %d: %w", planID, err)
	}
	return nil
}

// MarkChaptersRead implements [Repository].
func (repository *remoteRepository) MarkChaptersRead(ctx context.Context, planID int, request MarkReadRequest) (*MarkReadResult, error) {
	body := markReadDTO{
		AssignmentIDs:       request.AssignmentIDs,
		ActualMinutes:       request.ActualMinutes,
		PerceivedDifficulty: request.PerceivedDifficulty,
		Notes:               request.Notes,
	}

	var response markReadResponseDTO
	if err := repository.client.Post(ctx, planPath(planID)+"/chapters/mark-read", body, &response); err != nil {
		return nil, fmt.Errorf("plan: mark read on %d: %w", planID, err)
	}

	return &MarkReadResult{
		Message:            response.Message,
		NewProgress:        float64(response.NewProgress),
		UpdatedAssignments: slice.Map(response.Updated, assignmentDTO.toDomain),
	}, nil
}

func planPath(planID int) string {
	return "/plan/" + strconv.Itoa(planID)
}

// # Wire Format

// planDTO is a plan as the backend serializes it.
type planDTO struct {
	ID              int        `json:"id_plan"`
	UserID          wireID     `json:"id_usuario"`
	Title           string     `json:"titulo"`
	Description     *string    `json:"descripcion"`
	StartDate       Date       `json:"fecha_inicio"`
	EndDate         Date       `json:"fecha_fin"`
	IncludeWeekends bool       `json:"incluir_fines_semana"`
	PagesPerDay     *int       `json:"paginas_por_dia"`
	MinutesPerDay   *int       `json:"tiempo_estimado_dia"`
	Status          string     `json:"estado"`
	Progress        wireNumber `json:"progreso_porcentaje"`
	Book            *bookDTO   `json:"libro"`
}

type bookDTO struct {
	Title    string `json:"titulo"`
	CoverURL string `json:"portada_url"`
}

func (dto planDTO) toDomain() Plan {
	plan := Plan{
		ID:              dto.ID,
		UserID:          string(dto.UserID),
		Title:           dto.Title,
		Description:     pointer.Val(dto.Description),
		StartDate:       dto.StartDate,
		EndDate:         dto.EndDate,
		IncludeWeekends: dto.IncludeWeekends,
		PagesPerDay:     pointer.Val(dto.PagesPerDay),
		MinutesPerDay:   pointer.Val(dto.MinutesPerDay),
		Status:          dto.Status,
		Progress:        float64(dto.Progress),
	}
	if dto.Book != nil {
		plan.BookTitle = dto.Book.Title
		plan.CoverURL = dto.Book.CoverURL
	}
	return plan
}

// planDetailsDTO is a plan with its assignments (GET /plan/{id}).
type planDetailsDTO struct {
	planDTO
	Details []assignmentDTO `json:"detalleplanlectura"`
}

func (dto planDetailsDTO) toDomain() PlanWithDetails {
	assignments := slice.Map(dto.Details, assignmentDTO.toDomain)
	if assignments == nil {
		assignments = []ReadingAssignment{}
	}
	for i := range assignments {
		if assignments[i].PlanID == 0 {
			assignments[i].PlanID = dto.ID
		}
	}
	return PlanWithDetails{Plan: dto.planDTO.toDomain(), Assignments: assignments}
}

// assignmentDTO is one row of detalleplanlectura.
type assignmentDTO struct {
	ID               int         `json:"id_detalle"`
	PlanID           int         `json:"id_plan"`
	ChapterID        int         `json:"id_capitulo"`
	Chapter          *chapterDTO `json:"capitulo"`
	AssignedDate     Date        `json:"fecha_asignada"`
	Day              int         `json:"dia"`
	IsRead           bool        `json:"leido"`
	IsOverdue        bool        `json:"es_atrasado"`
	StartPage        int         `json:"pagina_inicio"`
	EndPage          int         `json:"pagina_fin"`
	EstimatedMinutes int         `json:"tiempo_estimado_minutos"`
	CompletedAt      wireTime    `json:"fecha_completado"`
	ActualMinutes    *int        `json:"tiempo_real_minutos"`
	Difficulty       *int        `json:"dificultad_percibida"`
	Notes            *string     `json:"notas"`
}

type chapterDTO struct {
	ID             int    `json:"id_capitulo"`
	Number         int    `json:"numero_capitulo"`
	Title          string `json:"titulo"`
	EstimatedPages int    `json:"paginas_estimadas"`
}

func (dto assignmentDTO) toDomain() ReadingAssignment {
	assignment := ReadingAssignment{
		ID:                  dto.ID,
		PlanID:              dto.PlanID,
		Chapter:             Chapter{ID: dto.ChapterID},
		AssignedDate:        dto.AssignedDate,
		Day:                 dto.Day,
		IsRead:              dto.IsRead,
		IsOverdue:           dto.IsOverdue,
		StartPage:           dto.StartPage,
		EndPage:             dto.EndPage,
		EstimatedMinutes:    dto.EstimatedMinutes,
		CompletedAt:         dto.CompletedAt.value,
		ActualMinutes:       dto.ActualMinutes,
		PerceivedDifficulty: dto.Difficulty,
		Notes:               dto.Notes,
	}
	if dto.Chapter != nil {
		assignment.Chapter = Chapter{
			ID:             max(dto.Chapter.ID, dto.ChapterID),
			Number:         dto.Chapter.Number,
			Title:          dto.Chapter.Title,
			EstimatedPages: dto.Chapter.EstimatedPages,
		}
	}
	return assignment
}

type createPlanDTO struct {
	Title           string `json:"titulo"`
	Description     string `json:"descripcion,omitempty"`
	BookID          int    `json:"idLibro"`
	StartDate       string `json:"fechaInicio"`
	EndDate         string `json:"fechaFin"`
	IncludeWeekends bool   `json:"incluirFinesSemana"`
	PagesPerDay     *int   `json:"paginasPorDia"`
	MinutesPerDay   *int   `json:"tiempoEstimadoDia"`
}

type createPlanResponseDTO struct {
	Plan planDTO `json:"plan"`
}

type updatePlanDTO struct {
	Title           string  `json:"titulo"`
	Description     *string `json:"descripcion"`
	EndDate         string  `json:"fechaFin"`
	IncludeWeekends bool    `json:"incluirFinesSemana"`
	PagesPerDay     *int    `json:"paginasPorDia"`
	MinutesPerDay   *int    `json:"tiempoEstimadoDia"`
}

type markReadDTO struct {
	AssignmentIDs       []int  `json:"detalleIds"`
	ActualMinutes       int    `json:"tiempoRealMinutos"`
	PerceivedDifficulty int    `json:"dificultadPercibida"`
	Notes               string `json:"notas"`
}

type markReadResponseDTO struct {
	Message     string          `json:"mensaje"`
	NewProgress wireNumber      `json:"nuevoProgreso"`
	Updated     []assignmentDTO `json:"detallesActualizados"`
}

// # Lenient Scalars

// wireNumber accepts a JSON number or a numeric string; decimal columns often
// arrive as "42.50".
type wireNumber float64

func (number *wireNumber) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if text == "" || text == "null" {
		*number = 0
		return nil
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("plan: invalid number %s", data)
	}

	*number = wireNumber(value)
	return nil
}

// wireID accepts a numeric or string identifier and keeps it as text.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if text == "null" {
		text = ""
	}
	*id = wireID(text)
	return nil
}

// wireTime accepts null, RFC 3339 timestamps and bare dates.
type wireTime struct {
	value *time.Time
}

func (stamp *wireTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		stamp.value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("plan: timestamp must be a string: %w", err)
	}

	if raw == "" {
		stamp.value = nil
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		stamp.value = &parsed
		return nil
	}

	date, err := ParseDate(raw)
	if err != nil {
		return err
	}

	stamp.value = &date.Time
	return nil
}
