package sandbox

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/oapi-codegen/runtime/types"

	"github.com/flowboardhq/flowboard/internal/model"
)

func (s *Server) registerSprintOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSprints",
		Method:      http.MethodGet,
		Path:        "/api/sprints",
		Summary:     "List sprints in a project",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.listSprints)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createSprint",
		Method:        http.MethodPost,
		Path:          "/api/sprints",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a sprint in planning state",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.createSprint)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSprint",
		Method:      http.MethodGet,
		Path:        "/api/sprints/{id}",
		Summary:     "Get a sprint with its cards",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.getSprint)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSprint",
		Method:      http.MethodPut,
		Path:        "/api/sprints/{id}",
		Summary:     "Update a sprint",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.updateSprint)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSprint",
		Method:      http.MethodDelete,
		Path:        "/api/sprints/{id}",
		Summary:     "Delete a sprint",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.deleteSprint)

	huma.Register(s.api, huma.Operation{
		OperationID: "startSprint",
		Method:      http.MethodPost,
		Path:        "/api/sprints/{id}/start",
		Summary:     "Start a sprint",
		Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusForbidden, http.StatusNotFound},
	}, s.startSprint)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeSprint",
		Method:      http.MethodPost,
		Path:        "/api/sprints/{id}/complete",
		Summary:     "Complete a sprint",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.completeSprint)

	huma.Register(s.api, huma.Operation{
		OperationID: "addSprintCard",
		Method:      http.MethodPost,
		Path:        "/api/sprints/{id}/cards",
		Summary:     "Add a card to a sprint",
		Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusForbidden, http.StatusNotFound},
	}, s.addSprintCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeSprintCard",
		Method:      http.MethodDelete,
		Path:        "/api/sprints/{id}/cards/{cardId}",
		Summary:     "Remove a card from a sprint",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.removeSprintCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "sprintMetrics",
		Method:      http.MethodGet,
		Path:        "/api/sprints/{id}/metrics",
		Summary:     "Get completion metrics for a sprint",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.sprintMetrics)
}

type listSprintsInput struct {
	ProjectID string `query:"project_id"`
	Status    string `query:"status"`
}

type sprintsOutput struct {
	Body struct {
		Sprints []model.Sprint `json:"sprints"`
	}
}

func (s *Server) listSprints(ctx context.Context, input *listSprintsInput) (*sprintsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if input.ProjectID == "" {
		return nil, errBadRequest("project_id required")
	}
	if s.data.projectMembership(input.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	status := model.SprintStatus(input.Status)
	if input.Status != "" {
		switch status {
		case model.SprintPlanning, model.SprintActive, model.SprintCompleted:
		default:
			return nil, errBadRequest("Invalid status")
		}
	}

	var ids []string
	for id, sprint := range s.data.sprints {
		if sprint.ProjectID != input.ProjectID {
			continue
		}
		if input.Status != "" && sprint.Status != status {
			continue
		}
		ids = append(ids, id)
	}
	// Newest sprint first, creation order breaking date ties.
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.data.sprints[ids[i]], s.data.sprints[ids[j]]
		if !a.StartDate.Time.Equal(b.StartDate.Time) {
			return a.StartDate.Time.After(b.StartDate.Time)
		}
		return s.data.created[ids[i]] < s.data.created[ids[j]]
	})

	out := &sprintsOutput{}
	out.Body.Sprints = make([]model.Sprint, 0, len(ids))
	for _, id := range ids {
		out.Body.Sprints = append(out.Body.Sprints, s.data.renderSprint(s.data.sprints[id], false))
	}
	return out, nil
}

type createSprintInput struct {
	Body struct {
		ProjectID string      `json:"project_id,omitempty"`
		Name      string      `json:"name,omitempty"`
		Goal      string      `json:"goal,omitempty"`
		StartDate *types.Date `json:"start_date,omitempty"`
		EndDate   *types.Date `json:"end_date,omitempty"`
	}
}

type sprintOutput struct {
	Body struct {
		Sprint model.Sprint `json:"sprint"`
	}
}

func (s *Server) createSprint(ctx context.Context, input *createSprintInput) (*sprintOutput, error) {
	name := strings.TrimSpace(input.Body.Name)
	if input.Body.ProjectID == "" || name == "" || input.Body.StartDate == nil || input.Body.EndDate == nil {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.projectMembership(input.Body.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if !input.Body.EndDate.Time.After(input.Body.StartDate.Time) {
		return nil, errBadRequest("End date must be after start date")
	}

	sprint := &model.Sprint{
		ID:        s.data.newID(),
		ProjectID: input.Body.ProjectID,
		Name:      name,
		Goal:      input.Body.Goal,
		StartDate: *input.Body.StartDate,
		EndDate:   *input.Body.EndDate,
		Status:    model.SprintPlanning,
		CreatedAt: time.Now().UTC(),
	}
	s.data.sprints[sprint.ID] = sprint

	out := &sprintOutput{}
	out.Body.Sprint = *sprint
	return out, nil
}

type sprintPathInput struct {
	ID string `path:"id"`
}

func (s *Server) getSprint(ctx context.Context, input *sprintPathInput) (*sprintOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sprint, ok := s.data.sprints[input.ID]
	if !ok {
		return nil, errNotFound("Sprint not found")
	}
	if s.data.projectMembership(sprint.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	out := &sprintOutput{}
	out.Body.Sprint = s.data.renderSprint(sprint, true)
	return out, nil
}

type updateSprintInput struct {
	ID   string `path:"id"`
	Body struct {
		Name      *string     `json:"name,omitempty"`
		Goal      *string     `json:"goal,omitempty"`
		StartDate *types.Date `json:"start_date,omitempty"`
		EndDate   *types.Date `json:"end_date,omitempty"`
		Status    *string     `json:"status,omitempty"`
	}
}

func (s *Server) updateSprint(ctx context.Context, input *updateSprintInput) (*sprintOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sprint, ok := s.data.sprints[input.ID]
	if !ok {
		return nil, errNotFound("Sprint not found")
	}
	if s.data.projectMembership(sprint.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	if input.Body.Status != nil {
		switch model.SprintStatus(*input.Body.Status) {
		case model.SprintPlanning, model.SprintActive, model.SprintCompleted:
		default:
			return nil, errValidation()
		}
	}

	if input.Body.Name != nil && strings.TrimSpace(*input.Body.Name) != "" {
		sprint.Name = strings.TrimSpace(*input.Body.Name)
	}
	if input.Body.Goal != nil {
		sprint.Goal = *input.Body.Goal
	}
	if input.Body.StartDate != nil {
		sprint.StartDate = *input.Body.StartDate
	}
	if input.Body.EndDate != nil {
		sprint.EndDate = *input.Body.EndDate
	}
	if input.Body.Status != nil {
		sprint.Status = model.SprintStatus(*input.Body.Status)
	}

	out := &sprintOutput{}
	out.Body.Sprint = *sprint
	return out, nil
}

func (s *Server) deleteSprint(ctx context.Context, input *sprintPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sprint, ok := s.data.sprints[input.ID]
	if !ok {
		return nil, errNotFound("Sprint not found")
	}
	if s.data.projectMembership(sprint.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	delete(s.data.sprintCards, input.ID)
	delete(s.data.sprints, input.ID)
	return messageResponse("Sprint deleted"), nil
}

func (s *Server) startSprint(ctx context.Context, input *sprintPathInput) (*sprintOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sprint, ok := s.data.sprints[input.ID]
	if !ok {
		return nil, errNotFound("Sprint not found")
	}
	userID := userIDFrom(ctx)
	if s.data.projectMembership(sprint.ProjectID, userID) == nil {
		return nil, errForbidden()
	}
	if sprint.Status != model.SprintPlanning {
		return nil, errBadRequest("Can only start sprints in planning status")
	}
	for _, other := range s.data.sprints {
		if other.ProjectID == sprint.ProjectID && other.Status == model.SprintActive {
			return nil, errConflict("Another sprint is already active")
		}
	}

	sprint.Status = model.SprintActive
	s.data.notifySprintStarted(sprint, userID)

	out := &sprintOutput{}
	out.Body.Sprint = *sprint
	return out, nil
}

func (s *Server) completeSprint(ctx context.Context, input *sprintPathInput) (*sprintOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sprint, ok := s.data.sprints[input.ID]
	if !ok {
		return nil, errNotFound("Sprint not found")
	}
	userID := userIDFrom(ctx)
	if s.data.projectMembership(sprint.ProjectID, userID) == nil {
		return nil, errForbidden()
	}
	if sprint.Status != model.SprintActive {
		return nil, errBadRequest("Can only complete active sprints")
	}

	sprint.Status = model.SprintCompleted
	s.data.notifySprintCompleted(sprint, userID)

	out := &sprintOutput{}
	out.Body.Sprint = *sprint
	return out, nil
}

type addSprintCardInput struct {
	ID   string `path:"id"`
	Body struct {
		CardID string `json:"card_id,omitempty"`
	}
}

func (s *Server) addSprintCard(ctx context.Context, input *addSprintCardInput) (*sprintOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sprint, ok := s.data.sprints[input.ID]
	if !ok {
		return nil, errNotFound("Sprint not found")
	}
	if s.data.projectMembership(sprint.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if input.Body.CardID == "" {
		return nil, errBadRequest("card_id required")
	}
	if _, ok := s.data.cards[input.Body.CardID]; !ok {
		return nil, errNotFound("Card not found")
	}
	if containsString(s.data.sprintCards[sprint.ID], input.Body.CardID) {
		return nil, errConflict("Card already in sprint")
	}

	s.data.sprintCards[sprint.ID] = append(s.data.sprintCards[sprint.ID], input.Body.CardID)

	out := &sprintOutput{}
	out.Body.Sprint = s.data.renderSprint(sprint, true)
	return out, nil
}

type removeSprintCardInput struct {
	ID     string `path:"id"`
	CardID string `path:"cardId"`
}

func (s *Server) removeSprintCard(ctx context.Context, input *removeSprintCardInput) (*sprintOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sprint, ok := s.data.sprints[input.ID]
	if !ok {
		return nil, errNotFound("Sprint not found")
	}
	if s.data.projectMembership(sprint.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if !containsString(s.data.sprintCards[sprint.ID], input.CardID) {
		return nil, errNotFound("Card not in sprint")
	}

	s.data.sprintCards[sprint.ID] = removeString(s.data.sprintCards[sprint.ID], input.CardID)

	out := &sprintOutput{}
	out.Body.Sprint = s.data.renderSprint(sprint, true)
	return out, nil
}

type sprintMetricsOutput struct {
	Body struct {
		Metrics model.SprintMetrics `json:"metrics"`
	}
}

// sprintMetrics counts a card as completed when it sits in a column
// named "done", case insensitive.
func (s *Server) sprintMetrics(ctx context.Context, input *sprintPathInput) (*sprintMetricsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sprint, ok := s.data.sprints[input.ID]
	if !ok {
		return nil, errNotFound("Sprint not found")
	}
	if s.data.projectMembership(sprint.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	var metrics model.SprintMetrics
	for _, cardID := range s.data.sprintCards[sprint.ID] {
		rec, ok := s.data.cards[cardID]
		if !ok {
			continue
		}
		metrics.TotalCards++
		metrics.TotalStoryPoints += rec.card.StoryPoints
		if col, ok := s.data.columns[rec.card.ColumnID]; ok && strings.EqualFold(col.Name, "done") {
			metrics.CompletedCards++
			metrics.CompletedStoryPoints += rec.card.StoryPoints
		}
	}
	if metrics.TotalStoryPoints > 0 {
		pct := float64(metrics.CompletedStoryPoints) / float64(metrics.TotalStoryPoints) * 100
		metrics.CompletionPercentage = math.Round(pct*10) / 10
	}
	if sprint.Status == model.SprintActive {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		metrics.DaysRemaining = int(sprint.EndDate.Time.Sub(today).Hours() / 24)
	}

	out := &sprintMetricsOutput{}
	out.Body.Metrics = metrics
	return out, nil
}
