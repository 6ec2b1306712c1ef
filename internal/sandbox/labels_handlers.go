package sandbox

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

// Labels belong to a board's project, so a label created on one board
// is visible on every board of that project.

func (s *Server) registerLabelOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLabels",
		Method:      http.MethodGet,
		Path:        "/api/labels",
		Summary:     "List labels available on a board",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, s.listLabels)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createLabel",
		Method:        http.MethodPost,
		Path:          "/api/labels",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a label",
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, s.createLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLabel",
		Method:      http.MethodPut,
		Path:        "/api/labels/{id}",
		Summary:     "Update a label",
		Errors:      []int{http.StatusNotFound},
	}, s.updateLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLabel",
		Method:      http.MethodDelete,
		Path:        "/api/labels/{id}",
		Summary:     "Delete a label",
		Errors:      []int{http.StatusNotFound},
	}, s.deleteLabel)
}

type listLabelsInput struct {
	BoardID string `query:"board_id"`
}

type labelsOutput struct {
	Body struct {
		Labels []model.Label `json:"labels"`
	}
}

func (s *Server) listLabels(_ context.Context, input *listLabelsInput) (*labelsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if input.BoardID == "" {
		return nil, errBadRequest("board_id is required")
	}
	board, ok := s.data.boards[input.BoardID]
	if !ok {
		return nil, errNotFound("Board not found")
	}

	var ids []string
	for id, label := range s.data.labels {
		if label.ProjectID == board.ProjectID {
			ids = append(ids, id)
		}
	}
	s.data.sortByCreation(ids)

	out := &labelsOutput{}
	out.Body.Labels = make([]model.Label, 0, len(ids))
	for _, id := range ids {
		out.Body.Labels = append(out.Body.Labels, *s.data.labels[id])
	}
	return out, nil
}

type createLabelInput struct {
	Body struct {
		BoardID string `json:"board_id,omitempty"`
		Name    string `json:"name,omitempty"`
		Color   string `json:"color,omitempty"`
	}
}

type labelOutput struct {
	Body struct {
		Label model.Label `json:"label"`
	}
}

func (s *Server) createLabel(_ context.Context, input *createLabelInput) (*labelOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if input.Body.BoardID == "" {
		return nil, errBadRequest("board_id is required")
	}
	board, ok := s.data.boards[input.Body.BoardID]
	if !ok {
		return nil, errNotFound("Board not found")
	}
	if input.Body.Name == "" {
		return nil, errBadRequest("name is required")
	}

	color := input.Body.Color
	if color == "" {
		color = "#6B7280"
	}

	label := &model.Label{
		ID:        s.data.newID(),
		ProjectID: board.ProjectID,
		Name:      input.Body.Name,
		Color:     color,
	}
	s.data.labels[label.ID] = label

	out := &labelOutput{}
	out.Body.Label = *label
	return out, nil
}

type updateLabelInput struct {
	ID   string `path:"id"`
	Body struct {
		Name  *string `json:"name,omitempty"`
		Color *string `json:"color,omitempty"`
	}
}

func (s *Server) updateLabel(_ context.Context, input *updateLabelInput) (*labelOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	label, ok := s.data.labels[input.ID]
	if !ok {
		return nil, errNotFound("Label not found")
	}

	if input.Body.Name != nil {
		label.Name = *input.Body.Name
	}
	if input.Body.Color != nil {
		label.Color = *input.Body.Color
	}

	out := &labelOutput{}
	out.Body.Label = *label
	return out, nil
}

type labelPathInput struct {
	ID string `path:"id"`
}

func (s *Server) deleteLabel(_ context.Context, input *labelPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.labels[input.ID]; !ok {
		return nil, errNotFound("Label not found")
	}

	s.data.deleteLabelCascade(input.ID)
	return messageResponse("Label deleted"), nil
}
