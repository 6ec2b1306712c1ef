package sandbox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

func (s *Server) registerTemplateOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTemplates",
		Method:      http.MethodGet,
		Path:        "/api/templates",
		Summary:     "List board templates",
	}, s.listTemplates)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTemplate",
		Method:      http.MethodGet,
		Path:        "/api/templates/{id}",
		Summary:     "Get a template with its column layout",
		Errors:      []int{http.StatusNotFound},
	}, s.getTemplate)

	huma.Register(s.api, huma.Operation{
		OperationID:   "applyTemplate",
		Method:        http.MethodPost,
		Path:          "/api/templates/{id}/apply",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a board from a template",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.applyTemplate)
}

type templatesOutput struct {
	Body struct {
		Templates []model.BoardTemplate `json:"templates"`
	}
}

func (s *Server) listTemplates(_ context.Context, _ *struct{}) (*templatesOutput, error) {
	out := &templatesOutput{}
	out.Body.Templates = make([]model.BoardTemplate, 0, len(boardTemplates))
	for _, tpl := range boardTemplates {
		preview := make([]string, 0, len(tpl.Columns))
		for _, col := range tpl.Columns {
			preview = append(preview, col.Name)
		}
		out.Body.Templates = append(out.Body.Templates, model.BoardTemplate{
			ID:             tpl.ID,
			Name:           tpl.Name,
			Description:    tpl.Description,
			Icon:           tpl.Icon,
			ColumnCount:    len(tpl.Columns),
			ColumnsPreview: preview,
		})
	}
	return out, nil
}

type templatePathInput struct {
	ID string `path:"id"`
}

type templateOutput struct {
	Body struct {
		Template model.BoardTemplate `json:"template"`
	}
}

func (s *Server) getTemplate(_ context.Context, input *templatePathInput) (*templateOutput, error) {
	tpl := findTemplate(input.ID)
	if tpl == nil {
		return nil, errNotFound("Template not found")
	}
	out := &templateOutput{}
	out.Body.Template = *tpl
	return out, nil
}

type applyTemplateInput struct {
	ID   string `path:"id"`
	Body struct {
		ProjectID string `json:"project_id,omitempty"`
		Name      string `json:"name,omitempty"`
	}
}

type applyTemplateOutput struct {
	Body struct {
		Board   model.Board `json:"board"`
		Message string      `json:"message"`
	}
}

func (s *Server) applyTemplate(ctx context.Context, input *applyTemplateInput) (*applyTemplateOutput, error) {
	tpl := findTemplate(input.ID)
	if tpl == nil {
		return nil, errNotFound("Template not found")
	}
	if input.Body.ProjectID == "" {
		return nil, errBadRequest("project_id is required")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.projectMembership(input.Body.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	name := input.Body.Name
	if name == "" {
		name = tpl.Name
	}
	board := s.data.newBoard(input.Body.ProjectID, name, tpl.Columns)

	out := &applyTemplateOutput{}
	out.Body.Board = s.data.renderBoard(board, true, false)
	out.Body.Message = fmt.Sprintf("Board created from template '%s'", tpl.Name)
	return out, nil
}
