package sandbox

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

func (s *Server) registerColumnOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createColumn",
		Method:        http.MethodPost,
		Path:          "/api/columns",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a column at the end of a board",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.createColumn)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderColumns",
		Method:      http.MethodPut,
		Path:        "/api/columns/reorder",
		Summary:     "Reorder a board's columns",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.reorderColumns)

	huma.Register(s.api, huma.Operation{
		OperationID: "getColumn",
		Method:      http.MethodGet,
		Path:        "/api/columns/{id}",
		Summary:     "Get a column with its cards",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.getColumn)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateColumn",
		Method:      http.MethodPut,
		Path:        "/api/columns/{id}",
		Summary:     "Update a column",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.updateColumn)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteColumn",
		Method:      http.MethodDelete,
		Path:        "/api/columns/{id}",
		Summary:     "Delete an empty column",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.deleteColumn)
}

type createColumnInput struct {
	Body struct {
		BoardID  string `json:"board_id,omitempty"`
		Name     string `json:"name,omitempty"`
		WipLimit *int   `json:"wip_limit,omitempty"`
		Color    string `json:"color,omitempty"`
	}
}

type columnOutput struct {
	Body struct {
		Column model.Column `json:"column"`
	}
}

func (s *Server) createColumn(ctx context.Context, input *createColumnInput) (*columnOutput, error) {
	name := strings.TrimSpace(input.Body.Name)
	if input.Body.BoardID == "" || name == "" {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.boardMembership(input.Body.BoardID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	col := &model.Column{
		ID:       s.data.newID(),
		BoardID:  input.Body.BoardID,
		Name:     name,
		Position: s.data.nextColumnPosition(input.Body.BoardID),
		Color:    input.Body.Color,
	}
	if input.Body.WipLimit != nil {
		col.WipLimit = *input.Body.WipLimit
	}
	s.data.columns[col.ID] = col

	out := &columnOutput{}
	out.Body.Column = s.data.renderColumn(col, false)
	return out, nil
}

type columnPathInput struct {
	ID string `path:"id"`
}

func (s *Server) getColumn(ctx context.Context, input *columnPathInput) (*columnOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	col, ok := s.data.columns[input.ID]
	if !ok {
		return nil, errNotFound("Column not found")
	}
	if s.data.boardMembership(col.BoardID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	out := &columnOutput{}
	out.Body.Column = s.data.renderColumn(col, true)
	return out, nil
}

type updateColumnInput struct {
	ID   string `path:"id"`
	Body struct {
		Name     *string `json:"name,omitempty"`
		WipLimit *int    `json:"wip_limit,omitempty"`
		Color    *string `json:"color,omitempty"`
	}
}

func (s *Server) updateColumn(ctx context.Context, input *updateColumnInput) (*columnOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	col, ok := s.data.columns[input.ID]
	if !ok {
		return nil, errNotFound("Column not found")
	}
	if s.data.boardMembership(col.BoardID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	if input.Body.Name != nil && strings.TrimSpace(*input.Body.Name) != "" {
		col.Name = strings.TrimSpace(*input.Body.Name)
	}
	if input.Body.WipLimit != nil {
		col.WipLimit = *input.Body.WipLimit
	}
	if input.Body.Color != nil {
		col.Color = *input.Body.Color
	}

	out := &columnOutput{}
	out.Body.Column = s.data.renderColumn(col, false)
	return out, nil
}

func (s *Server) deleteColumn(ctx context.Context, input *columnPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	col, ok := s.data.columns[input.ID]
	if !ok {
		return nil, errNotFound("Column not found")
	}
	if s.data.boardMembership(col.BoardID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if len(s.data.columnCards(col.ID)) > 0 {
		return nil, errBadRequest("Cannot delete column with cards")
	}

	delete(s.data.columns, col.ID)
	return messageResponse("Column deleted"), nil
}

type reorderColumnsInput struct {
	Body struct {
		ColumnIDs []string `json:"column_ids,omitempty"`
	}
}

type columnsOutput struct {
	Body struct {
		Columns []model.Column `json:"columns"`
	}
}

// reorderColumns assigns positions from the given left-to-right order.
// Ids from other boards are skipped; the response always carries the
// whole board, so clients converge even after a partial request.
func (s *Server) reorderColumns(ctx context.Context, input *reorderColumnsInput) (*columnsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if len(input.Body.ColumnIDs) == 0 {
		return nil, errBadRequest("No columns provided")
	}

	first, ok := s.data.columns[input.Body.ColumnIDs[0]]
	if !ok {
		return nil, errNotFound("Column not found")
	}
	if s.data.boardMembership(first.BoardID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	for position, id := range input.Body.ColumnIDs {
		if col, ok := s.data.columns[id]; ok && col.BoardID == first.BoardID {
			col.Position = position
		}
	}

	cols := s.data.boardColumns(first.BoardID)
	out := &columnsOutput{}
	out.Body.Columns = make([]model.Column, 0, len(cols))
	for _, col := range cols {
		out.Body.Columns = append(out.Body.Columns, s.data.renderColumn(col, false))
	}
	return out, nil
}
