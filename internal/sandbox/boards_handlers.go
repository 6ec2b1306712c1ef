package sandbox

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

// defaultColumns is the layout every new board starts with.
var defaultColumns = []model.TemplateColumn{
	{Name: "Backlog", Position: 0, Color: "#6B7280"},
	{Name: "To Do", Position: 1, Color: "#3B82F6"},
	{Name: "In Progress", Position: 2, Color: "#F59E0B", WipLimit: 3},
	{Name: "Review", Position: 3, Color: "#8B5CF6", WipLimit: 2},
	{Name: "Done", Position: 4, Color: "#10B981"},
}

func (s *Server) registerBoardOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBoards",
		Method:      http.MethodGet,
		Path:        "/api/boards",
		Summary:     "List boards in a project",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.listBoards)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBoard",
		Method:        http.MethodPost,
		Path:          "/api/boards",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a board with default columns",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.createBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBoard",
		Method:      http.MethodGet,
		Path:        "/api/boards/{id}",
		Summary:     "Get a board with columns and cards",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.getBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBoard",
		Method:      http.MethodPut,
		Path:        "/api/boards/{id}",
		Summary:     "Update a board",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.updateBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBoard",
		Method:      http.MethodDelete,
		Path:        "/api/boards/{id}",
		Summary:     "Delete a board",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.deleteBoard)
}

type listBoardsInput struct {
	ProjectID string `query:"project_id"`
}

type boardsOutput struct {
	Body struct {
		Boards []model.Board `json:"boards"`
	}
}

func (s *Server) listBoards(ctx context.Context, input *listBoardsInput) (*boardsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if input.ProjectID == "" {
		return nil, errBadRequest("project_id required")
	}
	if s.data.projectMembership(input.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	var ids []string
	for id, board := range s.data.boards {
		if board.ProjectID == input.ProjectID {
			ids = append(ids, id)
		}
	}
	s.data.sortByCreation(ids)

	out := &boardsOutput{}
	out.Body.Boards = make([]model.Board, 0, len(ids))
	for _, id := range ids {
		out.Body.Boards = append(out.Body.Boards, *s.data.boards[id])
	}
	return out, nil
}

type createBoardInput struct {
	Body struct {
		ProjectID string `json:"project_id,omitempty"`
		Name      string `json:"name,omitempty"`
	}
}

type boardOutput struct {
	Body struct {
		Board model.Board `json:"board"`
	}
}

func (s *Server) createBoard(ctx context.Context, input *createBoardInput) (*boardOutput, error) {
	name := strings.TrimSpace(input.Body.Name)
	if input.Body.ProjectID == "" || name == "" {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.projectMembership(input.Body.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	board := s.data.newBoard(input.Body.ProjectID, name, defaultColumns)

	out := &boardOutput{}
	out.Body.Board = s.data.renderBoard(board, true, false)
	return out, nil
}

type boardPathInput struct {
	ID string `path:"id"`
}

func (s *Server) getBoard(ctx context.Context, input *boardPathInput) (*boardOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	board, ok := s.data.boards[input.ID]
	if !ok {
		return nil, errNotFound("Board not found")
	}
	if s.data.boardMembership(board.ID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	out := &boardOutput{}
	out.Body.Board = s.data.renderBoard(board, true, true)
	out.Body.Board.OrganizationID = s.data.boardOrganization(board)
	return out, nil
}

type updateBoardInput struct {
	ID   string `path:"id"`
	Body struct {
		Name string `json:"name,omitempty"`
	}
}

func (s *Server) updateBoard(ctx context.Context, input *updateBoardInput) (*boardOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	board, ok := s.data.boards[input.ID]
	if !ok {
		return nil, errNotFound("Board not found")
	}
	if s.data.boardMembership(board.ID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	if name := strings.TrimSpace(input.Body.Name); name != "" {
		board.Name = name
	}

	out := &boardOutput{}
	out.Body.Board = *board
	return out, nil
}

func (s *Server) deleteBoard(ctx context.Context, input *boardPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	board, ok := s.data.boards[input.ID]
	if !ok {
		return nil, errNotFound("Board not found")
	}
	member := s.data.boardMembership(board.ID, userIDFrom(ctx))
	if member == nil || member.Role != roleAdmin {
		return nil, errForbidden()
	}

	s.data.deleteBoardCascade(input.ID)
	return messageResponse("Board deleted"), nil
}
