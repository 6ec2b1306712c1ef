package sandbox

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

func (s *Server) registerProjectOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProjects",
		Method:      http.MethodGet,
		Path:        "/api/projects",
		Summary:     "List projects in a workspace",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.listProjects)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createProject",
		Method:        http.MethodPost,
		Path:          "/api/projects",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a project",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.createProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProject",
		Method:      http.MethodGet,
		Path:        "/api/projects/{id}",
		Summary:     "Get a project",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.getProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProject",
		Method:      http.MethodPut,
		Path:        "/api/projects/{id}",
		Summary:     "Update a project",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.updateProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProject",
		Method:      http.MethodDelete,
		Path:        "/api/projects/{id}",
		Summary:     "Delete a project",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.deleteProject)
}

type listProjectsInput struct {
	WorkspaceID string `query:"workspace_id"`
}

type projectsOutput struct {
	Body struct {
		Projects []model.Project `json:"projects"`
	}
}

func (s *Server) listProjects(ctx context.Context, input *listProjectsInput) (*projectsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if input.WorkspaceID == "" {
		return nil, errBadRequest("workspace_id required")
	}
	if s.data.workspaceMembership(input.WorkspaceID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	var ids []string
	for id, project := range s.data.projects {
		if project.WorkspaceID == input.WorkspaceID {
			ids = append(ids, id)
		}
	}
	s.data.sortByCreation(ids)

	out := &projectsOutput{}
	out.Body.Projects = make([]model.Project, 0, len(ids))
	for _, id := range ids {
		out.Body.Projects = append(out.Body.Projects, *s.data.projects[id])
	}
	return out, nil
}

type createProjectInput struct {
	Body struct {
		WorkspaceID string `json:"workspace_id,omitempty"`
		Name        string `json:"name,omitempty"`
		Description string `json:"description,omitempty"`
	}
}

type projectOutput struct {
	Body struct {
		Project model.Project `json:"project"`
	}
}

func (s *Server) createProject(ctx context.Context, input *createProjectInput) (*projectOutput, error) {
	name := strings.TrimSpace(input.Body.Name)
	if input.Body.WorkspaceID == "" || name == "" {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.workspaceMembership(input.Body.WorkspaceID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	project := &model.Project{
		ID:          s.data.newID(),
		WorkspaceID: input.Body.WorkspaceID,
		Name:        name,
		Description: input.Body.Description,
		CreatedAt:   time.Now().UTC(),
	}
	s.data.projects[project.ID] = project

	out := &projectOutput{}
	out.Body.Project = *project
	return out, nil
}

type projectPathInput struct {
	ID string `path:"id"`
}

func (s *Server) getProject(ctx context.Context, input *projectPathInput) (*projectOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	project, ok := s.data.projects[input.ID]
	if !ok {
		return nil, errNotFound("Project not found")
	}
	if s.data.workspaceMembership(project.WorkspaceID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	out := &projectOutput{}
	out.Body.Project = *project
	return out, nil
}

type updateProjectInput struct {
	ID   string `path:"id"`
	Body struct {
		Name        string  `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
	}
}

func (s *Server) updateProject(ctx context.Context, input *updateProjectInput) (*projectOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	project, ok := s.data.projects[input.ID]
	if !ok {
		return nil, errNotFound("Project not found")
	}
	if s.data.workspaceMembership(project.WorkspaceID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	if name := strings.TrimSpace(input.Body.Name); name != "" {
		project.Name = name
	}
	if input.Body.Description != nil {
		project.Description = *input.Body.Description
	}

	out := &projectOutput{}
	out.Body.Project = *project
	return out, nil
}

func (s *Server) deleteProject(ctx context.Context, input *projectPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	project, ok := s.data.projects[input.ID]
	if !ok {
		return nil, errNotFound("Project not found")
	}
	if s.data.workspaceMembership(project.WorkspaceID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	s.data.deleteProjectCascade(input.ID)
	return messageResponse("Project deleted"), nil
}
