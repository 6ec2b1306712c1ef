package sandbox

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

const (
	roleAdmin  = "admin"
	roleMember = "member"
	roleViewer = "viewer"
)

func (s *Server) registerOrgOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listOrganizations",
		Method:      http.MethodGet,
		Path:        "/api/organizations",
		Summary:     "List organizations the user belongs to",
	}, s.listOrganizations)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createOrganization",
		Method:        http.MethodPost,
		Path:          "/api/organizations",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create an organization",
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, s.createOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOrganization",
		Method:      http.MethodGet,
		Path:        "/api/organizations/{id}",
		Summary:     "Get an organization",
		Errors:      []int{http.StatusNotFound},
	}, s.getOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateOrganization",
		Method:      http.MethodPut,
		Path:        "/api/organizations/{id}",
		Summary:     "Update an organization",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.updateOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteOrganization",
		Method:      http.MethodDelete,
		Path:        "/api/organizations/{id}",
		Summary:     "Delete an organization",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.deleteOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOrganizationMembers",
		Method:      http.MethodGet,
		Path:        "/api/organizations/{id}/members",
		Summary:     "List organization members",
		Errors:      []int{http.StatusNotFound},
	}, s.listOrganizationMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listWorkspaces",
		Method:      http.MethodGet,
		Path:        "/api/workspaces",
		Summary:     "List workspaces in an organization",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.listWorkspaces)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createWorkspace",
		Method:        http.MethodPost,
		Path:          "/api/workspaces",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a workspace",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.createWorkspace)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWorkspace",
		Method:      http.MethodGet,
		Path:        "/api/workspaces/{id}",
		Summary:     "Get a workspace",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.getWorkspace)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateWorkspace",
		Method:      http.MethodPut,
		Path:        "/api/workspaces/{id}",
		Summary:     "Update a workspace",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.updateWorkspace)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteWorkspace",
		Method:      http.MethodDelete,
		Path:        "/api/workspaces/{id}",
		Summary:     "Delete a workspace",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.deleteWorkspace)
}

type organizationsOutput struct {
	Body struct {
		Organizations []model.Organization `json:"organizations"`
	}
}

func (s *Server) listOrganizations(ctx context.Context, _ *struct{}) (*organizationsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	userID := userIDFrom(ctx)
	var memberIDs []string
	for id, m := range s.data.members {
		if m.UserID == userID {
			memberIDs = append(memberIDs, id)
		}
	}
	s.data.sortByCreation(memberIDs)

	out := &organizationsOutput{}
	out.Body.Organizations = make([]model.Organization, 0, len(memberIDs))
	for _, id := range memberIDs {
		if org, ok := s.data.orgs[s.data.members[id].OrganizationID]; ok {
			out.Body.Organizations = append(out.Body.Organizations, *org)
		}
	}
	return out, nil
}

type createOrganizationInput struct {
	Body struct {
		Name string `json:"name,omitempty"`
		Slug string `json:"slug,omitempty"`
	}
}

type organizationOutput struct {
	Body struct {
		Organization model.Organization `json:"organization"`
	}
}

func (s *Server) createOrganization(ctx context.Context, input *createOrganizationInput) (*organizationOutput, error) {
	name := strings.TrimSpace(input.Body.Name)
	if name == "" {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	slug := strings.TrimSpace(input.Body.Slug)
	if slug == "" {
		slug = slugify(name)
	}
	for _, org := range s.data.orgs {
		if org.Slug == slug {
			return nil, errConflict("Organization slug already exists")
		}
	}

	org := &model.Organization{
		ID:        s.data.newID(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	s.data.orgs[org.ID] = org
	member := &model.Member{
		ID:             s.data.newID(),
		OrganizationID: org.ID,
		UserID:         userIDFrom(ctx),
		Role:           roleAdmin,
	}
	s.data.members[member.ID] = member

	out := &organizationOutput{}
	out.Body.Organization = *org
	return out, nil
}

type orgPathInput struct {
	ID string `path:"id"`
}

func (s *Server) getOrganization(ctx context.Context, input *orgPathInput) (*organizationOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.membership(input.ID, userIDFrom(ctx)) == nil {
		return nil, errNotFound("Organization not found")
	}
	out := &organizationOutput{}
	out.Body.Organization = *s.data.orgs[input.ID]
	return out, nil
}

type updateOrganizationInput struct {
	ID   string `path:"id"`
	Body struct {
		Name string `json:"name,omitempty"`
		Slug string `json:"slug,omitempty"`
	}
}

func (s *Server) updateOrganization(ctx context.Context, input *updateOrganizationInput) (*organizationOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	member := s.data.membership(input.ID, userIDFrom(ctx))
	if member == nil || member.Role != roleAdmin {
		return nil, errForbidden()
	}
	org, ok := s.data.orgs[input.ID]
	if !ok {
		return nil, errNotFound("Organization not found")
	}

	if name := strings.TrimSpace(input.Body.Name); name != "" {
		org.Name = name
	}
	if slug := strings.TrimSpace(input.Body.Slug); slug != "" {
		org.Slug = slug
	}

	out := &organizationOutput{}
	out.Body.Organization = *org
	return out, nil
}

func (s *Server) deleteOrganization(ctx context.Context, input *orgPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	member := s.data.membership(input.ID, userIDFrom(ctx))
	if member == nil || member.Role != roleAdmin {
		return nil, errForbidden()
	}
	if _, ok := s.data.orgs[input.ID]; !ok {
		return nil, errNotFound("Organization not found")
	}

	s.data.deleteOrganizationCascade(input.ID)
	return messageResponse("Organization deleted"), nil
}

type membersOutput struct {
	Body struct {
		Members []model.Member `json:"members"`
	}
}

func (s *Server) listOrganizationMembers(ctx context.Context, input *orgPathInput) (*membersOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.membership(input.ID, userIDFrom(ctx)) == nil {
		return nil, errNotFound("Organization not found")
	}

	var ids []string
	for id, m := range s.data.members {
		if m.OrganizationID == input.ID {
			ids = append(ids, id)
		}
	}
	s.data.sortByCreation(ids)

	out := &membersOutput{}
	out.Body.Members = make([]model.Member, 0, len(ids))
	for _, id := range ids {
		out.Body.Members = append(out.Body.Members, s.data.renderMember(s.data.members[id]))
	}
	return out, nil
}

type listWorkspacesInput struct {
	OrganizationID string `query:"organization_id"`
}

type workspacesOutput struct {
	Body struct {
		Workspaces []model.Workspace `json:"workspaces"`
	}
}

func (s *Server) listWorkspaces(ctx context.Context, input *listWorkspacesInput) (*workspacesOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if input.OrganizationID == "" {
		return nil, errBadRequest("organization_id required")
	}
	if s.data.membership(input.OrganizationID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	var ids []string
	for id, ws := range s.data.workspaces {
		if ws.OrganizationID == input.OrganizationID {
			ids = append(ids, id)
		}
	}
	s.data.sortByCreation(ids)

	out := &workspacesOutput{}
	out.Body.Workspaces = make([]model.Workspace, 0, len(ids))
	for _, id := range ids {
		out.Body.Workspaces = append(out.Body.Workspaces, *s.data.workspaces[id])
	}
	return out, nil
}

type createWorkspaceInput struct {
	Body struct {
		OrganizationID string `json:"organization_id,omitempty"`
		Name           string `json:"name,omitempty"`
	}
}

type workspaceOutput struct {
	Body struct {
		Workspace model.Workspace `json:"workspace"`
	}
}

func (s *Server) createWorkspace(ctx context.Context, input *createWorkspaceInput) (*workspaceOutput, error) {
	name := strings.TrimSpace(input.Body.Name)
	if input.Body.OrganizationID == "" || name == "" {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.membership(input.Body.OrganizationID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	ws := &model.Workspace{
		ID:             s.data.newID(),
		OrganizationID: input.Body.OrganizationID,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
	}
	s.data.workspaces[ws.ID] = ws

	out := &workspaceOutput{}
	out.Body.Workspace = *ws
	return out, nil
}

type workspacePathInput struct {
	ID string `path:"id"`
}

func (s *Server) getWorkspace(ctx context.Context, input *workspacePathInput) (*workspaceOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	ws, ok := s.data.workspaces[input.ID]
	if !ok {
		return nil, errNotFound("Workspace not found")
	}
	if s.data.membership(ws.OrganizationID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	out := &workspaceOutput{}
	out.Body.Workspace = *ws
	return out, nil
}

type updateWorkspaceInput struct {
	ID   string `path:"id"`
	Body struct {
		Name string `json:"name,omitempty"`
	}
}

func (s *Server) updateWorkspace(ctx context.Context, input *updateWorkspaceInput) (*workspaceOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	ws, ok := s.data.workspaces[input.ID]
	if !ok {
		return nil, errNotFound("Workspace not found")
	}
	if s.data.membership(ws.OrganizationID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	if name := strings.TrimSpace(input.Body.Name); name != "" {
		ws.Name = name
	}

	out := &workspaceOutput{}
	out.Body.Workspace = *ws
	return out, nil
}

func (s *Server) deleteWorkspace(ctx context.Context, input *workspacePathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	ws, ok := s.data.workspaces[input.ID]
	if !ok {
		return nil, errNotFound("Workspace not found")
	}
	if s.data.membership(ws.OrganizationID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	s.data.deleteWorkspaceCascade(input.ID)
	return messageResponse("Workspace deleted"), nil
}
