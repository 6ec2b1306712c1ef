package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/flowboardhq/flowboard/internal/model"
)

// Organizations lists the organizations the user belongs to.
func (c *Client) Organizations(ctx context.Context) ([]model.Organization, error) {
	var out struct {
		Organizations []model.Organization `json:"organizations"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/organizations", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Organizations, nil
}

// CreateOrganization creates an organization. The slug is derived from
// the name when the request leaves it empty.
func (c *Client) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (model.Organization, error) {
	if err := c.check(req); err != nil {
		return model.Organization{}, err
	}
	var out struct {
		Organization model.Organization `json:"organization"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/organizations", nil, req, &out); err != nil {
		return model.Organization{}, err
	}
	return out.Organization, nil
}

// Organization returns one organization by id.
func (c *Client) Organization(ctx context.Context, id string) (model.Organization, error) {
	var out struct {
		Organization model.Organization `json:"organization"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/organizations/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return model.Organization{}, err
	}
	return out.Organization, nil
}

// UpdateOrganization renames an organization.
func (c *Client) UpdateOrganization(ctx context.Context, id string, req UpdateOrganizationRequest) (model.Organization, error) {
	var out struct {
		Organization model.Organization `json:"organization"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/organizations/"+url.PathEscape(id), nil, req, &out); err != nil {
		return model.Organization{}, err
	}
	return out.Organization, nil
}

// DeleteOrganization deletes an organization and everything under it.
func (c *Client) DeleteOrganization(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/organizations/"+url.PathEscape(id), nil, nil, nil)
}

// OrganizationMembers lists an organization's memberships.
func (c *Client) OrganizationMembers(ctx context.Context, organizationID string) ([]model.Member, error) {
	var out struct {
		Members []model.Member `json:"members"`
	}
	path := "/api/organizations/" + url.PathEscape(organizationID) + "/members"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

// Workspaces lists the workspaces of one organization.
func (c *Client) Workspaces(ctx context.Context, organizationID string) ([]model.Workspace, error) {
	q := url.Values{"organization_id": {organizationID}}
	var out struct {
		Workspaces []model.Workspace `json:"workspaces"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/workspaces", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Workspaces, nil
}

// CreateWorkspace creates a workspace in an organization.
func (c *Client) CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (model.Workspace, error) {
	if err := c.check(req); err != nil {
		return model.Workspace{}, err
	}
	var out struct {
		Workspace model.Workspace `json:"workspace"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/workspaces", nil, req, &out); err != nil {
		return model.Workspace{}, err
	}
	return out.Workspace, nil
}

// UpdateWorkspace renames a workspace.
func (c *Client) UpdateWorkspace(ctx context.Context, id string, req UpdateWorkspaceRequest) (model.Workspace, error) {
	var out struct {
		Workspace model.Workspace `json:"workspace"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/workspaces/"+url.PathEscape(id), nil, req, &out); err != nil {
		return model.Workspace{}, err
	}
	return out.Workspace, nil
}

// DeleteWorkspace deletes a workspace.
func (c *Client) DeleteWorkspace(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/workspaces/"+url.PathEscape(id), nil, nil, nil)
}

// Projects lists the projects of one workspace.
func (c *Client) Projects(ctx context.Context, workspaceID string) ([]model.Project, error) {
	q := url.Values{"workspace_id": {workspaceID}}
	var out struct {
		Projects []model.Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// CreateProject creates a project in a workspace.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (model.Project, error) {
	if err := c.check(req); err != nil {
		return model.Project{}, err
	}
	var out struct {
		Project model.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, req, &out); err != nil {
		return model.Project{}, err
	}
	return out.Project, nil
}

// Project returns one project by id.
func (c *Client) Project(ctx context.Context, id string) (model.Project, error) {
	var out struct {
		Project model.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return model.Project{}, err
	}
	return out.Project, nil
}

// UpdateProject updates a project's name or description.
func (c *Client) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (model.Project, error) {
	var out struct {
		Project model.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), nil, req, &out); err != nil {
		return model.Project{}, err
	}
	return out.Project, nil
}

// DeleteProject deletes a project and its boards.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil, nil)
}
