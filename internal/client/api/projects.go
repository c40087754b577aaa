package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// ProjectQuery narrows and orders the project list.
type ProjectQuery struct {
	Status string
	SortBy string
	Order  string
}

// ProjectForm carries create/update fields; dates are YYYY-MM-DD.
type ProjectForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// ListProjects returns projects, optionally filtered and sorted
// server-side.
func (c *Client) ListProjects(ctx context.Context, sess session.Session, q ProjectQuery) ([]models.Project, error) {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	path := "/api/projects"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}

	var out []models.Project
	if err := c.doAuth(ctx, sess, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyProjects returns the projects assigned to the signed-in client.
func (c *Client) MyProjects(ctx context.Context, sess session.Session) ([]models.Project, error) {
	var out []models.Project
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/projects/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, sess session.Session, form ProjectForm) (*models.Project, error) {
	var out models.Project
	if err := c.doAuth(ctx, sess, http.MethodPost, "/api/projects", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject updates a project's fields.
func (c *Client) UpdateProject(ctx context.Context, sess session.Session, id string, form ProjectForm) (*models.Project, error) {
	var out models.Project
	if err := c.doAuth(ctx, sess, http.MethodPut, "/api/projects/"+id, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, sess session.Session, id string) error {
	return c.doAuth(ctx, sess, http.MethodDelete, "/api/projects/"+id, nil, nil)
}

// AssignProject hands a project to a client. Re-assigning the same
// client is a no-op server-side.
func (c *Client) AssignProject(ctx context.Context, sess session.Session, projectID, clientID string) error {
	return c.doAuth(ctx, sess, http.MethodPut, "/api/projects/assign", map[string]string{
		"projectId": projectID,
		"clientId":  clientID,
	}, nil)
}
