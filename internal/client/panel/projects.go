package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alpsupport/ticketdesk/internal/client/api"
	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// dateFormat matches the way dates are shown in lists, so searching for
// the text a user sees finds the row.
const dateFormat = "Jan 02, 2006"

// ErrAlreadyAssigned is returned when assigning a project that already
// belongs to another client.
var ErrAlreadyAssigned = errors.New("project already assigned")

// FilterProjects narrows projects to those matching the free-text query
// and the status filter. Matching is case-insensitive over title,
// client name and email, formatted dates, and status. An empty query
// and empty status return the input unchanged. The input slice is never
// modified.
func FilterProjects(projects []models.Project, query, status string) []models.Project {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && status == "" {
		return projects
	}

	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if status != "" && p.Status != status {
			continue
		}
		if query != "" && !projectMatches(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func projectMatches(p models.Project, query string) bool {
	fields := []string{p.Title, p.Status}
	if p.Client != nil {
		fields = append(fields, p.Client.Name, p.Client.Email)
	}
	if p.StartDate != nil {
		fields = append(fields, p.StartDate.Format(dateFormat))
	}
	if p.EndDate != nil {
		fields = append(fields, p.EndDate.Format(dateFormat))
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// ProjectsPanel is the admin project list with search, filter, and
// assignment.
type ProjectsPanel struct {
	api   *api.Client
	guard *InFlightGuard

	projects []models.Project
}

// NewProjectsPanel constructs a ProjectsPanel.
func NewProjectsPanel(c *api.Client, guard *InFlightGuard) *ProjectsPanel {
	return &ProjectsPanel{api: c, guard: guard}
}

// Refresh reloads the project collection using the server-side sort.
func (p *ProjectsPanel) Refresh(ctx context.Context, sess session.Session, q api.ProjectQuery) error {
	projects, err := p.api.ListProjects(ctx, sess, q)
	if err != nil {
		return err
	}
	p.projects = projects
	return nil
}

// RefreshMine reloads the signed-in client's assigned projects.
func (p *ProjectsPanel) RefreshMine(ctx context.Context, sess session.Session) error {
	projects, err := p.api.MyProjects(ctx, sess)
	if err != nil {
		return err
	}
	p.projects = projects
	return nil
}

// Render writes the collection narrowed by query and status to w.
func (p *ProjectsPanel) Render(w io.Writer, query, status string) {
	visible := FilterProjects(p.projects, query, status)
	if len(visible) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tCLIENT\tSTART\tEND")
	for _, pr := range visible {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			pr.ID, pr.Title, pr.Status, clientLabel(pr.Client),
			dateLabel(pr.StartDate), dateLabel(pr.EndDate))
	}
	tw.Flush()
}

// Create submits a new project, guarded against double submission.
func (p *ProjectsPanel) Create(ctx context.Context, sess session.Session, form api.ProjectForm) (*models.Project, error) {
	release, err := p.guard.Start("create-project", form.Title)
	if err != nil {
		return nil, err
	}
	defer release()

	return p.api.CreateProject(ctx, sess, form)
}

// Update edits an existing project.
func (p *ProjectsPanel) Update(ctx context.Context, sess session.Session, id string, form api.ProjectForm) (*models.Project, error) {
	release, err := p.guard.Start("update-project", id)
	if err != nil {
		return nil, err
	}
	defer release()

	return p.api.UpdateProject(ctx, sess, id, form)
}

// Delete removes a project.
func (p *ProjectsPanel) Delete(ctx context.Context, sess session.Session, id string) error {
	release, err := p.guard.Start("delete-project", id)
	if err != nil {
		return err
	}
	defer release()

	return p.api.DeleteProject(ctx, sess, id)
}

// Assign hands a project to a client. Assigning the client it already
// has succeeds without change, but a project that belongs to a
// different client is not offered for reassignment through this
// control; it must be unassigned by other means first.
func (p *ProjectsPanel) Assign(ctx context.Context, sess session.Session, projectID, clientID string) error {
	for _, pr := range p.projects {
		if pr.ID == projectID && pr.Client != nil && pr.Client.ID != clientID {
			return fmt.Errorf("%w: %s belongs to %s", ErrAlreadyAssigned, projectID, pr.Client.Name)
		}
	}

	release, err := p.guard.Start("assign-project", projectID)
	if err != nil {
		return err
	}
	defer release()

	return p.api.AssignProject(ctx, sess, projectID, clientID)
}

func clientLabel(u *models.User) string {
	if u == nil {
		return "unassigned"
	}
	return u.Name
}

func dateLabel(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateFormat)
}
