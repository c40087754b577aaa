package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alpsupport/ticketdesk/internal/middleware"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// ProjectService defines the project operations required by the HTTP
// handlers.
type ProjectService interface {
	List(ctx context.Context, status, sortBy, order string) ([]models.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, projectID, clientID string) error
}

// ProjectsHandler handles project management endpoints.
type ProjectsHandler struct {
	ProjectService ProjectService
}

// projectRequest is the create/update payload. Dates arrive as
// YYYY-MM-DD strings from the form layer.
type projectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

func (req *projectRequest) toModel() (*models.Project, error) {
	p := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	for _, d := range []struct {
		raw  string
		dest **time.Time
	}{
		{req.StartDate, &p.StartDate},
		{req.EndDate, &p.EndDate},
	} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", d.raw)
		if err != nil {
			return nil, err
		}
		*d.dest = &t
	}
	return p, nil
}

// List handles GET /api/projects?status=&sortBy=&order=.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects, err := h.ProjectService.List(r.Context(), q.Get("status"), q.Get("sortBy"), q.Get("order"))
	if err != nil {
		serviceError(w, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	JSON(w, http.StatusOK, projects)
}

// My handles GET /api/projects/my for the authenticated client.
func (h *ProjectsHandler) My(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetUserIDFromContext(r.Context())
	projects, err := h.ProjectService.ListByClient(r.Context(), clientID)
	if err != nil {
		serviceError(w, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	JSON(w, http.StatusOK, projects)
}

// Create handles POST /api/projects.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}
	p, err := req.toModel()
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid date format, want YYYY-MM-DD")
		return
	}

	created, err := h.ProjectService.Create(r.Context(), p)
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/projects/{id}.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}
	p, err := req.toModel()
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid date format, want YYYY-MM-DD")
		return
	}
	p.ID = chi.URLParam(r, "id")

	updated, err := h.ProjectService.Update(r.Context(), p)
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ProjectService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"msg": "project deleted"})
}

// Assign handles PUT /api/projects/assign.
func (h *ProjectsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string `json:"projectId"`
		ClientID  string `json:"clientId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.ProjectService.Assign(r.Context(), req.ProjectID, req.ClientID); err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"msg": "project assigned"})
}
