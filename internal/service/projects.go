package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alpsupport/ticketdesk/internal/models"
)

// ProjectRepository defines the persistence operations required by
// ProjectService.
type ProjectRepository interface {
	List(ctx context.Context, status, sortBy, order string) ([]models.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, projectID, clientID string) error
}

// ProjectService handles project management and assignment.
type ProjectService struct {
	repo ProjectRepository
}

// NewProjectService constructs a ProjectService using the provided repository.
func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

func validProjectStatus(status string) bool {
	switch status {
	case models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted:
		return true
	}
	return false
}

// List returns projects filtered by status and sorted server-side.
func (s *ProjectService) List(ctx context.Context, status, sortBy, order string) ([]models.Project, error) {
	if status != "" && !validProjectStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return s.repo.List(ctx, status, sortBy, order)
}

// ListByClient returns the projects assigned to the client.
func (s *ProjectService) ListByClient(ctx context.Context, clientID string) ([]models.Project, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Create validates and stores a new project.
func (s *ProjectService) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, errors.New("title is required")
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if !validProjectStatus(p.Status) {
		return nil, fmt.Errorf("unknown status %q", p.Status)
	}
	return s.repo.Create(ctx, p)
}

// Update validates and stores modified project fields.
func (s *ProjectService) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, errors.New("title is required")
	}
	if !validProjectStatus(p.Status) {
		return nil, fmt.Errorf("unknown status %q", p.Status)
	}
	return s.repo.Update(ctx, p)
}

// Delete removes the project.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Assign links the project to the client. The operation is idempotent in
// effect: repeating it with the same pair leaves the project unchanged.
func (s *ProjectService) Assign(ctx context.Context, projectID, clientID string) error {
	if projectID == "" || clientID == "" {
		return errors.New("projectId and clientId are required")
	}
	return s.repo.Assign(ctx, projectID, clientID)
}
