package service

import (
	"context"
	"time"

	"github.com/alpsupport/ticketdesk/internal/models"
)

// DashboardRepository defines the aggregate queries required by
// DashboardService.
type DashboardRepository interface {
	CountUsersByRole(ctx context.Context, role models.Role) (int, error)
	CountProjects(ctx context.Context) (int, error)
	CountTicketsByStatuses(ctx context.Context, statuses []string) (int, error)
	TicketsCreatedSince(ctx context.Context, since time.Time) (map[string]int, error)
	ClientsCreatedSince(ctx context.Context, since time.Time) (map[string]int, error)
	ProjectsByStatus(ctx context.Context) (map[string]int, error)
	TicketsByPriority(ctx context.Context) (map[string]int, error)
}

// DashboardService computes the admin dashboard aggregates.
type DashboardService struct {
	repo DashboardRepository
	now  func() time.Time
}

// NewDashboardService constructs a DashboardService using the provided
// repository.
func NewDashboardService(repo DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

// Stats returns the aggregate card numbers.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	clients, err := s.repo.CountUsersByRole(ctx, models.RoleClient)
	if err != nil {
		return nil, err
	}
	projects, err := s.repo.CountProjects(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.repo.CountTicketsByStatuses(ctx, []string{models.TicketOpen})
	if err != nil {
		return nil, err
	}
	resolved, err := s.repo.CountTicketsByStatuses(ctx, []string{models.TicketResolved})
	if err != nil {
		return nil, err
	}
	return &models.DashboardStats{
		TotalClients:  clients,
		TotalProjects: projects,
		Tickets:       models.TicketCounts{Open: open, Resolved: resolved},
	}, nil
}

// TicketsLast7Days returns a 7-entry series of daily ticket creations,
// oldest day first; days with no tickets appear as zero.
func (s *DashboardService) TicketsLast7Days(ctx context.Context) (*models.Series, error) {
	return s.last7Days(ctx, s.repo.TicketsCreatedSince)
}

// ClientsLast7Days returns a 7-entry series of daily client registrations.
func (s *DashboardService) ClientsLast7Days(ctx context.Context) (*models.Series, error) {
	return s.last7Days(ctx, s.repo.ClientsCreatedSince)
}

func (s *DashboardService) last7Days(ctx context.Context, fetch func(context.Context, time.Time) (map[string]int, error)) (*models.Series, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -6)

	perDay, err := fetch(ctx, since)
	if err != nil {
		return nil, err
	}

	series := &models.Series{
		Labels: make([]string, 0, 7),
		Counts: make([]int, 0, 7),
	}
	for d := 0; d < 7; d++ {
		day := since.AddDate(0, 0, d)
		series.Labels = append(series.Labels, day.Format("Jan 02"))
		series.Counts = append(series.Counts, perDay[day.Format("2006-01-02")])
	}
	return series, nil
}

// ProjectsByStatus returns the status histogram with every known status
// present, zero-filled.
func (s *DashboardService) ProjectsByStatus(ctx context.Context) (map[string]int, error) {
	hist, err := s.repo.ProjectsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return fill(hist, models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted), nil
}

// TicketsByPriority returns the priority histogram with every known
// priority present, zero-filled.
func (s *DashboardService) TicketsByPriority(ctx context.Context) (map[string]int, error) {
	hist, err := s.repo.TicketsByPriority(ctx)
	if err != nil {
		return nil, err
	}
	return fill(hist, models.PriorityLow, models.PriorityMedium, models.PriorityHigh), nil
}

func fill(hist map[string]int, keys ...string) map[string]int {
	out := make(map[string]int, len(keys))
	for _, k := range keys {
		out[k] = hist[k]
	}
	return out
}
