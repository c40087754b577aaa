package http

import (
	"context"
	"net/http"

	"github.com/alpsupport/ticketdesk/internal/models"
)

// DashboardService defines the aggregate queries behind the admin
// dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	TicketsLast7Days(ctx context.Context) (*models.Series, error)
	ClientsLast7Days(ctx context.Context) (*models.Series, error)
	ProjectsByStatus(ctx context.Context) (map[string]int, error)
	TicketsByPriority(ctx context.Context) (map[string]int, error)
}

// DashboardHandler serves the admin dashboard aggregates. Each widget
// has its own endpoint so the client can fetch them concurrently.
type DashboardHandler struct {
	DashboardService DashboardService
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.DashboardService.Stats(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, stats)
}

// TicketsLast7Days handles GET /api/dashboard/tickets-last-7-days.
func (h *DashboardHandler) TicketsLast7Days(w http.ResponseWriter, r *http.Request) {
	s, err := h.DashboardService.TicketsLast7Days(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, s)
}

// ClientsLast7Days handles GET /api/dashboard/clients-last-7-days.
func (h *DashboardHandler) ClientsLast7Days(w http.ResponseWriter, r *http.Request) {
	s, err := h.DashboardService.ClientsLast7Days(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, s)
}

// ProjectsByStatus handles GET /api/dashboard/projects-by-status.
func (h *DashboardHandler) ProjectsByStatus(w http.ResponseWriter, r *http.Request) {
	hist, err := h.DashboardService.ProjectsByStatus(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, hist)
}

// TicketsByPriority handles GET /api/dashboard/tickets-by-priority.
func (h *DashboardHandler) TicketsByPriority(w http.ResponseWriter, r *http.Request) {
	hist, err := h.DashboardService.TicketsByPriority(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, hist)
}
