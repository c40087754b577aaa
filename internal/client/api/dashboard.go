package api

import (
	"context"
	"net/http"

	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// DashboardStats returns the aggregate card numbers.
func (c *Client) DashboardStats(ctx context.Context, sess session.Session) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TicketsLast7Days returns the daily ticket-creation series.
func (c *Client) TicketsLast7Days(ctx context.Context, sess session.Session) (*models.Series, error) {
	var out models.Series
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/dashboard/tickets-last-7-days", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClientsLast7Days returns the daily client-registration series.
func (c *Client) ClientsLast7Days(ctx context.Context, sess session.Session) (*models.Series, error) {
	var out models.Series
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/dashboard/clients-last-7-days", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProjectsByStatus returns the project status histogram.
func (c *Client) ProjectsByStatus(ctx context.Context, sess session.Session) (map[string]int, error) {
	var out map[string]int
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/dashboard/projects-by-status", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TicketsByPriority returns the ticket priority histogram.
func (c *Client) TicketsByPriority(ctx context.Context, sess session.Session) (map[string]int, error) {
	var out map[string]int
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/dashboard/tickets-by-priority", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
