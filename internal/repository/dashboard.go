package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/alpsupport/ticketdesk/internal/models"
)

// PostgresDashboardRepository answers the aggregate queries behind the admin
// dashboard.
type PostgresDashboardRepository struct {
	DB *sql.DB
}

// NewPostgresDashboardRepository creates a repository using the given connection.
func NewPostgresDashboardRepository(db *sql.DB) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{DB: db}
}

// CountUsersByRole returns the number of users holding the role.
func (r *PostgresDashboardRepository) CountUsersByRole(ctx context.Context, role models.Role) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CountProjects returns the total project count.
func (r *PostgresDashboardRepository) CountProjects(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// CountTicketsByStatuses returns the number of live tickets in any of the
// given statuses.
func (r *PostgresDashboardRepository) CountTicketsByStatuses(ctx context.Context, statuses []string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tickets
		WHERE deleted = false AND status = ANY($1)`, pq.Array(statuses)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return n, nil
}

// TicketsCreatedSince returns per-day ticket counts keyed by date (UTC,
// YYYY-MM-DD) for rows created at or after since.
func (r *PostgresDashboardRepository) TicketsCreatedSince(ctx context.Context, since time.Time) (map[string]int, error) {
	return r.countPerDay(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD'), COUNT(*)
		FROM tickets WHERE deleted = false AND created_at >= $1
		GROUP BY 1`, since)
}

// ClientsCreatedSince returns per-day counts of client registrations at or
// after since.
func (r *PostgresDashboardRepository) ClientsCreatedSince(ctx context.Context, since time.Time) (map[string]int, error) {
	return r.countPerDay(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD'), COUNT(*)
		FROM users WHERE role = 'Client' AND created_at >= $1
		GROUP BY 1`, since)
}

func (r *PostgresDashboardRepository) countPerDay(ctx context.Context, query string, since time.Time) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("count per day: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		out[day] = n
	}
	return out, rows.Err()
}

// ProjectsByStatus returns a status → count histogram.
func (r *PostgresDashboardRepository) ProjectsByStatus(ctx context.Context) (map[string]int, error) {
	return r.histogram(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
}

// TicketsByPriority returns a priority → count histogram over live tickets.
func (r *PostgresDashboardRepository) TicketsByPriority(ctx context.Context) (map[string]int, error) {
	return r.histogram(ctx, `
		SELECT priority, COUNT(*) FROM tickets WHERE deleted = false GROUP BY priority`)
}

func (r *PostgresDashboardRepository) histogram(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan histogram: %w", err)
		}
		out[key] = n
	}
	return out, rows.Err()
}
