package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/alpsupport/ticketdesk/internal/models"
)

func setupDashboardMock(t *testing.T) (*PostgresDashboardRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresDashboardRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestCountUsersByRole(t *testing.T) {
	repo, mock, cleanup := setupDashboardMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role`).
		WithArgs(models.RoleClient).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountUsersByRole(context.Background(), models.RoleClient)
	if err != nil {
		t.Fatalf("CountUsersByRole: %v", err)
	}
	if n != 4 {
		t.Errorf("n = %d; want 4", n)
	}
}

func TestCountTicketsByStatuses(t *testing.T) {
	repo, mock, cleanup := setupDashboardMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountTicketsByStatuses(context.Background(), []string{models.TicketOpen, models.TicketPending})
	if err != nil {
		t.Fatalf("CountTicketsByStatuses: %v", err)
	}
	if n != 7 {
		t.Errorf("n = %d; want 7", n)
	}
}

func TestTicketsCreatedSince(t *testing.T) {
	repo, mock, cleanup := setupDashboardMock(t)
	defer cleanup()

	since := time.Now().AddDate(0, 0, -7)
	mock.ExpectQuery(`SELECT to_char`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count"}).
			AddRow("2026-08-25", 2).
			AddRow("2026-08-27", 5))

	counts, err := repo.TicketsCreatedSince(context.Background(), since)
	if err != nil {
		t.Fatalf("TicketsCreatedSince: %v", err)
	}
	if counts["2026-08-27"] != 5 || counts["2026-08-25"] != 2 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestProjectsByStatus(t *testing.T) {
	repo, mock, cleanup := setupDashboardMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM projects`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("active", 3).
			AddRow("completed", 1))

	hist, err := repo.ProjectsByStatus(context.Background())
	if err != nil {
		t.Fatalf("ProjectsByStatus: %v", err)
	}
	if hist["active"] != 3 || hist["completed"] != 1 {
		t.Errorf("unexpected histogram: %v", hist)
	}
}
