package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/alpsupport/ticketdesk/internal/models"
)

func setupTicketMock(t *testing.T) (*PostgresTicketRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresTicketRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func ticketColumns() []string {
	return []string{
		"id", "subject", "details", "priority", "status", "project_id",
		"created_by", "created_at", "updated_at",
		"a_id", "a_name", "a_email", "a_phone", "a_role", "a_created_at", "a_updated_at",
	}
}

func ticketRow(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(ticketColumns()).
		AddRow(id, "S", "", "low", "open", "p1", "admin1", now, now,
			nil, nil, nil, nil, nil, nil, nil)
}

func TestTicketGet_WithCommentsAndAttachments(t *testing.T) {
	repo, mock, cleanup := setupTicketMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM tickets t`).
		WithArgs("t1").
		WillReturnRows(ticketRow("t1"))
	mock.ExpectQuery(`SELECT user_name, message, created_at`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"user_name", "message", "created_at"}).
			AddRow("Ann", "first", now).
			AddRow("Bob", "second", now))
	mock.ExpectQuery(`SELECT file_name, url`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"file_name", "url"}).
			AddRow("brief.pdf", "/uploads/brief.pdf"))

	ticket, err := repo.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(ticket.Comments) != 2 || ticket.Comments[0].Message != "first" {
		t.Errorf("comments out of order: %+v", ticket.Comments)
	}
	if len(ticket.Attachments) != 1 || ticket.Attachments[0].FileName != "brief.pdf" {
		t.Errorf("unexpected attachments: %+v", ticket.Attachments)
	}
}

func TestTicketGet_NotFound(t *testing.T) {
	repo, mock, cleanup := setupTicketMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .* FROM tickets t`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(ticketColumns()))

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestTicketCreate_StartsOpen(t *testing.T) {
	repo, mock, cleanup := setupTicketMock(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(sqlmock.AnyArg(), "S", "", "low", models.TicketOpen, "p1", "admin1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM tickets t`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(ticketRow("t1"))
	mock.ExpectQuery(`SELECT user_name, message, created_at`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_name", "message", "created_at"}))
	mock.ExpectQuery(`SELECT file_name, url`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"file_name", "url"}))

	ticket, err := repo.Create(context.Background(), &models.Ticket{
		Subject: "S", Priority: "low", ProjectID: "p1", CreatedBy: "admin1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Status != models.TicketOpen {
		t.Errorf("status = %q; want open", ticket.Status)
	}
}

func TestTicketClientOwns(t *testing.T) {
	repo, mock, cleanup := setupTicketMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("t1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("t1", "c2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	owns, err := repo.ClientOwns(context.Background(), "t1", "c1")
	if err != nil {
		t.Fatalf("ClientOwns: %v", err)
	}
	if !owns {
		t.Error("expected c1 to own t1")
	}

	owns, err = repo.ClientOwns(context.Background(), "t1", "c2")
	if err != nil {
		t.Fatalf("ClientOwns: %v", err)
	}
	if owns {
		t.Error("expected c2 not to own t1")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTicketUpdateStatus_NotFound(t *testing.T) {
	repo, mock, cleanup := setupTicketMock(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE tickets SET status`).
		WithArgs("resolved", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", "resolved")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestTicketSoftDelete(t *testing.T) {
	repo, mock, cleanup := setupTicketMock(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE tickets SET deleted = true`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDelete(context.Background(), "t1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
}

func TestTicketAddComment(t *testing.T) {
	repo, mock, cleanup := setupTicketMock(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO comments`).
		WithArgs(sqlmock.AnyArg(), "t1", "Ann", "hello").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AddComment(context.Background(), "t1", "Ann", "hello"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
}
