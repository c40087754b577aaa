package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupProjectMock(t *testing.T) (*PostgresProjectRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresProjectRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func projectColumns() []string {
	return []string{
		"id", "title", "description", "status", "start_date", "end_date",
		"created_at", "updated_at",
		"c_id", "c_name", "c_email", "c_phone", "c_role", "c_created_at", "c_updated_at",
	}
}

func TestProjectList_StatusFilter(t *testing.T) {
	repo, mock, cleanup := setupProjectMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM projects p\s+LEFT JOIN users c .* WHERE p\.status = \$1`).
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows(projectColumns()).
			AddRow("p1", "Site", "", "active", nil, nil, now, now,
				nil, nil, nil, nil, nil, nil, nil))

	projects, err := repo.List(context.Background(), "active", "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 1 || projects[0].Client != nil {
		t.Errorf("unexpected projects: %+v", projects)
	}
}

func TestProjectList_JoinsClient(t *testing.T) {
	repo, mock, cleanup := setupProjectMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM projects p`).
		WillReturnRows(sqlmock.NewRows(projectColumns()).
			AddRow("p1", "Site", "desc", "active", now, nil, now, now,
				"u1", "Ann", "ann@x.com", "", "Client", now, now))

	projects, err := repo.List(context.Background(), "", "title", "asc")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if projects[0].Client == nil || projects[0].Client.Name != "Ann" {
		t.Errorf("client not joined: %+v", projects[0])
	}
}

func TestProjectAssign(t *testing.T) {
	repo, mock, cleanup := setupProjectMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE projects SET client_id = $1, updated_at = now() WHERE id = $2`)).
		WithArgs("u1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Assign(context.Background(), "p1", "u1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
}

func TestProjectAssign_SecondIdenticalCallSucceeds(t *testing.T) {
	repo, mock, cleanup := setupProjectMock(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		mock.ExpectExec(`UPDATE projects SET client_id`).
			WithArgs("u1", "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	if err := repo.Assign(context.Background(), "p1", "u1"); err != nil {
		t.Fatalf("first Assign: %v", err)
	}
	if err := repo.Assign(context.Background(), "p1", "u1"); err != nil {
		t.Fatalf("second Assign: %v", err)
	}
}

func TestProjectAssign_NotFound(t *testing.T) {
	repo, mock, cleanup := setupProjectMock(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE projects SET client_id`).
		WithArgs("u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Assign(context.Background(), "missing", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestSanitizeSortAndOrder(t *testing.T) {
	if got := sanitizeSort("title", "created_at"); got != "title" {
		t.Errorf("sanitizeSort(title) = %q", got)
	}
	if got := sanitizeSort("; DROP TABLE projects", "created_at"); got != "created_at" {
		t.Errorf("sanitizeSort(injection) = %q", got)
	}
	if got := sanitizeOrder("ASC", "desc"); got != "asc" {
		t.Errorf("sanitizeOrder(ASC) = %q", got)
	}
	if got := sanitizeOrder("sideways", "desc"); got != "desc" {
		t.Errorf("sanitizeOrder(sideways) = %q", got)
	}
}
