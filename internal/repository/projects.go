package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alpsupport/ticketdesk/internal/models"
)

// PostgresProjectRepository implements project persistence against PostgreSQL.
type PostgresProjectRepository struct {
	DB *sql.DB
}

// NewPostgresProjectRepository creates a repository using the given connection.
func NewPostgresProjectRepository(db *sql.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{DB: db}
}

const projectSelect = `
	SELECT p.id, p.title, p.description, p.status, p.start_date, p.end_date,
	       p.created_at, p.updated_at,
	       c.id, c.name, c.email, c.phone, c.role, c.created_at, c.updated_at
	FROM projects p
	LEFT JOIN users c ON c.id = p.client_id`

func scanProject(scan func(dest ...any) error) (*models.Project, error) {
	var p models.Project
	var cID, cName, cEmail, cPhone sql.NullString
	var cRole sql.NullString
	var cCreated, cUpdated sql.NullTime
	err := scan(
		&p.ID, &p.Title, &p.Description, &p.Status, &p.StartDate, &p.EndDate,
		&p.CreatedAt, &p.UpdatedAt,
		&cID, &cName, &cEmail, &cPhone, &cRole, &cCreated, &cUpdated,
	)
	if err != nil {
		return nil, err
	}
	if cID.Valid {
		p.Client = &models.User{
			ID:        cID.String,
			Name:      cName.String,
			Email:     cEmail.String,
			Phone:     cPhone.String,
			Role:      models.Role(cRole.String),
			CreatedAt: cCreated.Time,
			UpdatedAt: cUpdated.Time,
		}
	}
	return &p, nil
}

// List returns projects with their assigned client joined in, optionally
// filtered by status and ordered by a whitelisted column.
func (r *PostgresProjectRepository) List(ctx context.Context, status, sortBy, order string) ([]models.Project, error) {
	args := []any{}
	where := ""
	if status != "" {
		args = append(args, status)
		where = " WHERE p.status = $1"
	}

	q := projectSelect + where +
		" ORDER BY p." + sanitizeSort(sortBy, "created_at") + " " + sanitizeOrder(order, "desc")

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ListByClient returns the projects assigned to the given client.
func (r *PostgresProjectRepository) ListByClient(ctx context.Context, clientID string) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx,
		projectSelect+` WHERE p.client_id = $1 ORDER BY p.created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Get returns a single project or ErrNotFound.
func (r *PostgresProjectRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := scanProject(r.DB.QueryRowContext(ctx, projectSelect+` WHERE p.id = $1`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// Create inserts a new project and returns it.
func (r *PostgresProjectRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO projects (id, title, description, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, p.Title, p.Description, p.Status, nullTime(p.StartDate), nullTime(p.EndDate))
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return r.Get(ctx, id)
}

// Update replaces the mutable project fields.
func (r *PostgresProjectRepository) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE projects
		SET title = $1, description = $2, status = $3, start_date = $4, end_date = $5,
		    updated_at = now()
		WHERE id = $6`,
		p.Title, p.Description, p.Status, nullTime(p.StartDate), nullTime(p.EndDate), p.ID)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, p.ID)
}

// Delete removes the project and, via cascade, its tickets.
func (r *PostgresProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Assign links the project to the client. Re-assigning the same client is a
// no-op in effect: the row ends up in the same state.
func (r *PostgresProjectRepository) Assign(ctx context.Context, projectID, clientID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE projects SET client_id = $1, updated_at = now() WHERE id = $2`,
		clientID, projectID)
	if err != nil {
		return fmt.Errorf("assign project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func sanitizeSort(s, def string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title", "status", "start_date", "end_date", "created_at", "updated_at":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return def
	}
}

func sanitizeOrder(o, def string) string {
	switch strings.ToLower(strings.TrimSpace(o)) {
	case "asc", "desc":
		return strings.ToLower(strings.TrimSpace(o))
	default:
		return def
	}
}
