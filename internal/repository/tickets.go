package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/alpsupport/ticketdesk/internal/models"
)

// PostgresTicketRepository implements ticket persistence against PostgreSQL.
// Tickets are soft-deleted; a background cleaner purges old rows.
type PostgresTicketRepository struct {
	DB *sql.DB
}

// NewPostgresTicketRepository creates a repository using the given connection.
func NewPostgresTicketRepository(db *sql.DB) *PostgresTicketRepository {
	return &PostgresTicketRepository{DB: db}
}

const ticketSelect = `
	SELECT t.id, t.subject, t.details, t.priority, t.status, t.project_id,
	       t.created_by, t.created_at, t.updated_at,
	       a.id, a.name, a.email, a.phone, a.role, a.created_at, a.updated_at
	FROM tickets t
	LEFT JOIN users a ON a.id = t.assigned_to`

func scanTicket(scan func(dest ...any) error) (*models.Ticket, error) {
	var t models.Ticket
	var aID, aName, aEmail, aPhone, aRole sql.NullString
	var aCreated, aUpdated sql.NullTime
	err := scan(
		&t.ID, &t.Subject, &t.Details, &t.Priority, &t.Status, &t.ProjectID,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		&aID, &aName, &aEmail, &aPhone, &aRole, &aCreated, &aUpdated,
	)
	if err != nil {
		return nil, err
	}
	if aID.Valid {
		t.AssignedTo = &models.User{
			ID:        aID.String,
			Name:      aName.String,
			Email:     aEmail.String,
			Phone:     aPhone.String,
			Role:      models.Role(aRole.String),
			CreatedAt: aCreated.Time,
			UpdatedAt: aUpdated.Time,
		}
	}
	return &t, nil
}

// ListAll returns every live ticket, newest first.
func (r *PostgresTicketRepository) ListAll(ctx context.Context) ([]models.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		ticketSelect+` WHERE t.deleted = false ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()
	return collectTickets(rows)
}

// ListByClient returns live tickets whose project is assigned to the client.
func (r *PostgresTicketRepository) ListByClient(ctx context.Context, clientID string) ([]models.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, ticketSelect+`
		JOIN projects p ON p.id = t.project_id
		WHERE t.deleted = false AND p.client_id = $1
		ORDER BY t.created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client tickets: %w", err)
	}
	defer rows.Close()
	return collectTickets(rows)
}

func collectTickets(rows *sql.Rows) ([]models.Ticket, error) {
	var out []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// ClientOwns reports whether the live ticket sits on a project assigned
// to the client.
func (r *PostgresTicketRepository) ClientOwns(ctx context.Context, ticketID, clientID string) (bool, error) {
	var owns bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tickets t
			JOIN projects p ON p.id = t.project_id
			WHERE t.id = $1 AND p.client_id = $2 AND t.deleted = false
		)`, ticketID, clientID).Scan(&owns)
	if err != nil {
		return false, fmt.Errorf("check ticket owner: %w", err)
	}
	return owns, nil
}

// Get returns a single live ticket with its comments and attachments.
func (r *PostgresTicketRepository) Get(ctx context.Context, id string) (*models.Ticket, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx,
		ticketSelect+` WHERE t.id = $1 AND t.deleted = false`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	crows, err := r.DB.QueryContext(ctx, `
		SELECT user_name, message, created_at
		FROM comments WHERE ticket_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var c models.Comment
		if err := crows.Scan(&c.User, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		t.Comments = append(t.Comments, c)
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	arows, err := r.DB.QueryContext(ctx, `
		SELECT file_name, url
		FROM attachments WHERE ticket_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer arows.Close()
	for arows.Next() {
		var a models.Attachment
		if err := arows.Scan(&a.FileName, &a.URL); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		t.Attachments = append(t.Attachments, a)
	}
	return t, arows.Err()
}

// Create inserts a new ticket in the open state and returns it.
func (r *PostgresTicketRepository) Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	id := uuid.NewString()
	var assigned any
	if t.AssignedTo != nil {
		assigned = t.AssignedTo.ID
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tickets (id, subject, details, priority, status, project_id, created_by, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, t.Subject, t.Details, t.Priority, models.TicketOpen, t.ProjectID, t.CreatedBy, assigned)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return r.Get(ctx, id)
}

// Update replaces the mutable ticket fields.
func (r *PostgresTicketRepository) Update(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	var assigned any
	if t.AssignedTo != nil {
		assigned = t.AssignedTo.ID
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE tickets
		SET subject = $1, details = $2, priority = $3, status = $4, assigned_to = $5,
		    updated_at = now()
		WHERE id = $6 AND deleted = false`,
		t.Subject, t.Details, t.Priority, t.Status, assigned, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, t.ID)
}

// UpdateStatus sets only the ticket status.
func (r *PostgresTicketRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE tickets SET status = $1, updated_at = now()
		WHERE id = $2 AND deleted = false`, status, id)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the ticket deleted; the cleaner purges it later.
func (r *PostgresTicketRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE tickets SET deleted = true, updated_at = now()
		WHERE id = $1 AND deleted = false`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddComment appends a comment to the ticket.
func (r *PostgresTicketRepository) AddComment(ctx context.Context, ticketID, user, message string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO comments (id, ticket_id, user_name, message)
		VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), ticketID, user, message)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

// AddAttachment records an uploaded file against the ticket.
func (r *PostgresTicketRepository) AddAttachment(ctx context.Context, ticketID string, a models.Attachment) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO attachments (id, ticket_id, file_name, url)
		VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), ticketID, a.FileName, a.URL)
	if err != nil {
		return fmt.Errorf("add attachment: %w", err)
	}
	return nil
}
