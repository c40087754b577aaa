package panel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/alpsupport/ticketdesk/internal/client/api"
	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// ErrNoPendingUpload is returned by RetryUpload when the ticket has no
// failed attachment waiting.
var ErrNoPendingUpload = errors.New("no pending upload for ticket")

// AttachmentFile is a file picked for a ticket, held in memory so a
// failed upload can be retried without re-picking.
type AttachmentFile struct {
	Name    string
	Content []byte
}

// TicketsPanel drives ticket creation and the dependent attachment
// upload. A ticket is created first; its attachment, if any, is a
// second call carrying the id the server returned. When that second
// call fails the ticket still exists, so the file is kept for an
// explicit retry instead of re-submitting the whole form.
type TicketsPanel struct {
	api   *api.Client
	guard *InFlightGuard

	mu      sync.Mutex
	pending map[string]AttachmentFile
	tickets []models.Ticket
}

// NewTicketsPanel constructs a TicketsPanel.
func NewTicketsPanel(c *api.Client, guard *InFlightGuard) *TicketsPanel {
	return &TicketsPanel{api: c, guard: guard, pending: make(map[string]AttachmentFile)}
}

// Refresh reloads the full ticket list (admin view).
func (p *TicketsPanel) Refresh(ctx context.Context, sess session.Session) error {
	tickets, err := p.api.ListTickets(ctx, sess)
	if err != nil {
		return err
	}
	p.tickets = tickets
	return nil
}

// RefreshMine reloads the signed-in client's tickets.
func (p *TicketsPanel) RefreshMine(ctx context.Context, sess session.Session) error {
	tickets, err := p.api.MyTickets(ctx, sess)
	if err != nil {
		return err
	}
	p.tickets = tickets
	return nil
}

// Get returns one ticket with its comments and attachments.
func (p *TicketsPanel) Get(ctx context.Context, sess session.Session, id string) (*models.Ticket, error) {
	return p.api.GetTicket(ctx, sess, id)
}

// Render writes the loaded tickets to w.
func (p *TicketsPanel) Render(w io.Writer) {
	if len(p.tickets) == 0 {
		fmt.Fprintln(w, "No tickets found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBJECT\tPRIORITY\tSTATUS\tPROJECT")
	for _, t := range p.tickets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Subject, t.Priority, t.Status, t.ProjectID)
	}
	tw.Flush()
}

// Create submits the ticket and, when a file was picked, uploads it
// against the returned ticket id. Without a file no upload request is
// made. If the upload fails the created ticket is returned together
// with the error, and the file is parked for RetryUpload.
func (p *TicketsPanel) Create(ctx context.Context, sess session.Session, form api.TicketForm, file *AttachmentFile) (*models.Ticket, *models.Attachment, error) {
	release, err := p.guard.Start("create-ticket", form.Subject)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	ticket, err := p.api.CreateTicket(ctx, sess, form)
	if err != nil {
		return nil, nil, err
	}
	if file == nil {
		return ticket, nil, nil
	}

	a, err := p.api.UploadAttachment(ctx, sess, ticket.ID, file.Name, bytes.NewReader(file.Content))
	if err != nil {
		p.park(ticket.ID, *file)
		return ticket, nil, fmt.Errorf("ticket %s created but upload failed: %w", ticket.ID, err)
	}
	return ticket, a, nil
}

// RetryUpload re-sends the parked file for ticketID.
func (p *TicketsPanel) RetryUpload(ctx context.Context, sess session.Session, ticketID string) (*models.Attachment, error) {
	p.mu.Lock()
	file, ok := p.pending[ticketID]
	p.mu.Unlock()
	if !ok {
		return nil, ErrNoPendingUpload
	}

	release, err := p.guard.Start("upload", ticketID)
	if err != nil {
		return nil, err
	}
	defer release()

	a, err := p.api.UploadAttachment(ctx, sess, ticketID, file.Name, bytes.NewReader(file.Content))
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	delete(p.pending, ticketID)
	p.mu.Unlock()
	return a, nil
}

// HasPendingUpload reports whether ticketID has a parked file.
func (p *TicketsPanel) HasPendingUpload(ticketID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[ticketID]
	return ok
}

func (p *TicketsPanel) park(ticketID string, file AttachmentFile) {
	p.mu.Lock()
	p.pending[ticketID] = file
	p.mu.Unlock()
}

// Comment appends a comment and returns the refreshed ticket.
func (p *TicketsPanel) Comment(ctx context.Context, sess session.Session, ticketID, message string) (*models.Ticket, error) {
	release, err := p.guard.Start("comment", ticketID)
	if err != nil {
		return nil, err
	}
	defer release()

	return p.api.CommentTicket(ctx, sess, ticketID, message)
}

// SetStatus moves the ticket to a new status.
func (p *TicketsPanel) SetStatus(ctx context.Context, sess session.Session, ticketID, status string) error {
	release, err := p.guard.Start("status", ticketID)
	if err != nil {
		return err
	}
	defer release()

	return p.api.SetTicketStatus(ctx, sess, ticketID, status)
}

// Update edits a ticket.
func (p *TicketsPanel) Update(ctx context.Context, sess session.Session, id string, form api.TicketForm) (*models.Ticket, error) {
	release, err := p.guard.Start("update-ticket", id)
	if err != nil {
		return nil, err
	}
	defer release()

	return p.api.UpdateTicket(ctx, sess, id, form)
}

// Delete removes a ticket.
func (p *TicketsPanel) Delete(ctx context.Context, sess session.Session, id string) error {
	release, err := p.guard.Start("delete-ticket", id)
	if err != nil {
		return err
	}
	defer release()

	return p.api.DeleteTicket(ctx, sess, id)
}
