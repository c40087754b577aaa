package panel

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alpsupport/ticketdesk/internal/client/api"
	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// ClientsPanel is the admin's client account manager.
type ClientsPanel struct {
	api   *api.Client
	guard *InFlightGuard

	clients []models.User
}

// NewClientsPanel constructs a ClientsPanel.
func NewClientsPanel(c *api.Client, guard *InFlightGuard) *ClientsPanel {
	return &ClientsPanel{api: c, guard: guard}
}

// Refresh reloads the client account list.
func (p *ClientsPanel) Refresh(ctx context.Context, sess session.Session) error {
	clients, err := p.api.ListUsers(ctx, sess, models.RoleClient)
	if err != nil {
		return err
	}
	p.clients = clients
	return nil
}

// Render writes the client list to w.
func (p *ClientsPanel) Render(w io.Writer) {
	if len(p.clients) == 0 {
		fmt.Fprintln(w, "No clients found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE")
	for _, c := range p.clients {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	tw.Flush()
}

// Create registers a new client account.
func (p *ClientsPanel) Create(ctx context.Context, sess session.Session, name, email, phone, password string) (*models.User, error) {
	release, err := p.guard.Start("create-client", email)
	if err != nil {
		return nil, err
	}
	defer release()

	return p.api.Register(ctx, name, email, phone, password, models.RoleClient)
}

// Update edits a client's profile fields.
func (p *ClientsPanel) Update(ctx context.Context, sess session.Session, id, name, email, phone string) (*models.User, error) {
	release, err := p.guard.Start("update-client", id)
	if err != nil {
		return nil, err
	}
	defer release()

	return p.api.UpdateUser(ctx, sess, id, name, email, phone)
}

// Delete removes a client account.
func (p *ClientsPanel) Delete(ctx context.Context, sess session.Session, id string) error {
	release, err := p.guard.Start("delete-client", id)
	if err != nil {
		return err
	}
	defer release()

	return p.api.DeleteUser(ctx, sess, id)
}
