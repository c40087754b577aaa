package panel

import (
	"context"
	"fmt"
	"io"

	"github.com/alpsupport/ticketdesk/internal/client/api"
	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// ProfilePanel shows and edits the signed-in user's own account.
type ProfilePanel struct {
	api   *api.Client
	guard *InFlightGuard
}

// NewProfilePanel constructs a ProfilePanel.
func NewProfilePanel(c *api.Client, guard *InFlightGuard) *ProfilePanel {
	return &ProfilePanel{api: c, guard: guard}
}

// Show writes the user's profile to w.
func (p *ProfilePanel) Show(ctx context.Context, sess session.Session, w io.Writer, userID string) error {
	u, err := p.api.GetUser(ctx, sess, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Name:  %s\nEmail: %s\nPhone: %s\nRole:  %s\n", u.Name, u.Email, u.Phone, u.Role)
	return nil
}

// Update edits the user's own profile fields.
func (p *ProfilePanel) Update(ctx context.Context, sess session.Session, userID, name, email, phone string) (*models.User, error) {
	release, err := p.guard.Start("update-profile", userID)
	if err != nil {
		return nil, err
	}
	defer release()

	return p.api.UpdateUser(ctx, sess, userID, name, email, phone)
}

// ChangePassword replaces the user's password.
func (p *ProfilePanel) ChangePassword(ctx context.Context, sess session.Session, userID, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	release, err := p.guard.Start("change-password", userID)
	if err != nil {
		return err
	}
	defer release()

	return p.api.ChangePassword(ctx, sess, userID, password)
}
