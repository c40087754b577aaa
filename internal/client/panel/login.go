package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/alpsupport/ticketdesk/internal/client/api"
	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// Landing identifies the shell a role drops into after login.
type Landing string

const (
	LandingAdminDashboard Landing = "admin-dashboard"
	LandingClientHome     Landing = "client-home"
)

// LoginPanel signs users in and records the session under the role's
// own token key.
type LoginPanel struct {
	api   *api.Client
	store *session.Store
	guard *InFlightGuard
}

// NewLoginPanel constructs a LoginPanel.
func NewLoginPanel(c *api.Client, store *session.Store, guard *InFlightGuard) *LoginPanel {
	return &LoginPanel{api: c, store: store, guard: guard}
}

// Submit authenticates and persists the returned token under the key
// belonging to the user's role. The other role's session is untouched.
// A second submit for the same email while one is pending returns
// ErrInFlight.
func (p *LoginPanel) Submit(ctx context.Context, email, password string) (*models.User, Landing, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required")
	}

	release, err := p.guard.Start("login", email)
	if err != nil {
		return nil, "", err
	}
	defer release()

	res, err := p.api.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	if err := p.store.Set(res.User.Role, res.Token); err != nil {
		return nil, "", fmt.Errorf("persist session: %w", err)
	}

	switch res.User.Role {
	case models.RoleAdmin:
		return &res.User, LandingAdminDashboard, nil
	default:
		return &res.User, LandingClientHome, nil
	}
}

// Logout clears only the given role's session.
func (p *LoginPanel) Logout(role models.Role) error {
	return p.store.Clear(role)
}
