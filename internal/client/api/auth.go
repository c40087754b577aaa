package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// LoginResult is the server's response to a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates with email and password. It is the one public
// call besides Register and needs no session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, "", http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error) {
	var out models.User
	err := c.do(ctx, "", http.MethodPost, "/api/auth/register", map[string]any{
		"name":     name,
		"email":    email,
		"phone":    phone,
		"password": password,
		"role":     role,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns accounts with the given role.
func (c *Client) ListUsers(ctx context.Context, sess session.Session, role models.Role) ([]models.User, error) {
	var out []models.User
	path := "/api/auth/users?role=" + url.QueryEscape(string(role))
	if err := c.doAuth(ctx, sess, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser returns a single account.
func (c *Client) GetUser(ctx context.Context, sess session.Session, id string) (*models.User, error) {
	var out models.User
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/auth/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser updates an account's profile fields.
func (c *Client) UpdateUser(ctx context.Context, sess session.Session, id, name, email, phone string) (*models.User, error) {
	var out models.User
	err := c.doAuth(ctx, sess, http.MethodPut, "/api/auth/users/"+id, map[string]string{
		"name":  name,
		"email": email,
		"phone": phone,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, sess session.Session, id string) error {
	return c.doAuth(ctx, sess, http.MethodDelete, "/api/auth/users/"+id, nil, nil)
}

// ChangePassword replaces the account's password.
func (c *Client) ChangePassword(ctx context.Context, sess session.Session, id, password string) error {
	return c.doAuth(ctx, sess, http.MethodPut, "/api/auth/users/"+id+"/password", map[string]string{
		"password": password,
	}, nil)
}
