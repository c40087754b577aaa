package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// TicketForm carries create/update fields.
type TicketForm struct {
	Subject   string `json:"subject"`
	Details   string `json:"details"`
	ProjectID string `json:"project"`
	Priority  string `json:"priority"`
	Status    string `json:"status,omitempty"`
}

// ListTickets returns every live ticket.
func (c *Client) ListTickets(ctx context.Context, sess session.Session) ([]models.Ticket, error) {
	var out []models.Ticket
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/tickets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyTickets returns tickets on the signed-in client's projects.
func (c *Client) MyTickets(ctx context.Context, sess session.Session) ([]models.Ticket, error) {
	var out []models.Ticket
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/tickets/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTicket returns one ticket with comments and attachments.
func (c *Client) GetTicket(ctx context.Context, sess session.Session, id string) (*models.Ticket, error) {
	var out models.Ticket
	if err := c.doAuth(ctx, sess, http.MethodGet, "/api/tickets/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTicket creates a ticket and returns it with its server id.
// Attaching a file is a separate, dependent call; see UploadAttachment.
func (c *Client) CreateTicket(ctx context.Context, sess session.Session, form TicketForm) (*models.Ticket, error) {
	var out models.Ticket
	if err := c.doAuth(ctx, sess, http.MethodPost, "/api/tickets", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTicket updates a ticket's fields.
func (c *Client) UpdateTicket(ctx context.Context, sess session.Session, id string, form TicketForm) (*models.Ticket, error) {
	var out models.Ticket
	if err := c.doAuth(ctx, sess, http.MethodPut, "/api/tickets/"+id, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTicket removes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, sess session.Session, id string) error {
	return c.doAuth(ctx, sess, http.MethodDelete, "/api/tickets/"+id, nil, nil)
}

// CommentTicket appends a comment and returns the refreshed ticket.
func (c *Client) CommentTicket(ctx context.Context, sess session.Session, id, message string) (*models.Ticket, error) {
	var out models.Ticket
	err := c.doAuth(ctx, sess, http.MethodPost, "/api/tickets/"+id+"/comment", map[string]string{
		"message": message,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTicketStatus moves a ticket to the given status.
func (c *Client) SetTicketStatus(ctx context.Context, sess session.Session, id, status string) error {
	return c.doAuth(ctx, sess, http.MethodPut, "/api/tickets/"+id+"/status", map[string]string{
		"status": status,
	}, nil)
}

// UploadAttachment sends the file as the multipart "file" field and
// returns the recorded attachment.
func (c *Client) UploadAttachment(ctx context.Context, sess session.Session, ticketID, fileName string, src io.Reader) (*models.Attachment, error) {
	if sess.Token == "" {
		return nil, session.ErrNoSession
	}

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(fw, src); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload/ticket/"+ticketID, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return nil, apiError(res)
	}
	var out models.Attachment
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
