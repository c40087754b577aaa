package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/alpsupport/ticketdesk/internal/models"
	"github.com/alpsupport/ticketdesk/internal/repository"
)

// TicketRepository defines the persistence operations required by
// TicketService.
type TicketRepository interface {
	ListAll(ctx context.Context) ([]models.Ticket, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Ticket, error)
	ClientOwns(ctx context.Context, ticketID, clientID string) (bool, error)
	Get(ctx context.Context, id string) (*models.Ticket, error)
	Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error)
	Update(ctx context.Context, t *models.Ticket) (*models.Ticket, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SoftDelete(ctx context.Context, id string) error
	AddComment(ctx context.Context, ticketID, user, message string) error
	AddAttachment(ctx context.Context, ticketID string, a models.Attachment) error
}

// TicketService handles ticket lifecycle, comments, and attachments.
type TicketService struct {
	repo      TicketRepository
	uploadDir string
}

// NewTicketService constructs a TicketService storing attachment files
// under uploadDir.
func NewTicketService(repo TicketRepository, uploadDir string) *TicketService {
	return &TicketService{repo: repo, uploadDir: uploadDir}
}

func validPriority(p string) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

func validTicketStatus(s string) bool {
	switch s {
	case models.TicketOpen, models.TicketPending, models.TicketResolved:
		return true
	}
	return false
}

// ListAll returns every live ticket.
func (s *TicketService) ListAll(ctx context.Context) ([]models.Ticket, error) {
	return s.repo.ListAll(ctx)
}

// ListByClient returns the client's tickets.
func (s *TicketService) ListByClient(ctx context.Context, clientID string) ([]models.Ticket, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// authorize enforces the owning-client restriction. An empty ownerID
// means the caller is an admin and sees every ticket; otherwise the
// ticket must sit on one of the client's projects. Foreign tickets look
// like missing ones.
func (s *TicketService) authorize(ctx context.Context, ticketID, ownerID string) error {
	if ownerID == "" {
		return nil
	}
	owns, err := s.repo.ClientOwns(ctx, ticketID, ownerID)
	if err != nil {
		return err
	}
	if !owns {
		return repository.ErrNotFound
	}
	return nil
}

// Get returns a ticket with comments and attachments. ownerID, when
// set, restricts access to the owning client.
func (s *TicketService) Get(ctx context.Context, id, ownerID string) (*models.Ticket, error) {
	if err := s.authorize(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new ticket in the open state.
func (s *TicketService) Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	t.Subject = strings.TrimSpace(t.Subject)
	if t.Subject == "" {
		return nil, errors.New("subject is required")
	}
	if t.ProjectID == "" {
		return nil, errors.New("project is required")
	}
	if t.Priority == "" {
		t.Priority = models.PriorityLow
	}
	if !validPriority(t.Priority) {
		return nil, fmt.Errorf("unknown priority %q", t.Priority)
	}
	return s.repo.Create(ctx, t)
}

// Update validates and stores modified ticket fields.
func (s *TicketService) Update(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	t.Subject = strings.TrimSpace(t.Subject)
	if t.Subject == "" {
		return nil, errors.New("subject is required")
	}
	if !validPriority(t.Priority) {
		return nil, fmt.Errorf("unknown priority %q", t.Priority)
	}
	if !validTicketStatus(t.Status) {
		return nil, fmt.Errorf("unknown status %q", t.Status)
	}
	return s.repo.Update(ctx, t)
}

// UpdateStatus moves the ticket to the given status. ownerID, when set,
// restricts the change to the owning client.
func (s *TicketService) UpdateStatus(ctx context.Context, id, status, ownerID string) error {
	if !validTicketStatus(status) {
		return fmt.Errorf("unknown status %q", status)
	}
	if err := s.authorize(ctx, id, ownerID); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete soft-deletes the ticket.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// AddComment appends a comment authored by user. ownerID, when set,
// restricts commenting to the owning client.
func (s *TicketService) AddComment(ctx context.Context, ticketID, user, message, ownerID string) (*models.Ticket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("message is required")
	}
	if err := s.authorize(ctx, ticketID, ownerID); err != nil {
		return nil, err
	}
	if err := s.repo.AddComment(ctx, ticketID, user, message); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, ticketID)
}

// SaveAttachment writes the uploaded file to disk and records it against
// the ticket. The ticket must already exist; upload is a separate step
// from creation.
func (s *TicketService) SaveAttachment(ctx context.Context, ticketID, fileName string, src io.Reader) (*models.Attachment, error) {
	if _, err := s.repo.Get(ctx, ticketID); err != nil {
		return nil, err
	}

	fileName = filepath.Base(fileName)
	if fileName == "" || fileName == "." {
		return nil, errors.New("file name is required")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	stored := uuid.NewString() + "_" + fileName
	dst, err := os.Create(filepath.Join(s.uploadDir, stored))
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	a := models.Attachment{FileName: fileName, URL: "/uploads/" + stored}
	if err := s.repo.AddAttachment(ctx, ticketID, a); err != nil {
		return nil, err
	}
	return &a, nil
}
