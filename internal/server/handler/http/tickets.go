package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alpsupport/ticketdesk/internal/middleware"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// TicketService defines the ticket operations required by the HTTP
// handlers.
type TicketService interface {
	ListAll(ctx context.Context) ([]models.Ticket, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Ticket, error)
	Get(ctx context.Context, id, ownerID string) (*models.Ticket, error)
	Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error)
	Update(ctx context.Context, t *models.Ticket) (*models.Ticket, error)
	UpdateStatus(ctx context.Context, id, status, ownerID string) error
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, ticketID, user, message, ownerID string) (*models.Ticket, error)
	SaveAttachment(ctx context.Context, ticketID, fileName string, src io.Reader) (*models.Attachment, error)
}

// TicketsHandler handles ticket endpoints.
type TicketsHandler struct {
	TicketService TicketService
}

type ticketRequest struct {
	Subject   string `json:"subject"`
	Details   string `json:"details"`
	ProjectID string `json:"project"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
}

// List handles GET /api/tickets.
func (h *TicketsHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.TicketService.ListAll(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	JSON(w, http.StatusOK, tickets)
}

// My handles GET /api/tickets/my: tickets raised against projects
// assigned to the authenticated client.
func (h *TicketsHandler) My(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetUserIDFromContext(r.Context())
	tickets, err := h.TicketService.ListByClient(r.Context(), clientID)
	if err != nil {
		serviceError(w, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	JSON(w, http.StatusOK, tickets)
}

// ownerRestriction returns the uid to scope ticket access to. Clients
// only reach tickets on their own projects; admins see every ticket.
func ownerRestriction(r *http.Request) string {
	if middleware.GetRoleFromContext(r.Context()) == models.RoleClient {
		return middleware.GetUserIDFromContext(r.Context())
	}
	return ""
}

// Get handles GET /api/tickets/{id}.
func (h *TicketsHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.TicketService.Get(r.Context(), chi.URLParam(r, "id"), ownerRestriction(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, t)
}

// Create handles POST /api/tickets.
func (h *TicketsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.TicketService.Create(r.Context(), &models.Ticket{
		Subject:   req.Subject,
		Details:   req.Details,
		ProjectID: req.ProjectID,
		Priority:  req.Priority,
		CreatedBy: middleware.GetUserIDFromContext(r.Context()),
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/tickets/{id}.
func (h *TicketsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.TicketService.Update(r.Context(), &models.Ticket{
		ID:        chi.URLParam(r, "id"),
		Subject:   req.Subject,
		Details:   req.Details,
		ProjectID: req.ProjectID,
		Priority:  req.Priority,
		Status:    req.Status,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/tickets/{id}.
func (h *TicketsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.TicketService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"msg": "ticket deleted"})
}

// Comment handles POST /api/tickets/{id}/comment and returns the
// refreshed ticket.
func (h *TicketsHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	author := middleware.GetUserIDFromContext(r.Context())
	t, err := h.TicketService.AddComment(r.Context(), chi.URLParam(r, "id"), author, req.Message, ownerRestriction(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, t)
}

// Status handles PUT /api/tickets/{id}/status.
func (h *TicketsHandler) Status(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.TicketService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, ownerRestriction(r)); err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"msg": "status updated"})
}
