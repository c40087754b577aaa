package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alpsupport/ticketdesk/internal/models"
	"github.com/alpsupport/ticketdesk/internal/service"
)

// AuthService defines the account operations required by the HTTP handlers.
type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateUser(ctx context.Context, id, name, email, phone string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, password string) error
}

// AuthHandler handles registration, login, and user management endpoints.
type AuthHandler struct {
	AuthService AuthService
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Phone    string      `json:"phone"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	u, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password, req.Role)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusCreated, u)
}

// Login handles POST /api/auth/login. On success it returns the bearer
// token and the public profile; the client persists the token under the
// key matching the returned role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	tok, u, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	JSON(w, http.StatusOK, map[string]any{"token": tok, "user": u})
}

// ListUsers handles GET /api/auth/users?role=.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = models.RoleClient
	}

	users, err := h.AuthService.ListUsersByRole(r.Context(), role)
	if err != nil {
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	JSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/auth/users/{id}.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.AuthService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /api/auth/users/{id}.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	u, err := h.AuthService.UpdateUser(r.Context(), chi.URLParam(r, "id"), req.Name, req.Email, req.Phone)
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/auth/users/{id}.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"msg": "user deleted"})
}

// ChangePassword handles PUT /api/auth/users/{id}/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.AuthService.ChangePassword(r.Context(), chi.URLParam(r, "id"), req.Password); err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"msg": "password updated"})
}
