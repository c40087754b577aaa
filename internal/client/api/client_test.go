package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

func adminSession() session.Session {
	return session.Session{Role: models.RoleAdmin, Token: "t1"}
}

func TestClient_LoginDecodesTokenAndUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "t1",
			"user":  models.User{ID: "u1", Role: models.RoleAdmin},
		})
	}))
	defer srv.Close()

	res, err := New(srv.URL).Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "t1", res.Token)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
}

func TestClient_AuthenticatedCallCarriesBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]models.Ticket{})
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListTickets(context.Background(), adminSession())
	require.NoError(t, err)
}

func TestClient_EmptySessionFailsClosed(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListTickets(context.Background(), session.Session{Role: models.RoleAdmin})
	assert.True(t, errors.Is(err, session.ErrNoSession))
	assert.False(t, called, "no request may leave the client without a token")

	_, err = c.UploadAttachment(context.Background(), session.Session{}, "t1", "log.txt", strings.NewReader("x"))
	assert.True(t, errors.Is(err, session.ErrNoSession))
	assert.False(t, called)
}

func TestClient_SurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"msg": "subject is required"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateTicket(context.Background(), adminSession(), TicketForm{})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "subject is required", apiErr.Error())
}

func TestClient_CreateTicketThenUpload(t *testing.T) {
	var uploads int
	var uploadPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/tickets":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Ticket{ID: "t42", Subject: "Broken build"})
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/upload/ticket/"):
			uploads++
			uploadPath = r.URL.Path

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "log.txt", header.Filename)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Attachment{FileName: "log.txt", URL: "/uploads/abc_log.txt"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess := adminSession()

	ticket, err := c.CreateTicket(context.Background(), sess, TicketForm{Subject: "Broken build", ProjectID: "p1"})
	require.NoError(t, err)
	require.Equal(t, "t42", ticket.ID)

	a, err := c.UploadAttachment(context.Background(), sess, ticket.ID, "log.txt", strings.NewReader("boom"))
	require.NoError(t, err)

	assert.Equal(t, 1, uploads, "exactly one upload per attached file")
	assert.Equal(t, "/api/upload/ticket/t42", uploadPath, "upload must target the returned ticket id")
	assert.Equal(t, "/uploads/abc_log.txt", a.URL)
}

func TestClient_CreateTicketWithoutFileNeverUploads(t *testing.T) {
	var uploads int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/upload/") {
			uploads++
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Ticket{ID: "t1"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateTicket(context.Background(), adminSession(), TicketForm{Subject: "s", ProjectID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 0, uploads)
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).ListTickets(ctx, adminSession())
	assert.Error(t, err)
}
