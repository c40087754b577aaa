package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpsupport/ticketdesk/internal/client/api"
	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// dashboardHandler serves fixed widget data with a per-endpoint delay
// so tests can force responses to arrive in any order.
func dashboardHandler(t *testing.T, delays map[string]time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d, ok := delays[r.URL.Path]; ok {
			time.Sleep(d)
		}
		switch r.URL.Path {
		case "/api/dashboard/stats":
			json.NewEncoder(w).Encode(models.DashboardStats{
				TotalClients:  3,
				TotalProjects: 5,
				Tickets:       models.TicketCounts{Open: 2, Resolved: 7},
			})
		case "/api/dashboard/tickets-last-7-days":
			json.NewEncoder(w).Encode(models.Series{Labels: []string{"Aug 25"}, Counts: []int{4}})
		case "/api/dashboard/clients-last-7-days":
			json.NewEncoder(w).Encode(models.Series{Labels: []string{"Aug 25"}, Counts: []int{1}})
		case "/api/dashboard/projects-by-status":
			json.NewEncoder(w).Encode(map[string]int{"active": 4, "on-hold": 1, "completed": 0})
		case "/api/dashboard/tickets-by-priority":
			json.NewEncoder(w).Encode(map[string]int{"low": 3, "medium": 4, "high": 2})
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}
}

func loadDashboard(t *testing.T, delays map[string]time.Duration) *DashboardData {
	t.Helper()
	srv := httptest.NewServer(dashboardHandler(t, delays))
	defer srv.Close()

	p := NewDashboardPanel(api.New(srv.URL))
	data, err := p.Load(context.Background(), session.Session{Role: models.RoleAdmin, Token: "t1"})
	require.NoError(t, err)
	return data
}

func TestDashboardPanel_Load(t *testing.T) {
	data := loadDashboard(t, nil)

	assert.Equal(t, 3, data.Stats.TotalClients)
	assert.Equal(t, 5, data.Stats.TotalProjects)
	assert.Equal(t, 2, data.Stats.Tickets.Open)
	assert.Equal(t, []int{4}, data.TicketsLast7Days.Counts)
	assert.Equal(t, []int{1}, data.ClientsLast7Days.Counts)
	assert.Equal(t, 4, data.ProjectsByStatus["active"])
	assert.Equal(t, 2, data.TicketsByPriority["high"])
}

func TestDashboardPanel_ArrivalOrderIndependent(t *testing.T) {
	fast := loadDashboard(t, nil)

	// Invert the natural response order: stats last, histograms first.
	slowStats := loadDashboard(t, map[string]time.Duration{
		"/api/dashboard/stats":               50 * time.Millisecond,
		"/api/dashboard/tickets-last-7-days": 30 * time.Millisecond,
	})
	slowHist := loadDashboard(t, map[string]time.Duration{
		"/api/dashboard/tickets-by-priority": 50 * time.Millisecond,
		"/api/dashboard/clients-last-7-days": 30 * time.Millisecond,
	})

	assert.Equal(t, fast, slowStats)
	assert.Equal(t, fast, slowHist)
}

func TestDashboardPanel_FirstErrorWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/dashboard/stats" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"msg": "db down"})
			return
		}
		dashboardHandler(t, nil)(w, r)
	}))
	defer srv.Close()

	p := NewDashboardPanel(api.New(srv.URL))
	data, err := p.Load(context.Background(), session.Session{Role: models.RoleAdmin, Token: "t1"})
	require.Error(t, err)
	assert.Nil(t, data, "partial dashboards are never returned")
}

func TestDashboardPanel_FailsClosedWithoutSession(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := NewDashboardPanel(api.New(srv.URL))
	_, err := p.Load(context.Background(), session.Session{Role: models.RoleAdmin})
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.False(t, called)
}
