package panel

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alpsupport/ticketdesk/internal/client/api"
	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// DashboardData is one consistent snapshot of every dashboard widget.
type DashboardData struct {
	Stats             models.DashboardStats
	TicketsLast7Days  models.Series
	ClientsLast7Days  models.Series
	ProjectsByStatus  map[string]int
	TicketsByPriority map[string]int
}

// DashboardPanel loads the admin dashboard. The five widgets are
// independent endpoints fetched concurrently; each lands in its own
// slot, so the snapshot is the same whatever order the responses
// arrive in.
type DashboardPanel struct {
	api *api.Client
}

// NewDashboardPanel constructs a DashboardPanel.
func NewDashboardPanel(c *api.Client) *DashboardPanel {
	return &DashboardPanel{api: c}
}

// Load fetches all widgets concurrently. The first error wins; a
// partial dashboard is never returned.
func (p *DashboardPanel) Load(ctx context.Context, sess session.Session) (*DashboardData, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		data     DashboardData
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		stats, err := p.api.DashboardStats(ctx, sess)
		if err != nil {
			fail(err)
			return
		}
		data.Stats = *stats
	}()
	go func() {
		defer wg.Done()
		s, err := p.api.TicketsLast7Days(ctx, sess)
		if err != nil {
			fail(err)
			return
		}
		data.TicketsLast7Days = *s
	}()
	go func() {
		defer wg.Done()
		s, err := p.api.ClientsLast7Days(ctx, sess)
		if err != nil {
			fail(err)
			return
		}
		data.ClientsLast7Days = *s
	}()
	go func() {
		defer wg.Done()
		hist, err := p.api.ProjectsByStatus(ctx, sess)
		if err != nil {
			fail(err)
			return
		}
		data.ProjectsByStatus = hist
	}()
	go func() {
		defer wg.Done()
		hist, err := p.api.TicketsByPriority(ctx, sess)
		if err != nil {
			fail(err)
			return
		}
		data.TicketsByPriority = hist
	}()

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return &data, nil
}

// Render writes the dashboard snapshot to w.
func (p *DashboardPanel) Render(w io.Writer, d *DashboardData) {
	fmt.Fprintf(w, "Clients: %d  Projects: %d  Open tickets: %d  Resolved tickets: %d\n",
		d.Stats.TotalClients, d.Stats.TotalProjects, d.Stats.Tickets.Open, d.Stats.Tickets.Resolved)

	fmt.Fprintln(w, "\nTickets, last 7 days:")
	renderSeries(w, d.TicketsLast7Days)
	fmt.Fprintln(w, "\nNew clients, last 7 days:")
	renderSeries(w, d.ClientsLast7Days)

	fmt.Fprintln(w, "\nProjects by status:")
	for _, k := range []string{models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted} {
		fmt.Fprintf(w, "  %-10s %d\n", k, d.ProjectsByStatus[k])
	}
	fmt.Fprintln(w, "\nTickets by priority:")
	for _, k := range []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh} {
		fmt.Fprintf(w, "  %-10s %d\n", k, d.TicketsByPriority[k])
	}
}

func renderSeries(w io.Writer, s models.Series) {
	for i, label := range s.Labels {
		count := 0
		if i < len(s.Counts) {
			count = s.Counts[i]
		}
		fmt.Fprintf(w, "  %s  %d\n", label, count)
	}
}
