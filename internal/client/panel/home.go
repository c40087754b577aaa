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

// HomeData is the client landing summary: assigned projects plus the
// tickets raised against them.
type HomeData struct {
	Projects []models.Project
	Tickets  []models.Ticket
}

// HomePanel is the client's landing view.
type HomePanel struct {
	api *api.Client
}

// NewHomePanel constructs a HomePanel.
func NewHomePanel(c *api.Client) *HomePanel {
	return &HomePanel{api: c}
}

// Load fetches the client's projects and tickets concurrently.
func (p *HomePanel) Load(ctx context.Context, sess session.Session) (*HomeData, error) {
	var (
		data     HomeData
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		projects, err := p.api.MyProjects(ctx, sess)
		if err != nil {
			fail(err)
			return
		}
		data.Projects = projects
	}()
	go func() {
		defer wg.Done()
		tickets, err := p.api.MyTickets(ctx, sess)
		if err != nil {
			fail(err)
			return
		}
		data.Tickets = tickets
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &data, nil
}

// Render writes the summary to w.
func (p *HomePanel) Render(w io.Writer, d *HomeData) {
	open := 0
	for _, t := range d.Tickets {
		if t.Status == models.TicketOpen {
			open++
		}
	}
	fmt.Fprintf(w, "Assigned projects: %d  Tickets: %d (%d open)\n", len(d.Projects), len(d.Tickets), open)

	for _, pr := range d.Projects {
		fmt.Fprintf(w, "  [%s] %s (%s)\n", pr.ID, pr.Title, pr.Status)
	}
}
