// Package main is the ticketdesk terminal client. It keeps one session
// per role, so an admin and a client can stay signed in side by side,
// and every command names the role it acts as.
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alpsupport/ticketdesk/internal/client/api"
	"github.com/alpsupport/ticketdesk/internal/client/panel"
	"github.com/alpsupport/ticketdesk/internal/client/session"
	"github.com/alpsupport/ticketdesk/internal/models"
)

var (
	version   string
	buildDate string
)

// app bundles the panels behind the REPL.
type app struct {
	store     *session.Store
	login     *panel.LoginPanel
	dashboard *panel.DashboardPanel
	home      *panel.HomePanel
	projects  *panel.ProjectsPanel
	tickets   *panel.TicketsPanel
	clients   *panel.ClientsPanel
	profile   *panel.ProfilePanel
}

func newApp(baseURL, tokenFile string) (*app, error) {
	store := session.NewStore(tokenFile)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	c := api.New(baseURL)
	guard := panel.NewInFlightGuard()

	return &app{
		store:     store,
		login:     panel.NewLoginPanel(c, store, guard),
		dashboard: panel.NewDashboardPanel(c),
		home:      panel.NewHomePanel(c),
		projects:  panel.NewProjectsPanel(c, guard),
		tickets:   panel.NewTicketsPanel(c, guard),
		clients:   panel.NewClientsPanel(c, guard),
		profile:   panel.NewProfilePanel(c, guard),
	}, nil
}

// sessionFor resolves the stored credential for a role, telling the
// user to sign in when there is none.
func (a *app) sessionFor(role models.Role) (session.Session, bool) {
	sess, err := a.store.Session(role)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			fmt.Printf("Not signed in as %s. Use: login <email> <password>\n", role)
		} else {
			fmt.Println("Session error:", err)
		}
		return session.Session{}, false
	}
	return sess, true
}

func parseRole(s string) (models.Role, bool) {
	switch strings.ToLower(s) {
	case "admin":
		return models.RoleAdmin, true
	case "client":
		return models.RoleClient, true
	}
	fmt.Println("Role must be admin or client")
	return "", false
}

func printHelp() {
	fmt.Print(`Commands:
  login <email> <password>
  logout <admin|client>
  dashboard
  home
  projects [query] [status]            (admin)
  my-projects                          (client)
  create-project <title...>            (admin)
  update-project <id> <status> <title...>           (admin)
  delete-project <id>                  (admin)
  assign <projectID> <clientID>        (admin)
  clients                              (admin)
  create-client <name> <email> <phone> <password>   (admin)
  update-client <id> <name> <email> <phone>         (admin)
  delete-client <id>                   (admin)
  tickets                              (admin)
  my-tickets                           (client)
  ticket <admin|client> <id>
  create-ticket <projectID> <subject> [filePath]
  retry-upload <ticketID>
  update-ticket <id> <priority> <status> <subject...>   (admin)
  delete-ticket <id>                   (admin)
  comment <admin|client> <ticketID> <message...>
  status <ticketID> <open|pending|resolved>   (client)
  profile <admin|client> <userID>
  update-profile <admin|client> <userID> <name> <email> <phone>
  passwd <admin|client> <userID> <newPassword>
  exit
`)
}

func (a *app) repl() {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("ticketdesk> ")
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp()

		case "login":
			if len(args) < 3 {
				fmt.Println("Usage: login <email> <password>")
				continue
			}
			user, landing, err := a.login.Submit(ctx, args[1], args[2])
			if err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			fmt.Printf("Signed in as %s (%s); opening %s\n", user.Email, user.Role, landing)

		case "logout":
			if len(args) < 2 {
				fmt.Println("Usage: logout <admin|client>")
				continue
			}
			role, ok := parseRole(args[1])
			if !ok {
				continue
			}
			if err := a.login.Logout(role); err != nil {
				fmt.Println("Logout failed:", err)
				continue
			}
			fmt.Printf("Signed out of the %s session\n", role)

		case "dashboard":
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			data, err := a.dashboard.Load(ctx, sess)
			if err != nil {
				fmt.Println("Dashboard failed:", err)
				continue
			}
			a.dashboard.Render(os.Stdout, data)

		case "home":
			sess, ok := a.sessionFor(models.RoleClient)
			if !ok {
				continue
			}
			data, err := a.home.Load(ctx, sess)
			if err != nil {
				fmt.Println("Home failed:", err)
				continue
			}
			a.home.Render(os.Stdout, data)

		case "projects":
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			if err := a.projects.Refresh(ctx, sess, api.ProjectQuery{}); err != nil {
				fmt.Println("Projects failed:", err)
				continue
			}
			query, status := "", ""
			if len(args) > 1 {
				query = args[1]
			}
			if len(args) > 2 {
				status = args[2]
			}
			a.projects.Render(os.Stdout, query, status)

		case "my-projects":
			sess, ok := a.sessionFor(models.RoleClient)
			if !ok {
				continue
			}
			if err := a.projects.RefreshMine(ctx, sess); err != nil {
				fmt.Println("Projects failed:", err)
				continue
			}
			a.projects.Render(os.Stdout, "", "")

		case "create-project":
			if len(args) < 2 {
				fmt.Println("Usage: create-project <title...>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			project, err := a.projects.Create(ctx, sess, api.ProjectForm{Title: strings.Join(args[1:], " ")})
			if err != nil {
				fmt.Println("Create failed:", err)
				continue
			}
			fmt.Printf("Project %s created (%s)\n", project.ID, project.Status)

		case "update-project":
			if len(args) < 4 {
				fmt.Println("Usage: update-project <id> <status> <title...>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			project, err := a.projects.Update(ctx, sess, args[1],
				api.ProjectForm{Status: args[2], Title: strings.Join(args[3:], " ")})
			if err != nil {
				fmt.Println("Update failed:", err)
				continue
			}
			fmt.Printf("Project %s updated\n", project.ID)

		case "delete-project":
			if len(args) < 2 {
				fmt.Println("Usage: delete-project <id>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			if err := a.projects.Delete(ctx, sess, args[1]); err != nil {
				fmt.Println("Delete failed:", err)
				continue
			}
			fmt.Println("Project deleted")

		case "assign":
			if len(args) < 3 {
				fmt.Println("Usage: assign <projectID> <clientID>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			// Reload so the already-assigned check sees current state.
			if err := a.projects.Refresh(ctx, sess, api.ProjectQuery{}); err != nil {
				fmt.Println("Assign failed:", err)
				continue
			}
			if err := a.projects.Assign(ctx, sess, args[1], args[2]); err != nil {
				fmt.Println("Assign failed:", err)
				continue
			}
			fmt.Println("Project assigned")

		case "clients":
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			if err := a.clients.Refresh(ctx, sess); err != nil {
				fmt.Println("Clients failed:", err)
				continue
			}
			a.clients.Render(os.Stdout)

		case "create-client":
			if len(args) < 5 {
				fmt.Println("Usage: create-client <name> <email> <phone> <password>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			user, err := a.clients.Create(ctx, sess, args[1], args[2], args[3], args[4])
			if err != nil {
				fmt.Println("Create failed:", err)
				continue
			}
			fmt.Printf("Client %s created (%s)\n", user.ID, user.Email)

		case "update-client":
			if len(args) < 5 {
				fmt.Println("Usage: update-client <id> <name> <email> <phone>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			user, err := a.clients.Update(ctx, sess, args[1], args[2], args[3], args[4])
			if err != nil {
				fmt.Println("Update failed:", err)
				continue
			}
			fmt.Printf("Client %s updated\n", user.ID)

		case "delete-client":
			if len(args) < 2 {
				fmt.Println("Usage: delete-client <id>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			if err := a.clients.Delete(ctx, sess, args[1]); err != nil {
				fmt.Println("Delete failed:", err)
				continue
			}
			fmt.Println("Client deleted")

		case "tickets":
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			if err := a.tickets.Refresh(ctx, sess); err != nil {
				fmt.Println("Tickets failed:", err)
				continue
			}
			a.tickets.Render(os.Stdout)

		case "my-tickets":
			sess, ok := a.sessionFor(models.RoleClient)
			if !ok {
				continue
			}
			if err := a.tickets.RefreshMine(ctx, sess); err != nil {
				fmt.Println("Tickets failed:", err)
				continue
			}
			a.tickets.Render(os.Stdout)

		case "create-ticket":
			if len(args) < 3 {
				fmt.Println("Usage: create-ticket <projectID> <subject> [filePath]")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			var file *panel.AttachmentFile
			if len(args) > 3 {
				content, err := os.ReadFile(args[3])
				if err != nil {
					fmt.Println("Read file failed:", err)
					continue
				}
				file = &panel.AttachmentFile{Name: filepath.Base(args[3]), Content: content}
			}
			ticket, attachment, err := a.tickets.Create(ctx, sess,
				api.TicketForm{ProjectID: args[1], Subject: args[2]}, file)
			if err != nil {
				fmt.Println("Create failed:", err)
				if ticket != nil {
					fmt.Printf("Ticket %s exists; run: retry-upload %s\n", ticket.ID, ticket.ID)
				}
				continue
			}
			fmt.Printf("Ticket %s created\n", ticket.ID)
			if attachment != nil {
				fmt.Printf("Attached %s (%s)\n", attachment.FileName, attachment.URL)
			}

		case "retry-upload":
			if len(args) < 2 {
				fmt.Println("Usage: retry-upload <ticketID>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			attachment, err := a.tickets.RetryUpload(ctx, sess, args[1])
			if err != nil {
				fmt.Println("Upload failed:", err)
				continue
			}
			fmt.Printf("Attached %s (%s)\n", attachment.FileName, attachment.URL)

		case "ticket":
			if len(args) < 3 {
				fmt.Println("Usage: ticket <admin|client> <id>")
				continue
			}
			role, ok := parseRole(args[1])
			if !ok {
				continue
			}
			sess, ok := a.sessionFor(role)
			if !ok {
				continue
			}
			a.showTicket(ctx, sess, args[2])

		case "update-ticket":
			if len(args) < 5 {
				fmt.Println("Usage: update-ticket <id> <priority> <status> <subject...>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			ticket, err := a.tickets.Update(ctx, sess, args[1], api.TicketForm{
				Priority: args[2],
				Status:   args[3],
				Subject:  strings.Join(args[4:], " "),
			})
			if err != nil {
				fmt.Println("Update failed:", err)
				continue
			}
			fmt.Printf("Ticket %s updated\n", ticket.ID)

		case "delete-ticket":
			if len(args) < 2 {
				fmt.Println("Usage: delete-ticket <id>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleAdmin)
			if !ok {
				continue
			}
			if err := a.tickets.Delete(ctx, sess, args[1]); err != nil {
				fmt.Println("Delete failed:", err)
				continue
			}
			fmt.Println("Ticket deleted")

		case "comment":
			if len(args) < 4 {
				fmt.Println("Usage: comment <admin|client> <ticketID> <message...>")
				continue
			}
			role, ok := parseRole(args[1])
			if !ok {
				continue
			}
			sess, ok := a.sessionFor(role)
			if !ok {
				continue
			}
			ticket, err := a.tickets.Comment(ctx, sess, args[2], strings.Join(args[3:], " "))
			if err != nil {
				fmt.Println("Comment failed:", err)
				continue
			}
			fmt.Printf("Ticket %s now has %d comments\n", ticket.ID, len(ticket.Comments))

		case "status":
			if len(args) < 3 {
				fmt.Println("Usage: status <ticketID> <open|pending|resolved>")
				continue
			}
			sess, ok := a.sessionFor(models.RoleClient)
			if !ok {
				continue
			}
			if err := a.tickets.SetStatus(ctx, sess, args[1], args[2]); err != nil {
				fmt.Println("Status failed:", err)
				continue
			}
			fmt.Println("Status updated")

		case "profile":
			if len(args) < 3 {
				fmt.Println("Usage: profile <admin|client> <userID>")
				continue
			}
			role, ok := parseRole(args[1])
			if !ok {
				continue
			}
			sess, ok := a.sessionFor(role)
			if !ok {
				continue
			}
			if err := a.profile.Show(ctx, sess, os.Stdout, args[2]); err != nil {
				fmt.Println("Profile failed:", err)
			}

		case "update-profile":
			if len(args) < 6 {
				fmt.Println("Usage: update-profile <admin|client> <userID> <name> <email> <phone>")
				continue
			}
			role, ok := parseRole(args[1])
			if !ok {
				continue
			}
			sess, ok := a.sessionFor(role)
			if !ok {
				continue
			}
			user, err := a.profile.Update(ctx, sess, args[2], args[3], args[4], args[5])
			if err != nil {
				fmt.Println("Update failed:", err)
				continue
			}
			fmt.Printf("Profile %s updated\n", user.ID)

		case "passwd":
			if len(args) < 4 {
				fmt.Println("Usage: passwd <admin|client> <userID> <newPassword>")
				continue
			}
			role, ok := parseRole(args[1])
			if !ok {
				continue
			}
			sess, ok := a.sessionFor(role)
			if !ok {
				continue
			}
			if err := a.profile.ChangePassword(ctx, sess, args[2], args[3]); err != nil {
				fmt.Println("Password change failed:", err)
				continue
			}
			fmt.Println("Password updated")

		case "exit":
			fmt.Println("Bye")
			return

		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (a *app) showTicket(ctx context.Context, sess session.Session, id string) {
	ticket, err := a.tickets.Get(ctx, sess, id)
	if err != nil {
		fmt.Println("Ticket failed:", err)
		return
	}
	fmt.Printf("[%s] %s\nPriority: %s  Status: %s  Project: %s\n",
		ticket.ID, ticket.Subject, ticket.Priority, ticket.Status, ticket.ProjectID)
	if ticket.Details != "" {
		fmt.Println(ticket.Details)
	}
	for _, cm := range ticket.Comments {
		fmt.Printf("  %s: %s\n", cm.User, cm.Message)
	}
	// Only the first attachment is surfaced, though all are stored.
	if len(ticket.Attachments) > 0 {
		at := ticket.Attachments[0]
		fmt.Printf("  attachment: %s (%s)\n", at.FileName, at.URL)
	}
}

func main() {
	var (
		baseURL   string
		tokenFile string
		showVer   bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&tokenFile, "tokens", "tokens.json", "path to the session token file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("ticketdesk client\nVersion: %s\nBuild Date: %s\n",
			cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	a, err := newApp(baseURL, tokenFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	a.repl()
}
