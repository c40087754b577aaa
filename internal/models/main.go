// Package models defines the core data structures exchanged between the
// ticketdesk client, server, and database.
package models

import "time"

// Role identifies the capability set of a user session.
type Role string

const (
	// RoleAdmin can manage clients, projects, and tickets.
	RoleAdmin Role = "Admin"
	// RoleClient sees assigned projects and owns its tickets.
	RoleClient Role = "Client"
)

// Project status values.
const (
	ProjectActive    = "active"
	ProjectOnHold    = "on-hold"
	ProjectCompleted = "completed"
)

// Ticket status values.
const (
	TicketOpen     = "open"
	TicketPending  = "pending"
	TicketResolved = "resolved"
)

// Ticket priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// User represents an administrator or client account.
// The password hash never leaves the server.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project is a unit of work an admin may assign to exactly one client.
// Client stays nil until assignment.
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Client      *User      `json:"client,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Ticket is raised by an admin against a project and worked by the
// project's client.
type Ticket struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	Details     string       `json:"details,omitempty"`
	Priority    string       `json:"priority"`
	Status      string       `json:"status"`
	ProjectID   string       `json:"project"`
	CreatedBy   string       `json:"createdBy"`
	AssignedTo  *User        `json:"assignedTo,omitempty"`
	Comments    []Comment    `json:"comments,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Comment is an append-only ticket message, ordered by insertion.
type Comment struct {
	User      string    `json:"user"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment is a file linked to a ticket after a successful upload.
type Attachment struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// DashboardStats is the aggregate card row on the admin dashboard.
type DashboardStats struct {
	TotalClients  int          `json:"totalClients"`
	TotalProjects int          `json:"totalProjects"`
	Tickets       TicketCounts `json:"tickets"`
}

// TicketCounts splits the ticket population by open and resolved state.
type TicketCounts struct {
	Open     int `json:"open"`
	Resolved int `json:"resolved"`
}

// Series is a label-aligned count series, e.g. tickets per day over the
// last seven days, oldest label first.
type Series struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}
