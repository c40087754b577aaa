package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/alpsupport/ticketdesk/internal/middleware"
	"github.com/alpsupport/ticketdesk/internal/models"
)

// RouterConfig carries the non-handler dependencies of the router.
type RouterConfig struct {
	SessionSecret string
	UploadDir     string
	Origin        string
	Logger        *zap.Logger
}

// NewRouter constructs the HTTP handler serving the ticketdesk API.
//
// Routes:
//
//	POST   /api/auth/register              → public
//	POST   /api/auth/login                 → public
//	GET    /api/auth/users                 → admin
//	GET    /api/auth/users/{id}            → admin
//	PUT    /api/auth/users/{id}            → admin
//	DELETE /api/auth/users/{id}            → admin
//	PUT    /api/auth/users/{id}/password   → admin or client (own profile)
//	/api/projects…                         → admin CRUD + assign, /my for clients
//	/api/tickets…                          → admin lifecycle, /my + /{id}/status for clients
//	POST   /api/upload/ticket/{id}         → admin
//	/api/dashboard/*                       → admin
//	GET    /uploads/*                      → authenticated static attachments
//	GET    /metrics                        → Prometheus scrape
func NewRouter(
	authHandler *AuthHandler,
	projectsHandler *ProjectsHandler,
	ticketsHandler *TicketsHandler,
	uploadHandler *UploadHandler,
	dashboardHandler *DashboardHandler,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.WithRequestLogging(cfg.Logger))
	r.Use(middleware.Instrument)
	r.Use(middleware.BearerAuth(cfg.SessionSecret))

	r.Route("/api", func(r chi.Router) {
		// Uploads use multipart; everything else is JSON.
		r.Use(chiMiddleware.AllowContentType("application/json", "multipart/form-data"))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Route("/users", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRoles(models.RoleAdmin))
					r.Get("/", authHandler.ListUsers)
					r.Get("/{id}", authHandler.GetUser)
					r.Put("/{id}", authHandler.UpdateUser)
					r.Delete("/{id}", authHandler.DeleteUser)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleClient))
					r.Put("/{id}/password", authHandler.ChangePassword)
				})
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin))
				r.Get("/", projectsHandler.List)
				r.Post("/", projectsHandler.Create)
				r.Put("/assign", projectsHandler.Assign)
				r.Put("/{id}", projectsHandler.Update)
				r.Delete("/{id}", projectsHandler.Delete)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleClient))
				r.Get("/my", projectsHandler.My)
			})
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin))
				r.Get("/", ticketsHandler.List)
				r.Post("/", ticketsHandler.Create)
				r.Put("/{id}", ticketsHandler.Update)
				r.Delete("/{id}", ticketsHandler.Delete)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleClient))
				r.Get("/my", ticketsHandler.My)
				r.Put("/{id}/status", ticketsHandler.Status)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleClient))
				r.Get("/{id}", ticketsHandler.Get)
				r.Post("/{id}/comment", ticketsHandler.Comment)
			})
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(middleware.RequireRoles(models.RoleAdmin))
			r.Post("/ticket/{id}", uploadHandler.Upload)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.RequireRoles(models.RoleAdmin))
			r.Get("/stats", dashboardHandler.Stats)
			r.Get("/tickets-last-7-days", dashboardHandler.TicketsLast7Days)
			r.Get("/clients-last-7-days", dashboardHandler.ClientsLast7Days)
			r.Get("/projects-by-status", dashboardHandler.ProjectsByStatus)
			r.Get("/tickets-by-priority", dashboardHandler.TicketsByPriority)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	})

	r.Handle("/metrics", middleware.MetricsHandler())

	return r
}
