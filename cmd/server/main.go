// Package main initializes and starts the ticketdesk API server,
// wiring configuration, logging, the database, repositories, services,
// handlers, and graceful shutdown.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/alpsupport/ticketdesk/internal/config"
	"github.com/alpsupport/ticketdesk/internal/db"
	"github.com/alpsupport/ticketdesk/internal/logger"
	"github.com/alpsupport/ticketdesk/internal/middleware"
	"github.com/alpsupport/ticketdesk/internal/repository"
	"github.com/alpsupport/ticketdesk/internal/server/handler/http"
	"github.com/alpsupport/ticketdesk/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()

	level := "info"
	if options.Env == "dev" {
		level = "debug"
	}
	if err := log.Init(level); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	postgres, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Purge soft-deleted tickets in the background.
	db.StartSoftDeleteCleaner(ctx, postgres,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	userRepo := repository.NewPostgresUserRepository(postgres)
	projectRepo := repository.NewPostgresProjectRepository(postgres)
	ticketRepo := repository.NewPostgresTicketRepository(postgres)
	dashboardRepo := repository.NewPostgresDashboardRepository(postgres)

	authService := service.NewAuthService(userRepo, options.SessionSecret, options.SessionTTL)
	projectService := service.NewProjectService(projectRepo)
	ticketService := service.NewTicketService(ticketRepo, options.UploadDir)
	dashboardService := service.NewDashboardService(dashboardRepo)

	authHandler := &http.AuthHandler{AuthService: authService}
	projectsHandler := &http.ProjectsHandler{ProjectService: projectService}
	ticketsHandler := &http.TicketsHandler{TicketService: ticketService}
	uploadHandler := &http.UploadHandler{TicketService: ticketService}
	dashboardHandler := &http.DashboardHandler{DashboardService: dashboardService}

	middleware.InitMetrics()

	router := http.NewRouter(
		authHandler, projectsHandler, ticketsHandler, uploadHandler, dashboardHandler,
		http.RouterConfig{
			SessionSecret: options.SessionSecret,
			UploadDir:     options.UploadDir,
			Origin:        options.Origin,
			Logger:        zapLogger,
		},
	)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown", zap.Error(err))
	}
	if err := postgres.Close(); err != nil {
		zapLogger.Error("close database", zap.Error(err))
	}
}
