// Package api provides the HTTP surface for the back office: property,
// lease and bank account records, the reconciliation workflow, and the
// scheduled charge engine.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rentdesk-backend/internal/api/handlers"
	"rentdesk-backend/internal/api/middleware"
	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Services groups the application services the server exposes.
type Services struct {
	Reconciliations *service.ReconciliationService
	Charges         *service.ChargeService
	Deposits        *service.DepositService
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	services   Services
}

// NewServer creates a new API server.
func NewServer(cfg Config, repo storage.Repository, services Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   logger,
		repo:     repo,
		services: services,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// CORS
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// Properties and units
		propertiesHandler := handlers.NewPropertiesHandler(s.repo)
		r.Get("/properties", propertiesHandler.List)
		r.Post("/properties", propertiesHandler.Create)
		r.Get("/properties/{id}", propertiesHandler.Get)
		r.Put("/properties/{id}", propertiesHandler.Update)
		r.Delete("/properties/{id}", propertiesHandler.Delete)
		r.Get("/properties/{id}/units", propertiesHandler.ListUnits)
		r.Post("/properties/{id}/units", propertiesHandler.CreateUnit)
		r.Put("/units/{id}", propertiesHandler.UpdateUnit)
		r.Delete("/units/{id}", propertiesHandler.DeleteUnit)

		// Leases, tenant ledger, deposits
		leasesHandler := handlers.NewLeasesHandler(s.repo, s.services.Deposits)
		r.Get("/leases", leasesHandler.List)
		r.Post("/leases", leasesHandler.Create)
		r.Get("/leases/{id}", leasesHandler.Get)
		r.Put("/leases/{id}", leasesHandler.Update)
		r.Delete("/leases/{id}", leasesHandler.Delete)
		r.Get("/leases/{id}/ledger", leasesHandler.Ledger)
		r.Post("/leases/{id}/deposit", leasesHandler.RecordDeposit)
		r.Post("/leases/{id}/deposit/release", leasesHandler.ReleaseDeposit)

		// Bank accounts
		bankAccountsHandler := handlers.NewBankAccountsHandler(s.repo)
		r.Get("/bank-accounts", bankAccountsHandler.List)
		r.Post("/bank-accounts", bankAccountsHandler.Create)
		r.Get("/bank-accounts/{id}", bankAccountsHandler.Get)

		// Reconciliations
		reconHandler := handlers.NewReconciliationsHandler(s.repo, s.services.Reconciliations)
		r.Post("/reconciliations", reconHandler.Ingest)
		r.Get("/reconciliations", reconHandler.List)
		r.Get("/reconciliations/{id}", reconHandler.Get)
		r.Post("/reconciliations/{id}/lines/{lineID}/match", reconHandler.Match)
		r.Post("/reconciliations/{id}/lines/{lineID}/unmatch", reconHandler.Unmatch)
		r.Post("/reconciliations/{id}/lines/{lineID}/exclude", reconHandler.Exclude)
		r.Post("/reconciliations/{id}/finalize", reconHandler.Finalize)

		// Scheduled charges
		chargesHandler := handlers.NewChargesHandler(s.repo, s.services.Charges)
		r.Get("/leases/{id}/charges", chargesHandler.List)
		r.Post("/leases/{id}/charges", chargesHandler.Create)
		r.Put("/charges/{id}", chargesHandler.Update)
		r.Delete("/charges/{id}", chargesHandler.Delete)
		r.Post("/charges/{id}/reset", chargesHandler.Reset)
		r.Post("/charges/post-due", chargesHandler.PostDue)

		// Ledger entries
		entriesHandler := handlers.NewEntriesHandler(s.repo)
		r.Get("/ledger-entries", entriesHandler.List)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
