package handlers

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"timetracker/config"
	"timetracker/metrics"
	"timetracker/middleware"
	"timetracker/models"
	"timetracker/tracker"
)

// NewRouter wires every handler of the API onto a chi router. ping backs
// the /healthz probe.
func NewRouter(cfg *config.Config, logger *zap.Logger, svc *tracker.Service, ping func(context.Context) error) chi.Router {
	authHandler := NewAuthHandler(cfg, svc)
	timesheetHandler := NewTimesheetHandler(cfg, svc)
	submissionsHandler := NewSubmissionsHandler(cfg, svc)
	reportsHandler := NewReportsHandler(cfg, svc, logger)
	adminHandler := NewAdminHandler(cfg, svc)
	healthHandler := NewHealthHandler(ping, logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	router.Post("/login", authHandler.Login)
	router.Post("/logout", authHandler.Logout)
	router.Get("/healthz", healthHandler.Healthz)
	router.Handle("/metrics", metrics.Handler())

	// Protected routes
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(svc))

		r.Get("/me", authHandler.Me)
		r.Put("/me", authHandler.UpdateMe)

		r.Get("/timesheet", timesheetHandler.Week)
		r.Put("/timesheet/hours", timesheetHandler.SaveHours)
		r.Put("/timesheet/production", timesheetHandler.SaveProduction)
		r.Post("/timesheet/submit", timesheetHandler.Submit)
		r.Post("/timesheet/unlock-request", timesheetHandler.RequestUnlock)

		r.Get("/submissions", submissionsHandler.List)
		r.Get("/submissions/{userID}/{week}", submissionsHandler.Detail)

		r.Get("/reports/workload", reportsHandler.Workload)
		r.Get("/reports/workload.csv", reportsHandler.WorkloadCSV)
		r.Get("/reports/workload.pdf", reportsHandler.WorkloadPDF)

		r.Get("/clients", adminHandler.ListClients)
		r.Get("/assets", adminHandler.ListAssets)

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/submissions/{userID}/{week}/approve", submissionsHandler.Approve)

			r.Get("/users", adminHandler.ListUsers)
			r.Post("/users", adminHandler.CreateUser)
			r.Put("/users/{id}", adminHandler.UpdateUser)
			r.Delete("/users/{id}", adminHandler.DeleteUser)

			r.Post("/clients", adminHandler.CreateClient)
			r.Put("/clients/{id}", adminHandler.RenameClient)
			r.Delete("/clients/{id}", adminHandler.DeleteClient)

			r.Post("/assets", adminHandler.CreateAsset)
			r.Put("/assets/{id}", adminHandler.RenameAsset)
			r.Delete("/assets/{id}", adminHandler.DeleteAsset)
		})
	})

	return router
}
