package server

import (
	"context"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teamup/internal/db"
	"teamup/internal/events"
	"teamup/internal/handlers"
	"teamup/internal/handlers/api"
	"teamup/internal/middleware"
	"teamup/internal/wordfilter"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, svc *events.Service, filter *wordfilter.Filter) error {
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Probes and metrics, no auth
	probe := api.NewProbeHandler(database)
	s.App.Get("/healthz", probe.Liveness)
	s.App.Get("/readyz", probe.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if !s.Cfg.IsOIDCEnabled() {
		s.Log.Info("OIDC login disabled, set OIDC_ISSUER to enable")
	}
	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database, s.Log)
	if err != nil {
		return err
	}

	handlers.Mount(s.App, authMiddleware, handlers.Pages{
		Auth:       authHandler,
		Events:     handlers.NewEventHandler(svc, s.Cfg),
		Profile:    handlers.NewProfileHandler(svc, database, s.Cfg),
		Moderation: handlers.NewModerationHandler(svc, filter, s.Cfg),
		Admin:      handlers.NewUserHandler(database, s.Cfg),
	})

	api.Mount(s.App, authMiddleware, api.Handlers{
		Events:     api.NewEventHandler(svc, s.Log),
		Moderation: api.NewModerationHandler(svc),
		Users:      api.NewUserHandler(database),
		Catalog:    api.NewCatalogHandler(database),
		Content:    api.NewContentHandler(svc),
	})

	return nil
}
