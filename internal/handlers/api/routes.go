package api

import (
	"github.com/gofiber/fiber/v3"

	"teamup/internal/middleware"
)

// Handlers groups the API handlers mounted by Mount.
type Handlers struct {
	Events     *EventHandler
	Moderation *ModerationHandler
	Users      *UserHandler
	Catalog    *CatalogHandler
	Content    *ContentHandler
}

// Mount registers the JSON API under /api.
func Mount(app fiber.Router, auth *middleware.AuthMiddleware, h Handlers) {
	api := app.Group("/api")

	// Public events. Static segments are registered before /:id.
	ev := api.Group("/public/event")
	ev.Get("/", auth.OptionalAuth, h.Events.List)
	ev.Get("/joined", auth.RequireAuth, h.Events.Joined)
	ev.Get("/name/:name", auth.OptionalAuth, h.Events.ByName)
	ev.Get("/author/:id", auth.OptionalAuth, h.Events.ByAuthor)
	ev.Get("/type/:id", auth.OptionalAuth, h.Events.ByType)
	ev.Get("/interest/:id", auth.OptionalAuth, h.Events.ByInterest)
	ev.Get("/:id", auth.OptionalAuth, h.Events.Get)
	ev.Post("/", auth.RequireAuth, h.Events.Create)
	ev.Put("/:id", auth.RequireAuth, h.Events.Update)
	ev.Delete("/:id", auth.RequireAuth, h.Events.Delete)
	ev.Post("/:id/join", auth.RequireAuth, h.Events.Join)
	ev.Post("/:id/leave", auth.RequireAuth, h.Events.Leave)

	// Moderation (moderators and admins)
	mod := api.Group("/moderation", auth.RequireAuth, middleware.RequireModerator())
	mod.Get("/pending", h.Moderation.ListPending)
	mod.Post("/:id/approve", h.Moderation.Approve)
	mod.Post("/:id/reject", h.Moderation.Reject)

	// User management (admin only)
	users := api.Group("/private/users", auth.RequireAuth, middleware.RequireAdmin())
	users.Get("/", h.Users.List)
	users.Get("/:id", h.Users.Get)
	users.Post("/", h.Users.Create)
	users.Put("/:id", h.Users.Update)
	users.Put("/:id/role", h.Users.UpdateRole)
	users.Delete("/:id", h.Users.Delete)

	// Catalogs: anyone signed in may read, admins may change.
	admin := middleware.RequireAdmin()

	api.Get("/event-types", auth.RequireAuth, h.Catalog.ListEventTypes)
	api.Get("/event-types/:id", auth.RequireAuth, h.Catalog.GetEventType)
	api.Post("/event-types", auth.RequireAuth, admin, h.Catalog.CreateEventType)
	api.Put("/event-types/:id", auth.RequireAuth, admin, h.Catalog.UpdateEventType)
	api.Delete("/event-types/:id", auth.RequireAuth, admin, h.Catalog.DeleteEventType)

	api.Get("/interests", auth.RequireAuth, h.Catalog.ListInterests)
	api.Get("/interests/:id", auth.RequireAuth, h.Catalog.GetInterest)
	api.Post("/interests", auth.RequireAuth, admin, h.Catalog.CreateInterest)
	api.Put("/interests/:id", auth.RequireAuth, admin, h.Catalog.UpdateInterest)
	api.Delete("/interests/:id", auth.RequireAuth, admin, h.Catalog.DeleteInterest)

	api.Get("/statuses", auth.RequireAuth, h.Catalog.ListStatuses)
	api.Post("/statuses", auth.RequireAuth, admin, h.Catalog.CreateStatus)
	api.Put("/statuses/:id", auth.RequireAuth, admin, h.Catalog.UpdateStatus)
	api.Delete("/statuses/:id", auth.RequireAuth, admin, h.Catalog.DeleteStatus)

	api.Post("/content/check", auth.RequireAuth, h.Content.Check)
}
