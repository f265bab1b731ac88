package handlers

import (
	"github.com/gofiber/fiber/v3"

	"teamup/internal/middleware"
)

// Pages groups the page handlers mounted by Mount.
type Pages struct {
	Auth       *AuthHandler
	Events     *EventHandler
	Profile    *ProfileHandler
	Moderation *ModerationHandler
	Admin      *UserHandler
}

// Mount registers the server-rendered pages.
func Mount(app fiber.Router, auth *middleware.AuthMiddleware, p Pages) {
	// Public
	app.Get("/", auth.OptionalAuth, p.Events.Index)
	app.Get("/events/:id", auth.OptionalAuth, p.Events.Show)

	// Auth
	app.Get("/login", auth.OptionalAuth, p.Auth.LoginPage)
	app.Post("/login", p.Auth.Login)
	app.Get("/register", p.Auth.RegisterPage)
	app.Post("/register", p.Auth.Register)
	app.Get("/auth/login", p.Auth.OIDCLogin)
	app.Get("/auth/callback", p.Auth.Callback)
	app.Post("/logout", p.Auth.Logout)

	// Signed-in users
	app.Get("/user", auth.RequireAuth, p.Profile.Show)
	app.Post("/user/events", auth.RequireAuth, p.Profile.CreateEvent)
	app.Post("/user/profile", auth.RequireAuth, p.Profile.UpdateProfile)
	app.Post("/events/:id/join", auth.RequireAuth, p.Events.Join)
	app.Post("/events/:id/leave", auth.RequireAuth, p.Events.Leave)
	app.Post("/events/:id/delete", auth.RequireAuth, p.Events.Delete)

	// Moderators and admins
	mod := middleware.RequireModerator()
	app.Get("/moderator", auth.RequireAuth, mod, p.Moderation.Home)
	app.Get("/moderation", auth.RequireAuth, mod, p.Moderation.Index)
	app.Post("/moderation/:id/approve", auth.RequireAuth, mod, p.Moderation.Approve)
	app.Post("/moderation/:id/reject", auth.RequireAuth, mod, p.Moderation.Reject)

	// Admins
	admin := middleware.RequireAdmin()
	app.Get("/admin", auth.RequireAuth, admin, p.Admin.Index)
	app.Post("/admin/users/:id/role", auth.RequireAuth, admin, p.Admin.UpdateUserRole)
	app.Post("/admin/users/:id/delete", auth.RequireAuth, admin, p.Admin.DeleteUser)
	app.Post("/admin/event-types", auth.RequireAuth, admin, p.Admin.CreateEventType)
	app.Post("/admin/interests", auth.RequireAuth, admin, p.Admin.CreateInterest)
}
