package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"

	"teamup/internal/models"
)

// Session keys.
const (
	SessionUserKey     = "user_id"
	SessionRedirectKey = "redirect_after_login"
)

// UserLoader loads the signed-in user.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	db UserLoader
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(db UserLoader) *AuthMiddleware {
	return &AuthMiddleware{db: db}
}

// CurrentUser returns the user loaded by RequireAuth or OptionalAuth, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// SignIn stores user in the session.
func SignIn(c fiber.Ctx, user *models.User) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	// New session id on privilege change.
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(SessionUserKey, user.ID.String())
	return nil
}

// SignOut destroys the session.
func SignOut(c fiber.Ctx) {
	if sess := session.FromContext(c); sess != nil {
		sess.Destroy()
	}
}

// isAPI reports whether the request targets the JSON API.
func isAPI(c fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

func (m *AuthMiddleware) load(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}
	raw, _ := sess.Get(SessionUserKey).(string)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		sess.Delete(SessionUserKey)
		return nil
	}
	user, err := m.db.GetUserByID(c.Context(), id)
	if err != nil {
		// Deleted users lose their session.
		sess.Delete(SessionUserKey)
		return nil
	}
	return user
}

// RequireAuth ensures the user is authenticated. API requests get a JSON
// 401; page requests are redirected to /login and come back afterwards.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.load(c)
	if user == nil {
		return unauthorized(c)
	}
	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.load(c); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

// RequireRole allows the request only if the signed-in user has one of
// roles. It must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}
		if !user.HasRole(roles...) {
			if isAPI(c) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"status": "error",
					"error":  "insufficient permissions",
				})
			}
			return fiber.NewError(fiber.StatusForbidden, "You do not have access to this page")
		}
		return c.Next()
	}
}

// RequireModerator is RequireRole for moderators and admins.
func RequireModerator() fiber.Handler {
	return RequireRole(models.RoleModerator, models.RoleAdmin)
}

// RequireAdmin is RequireRole for admins.
func RequireAdmin() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}

func unauthorized(c fiber.Ctx) error {
	if isAPI(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "authentication required",
		})
	}
	if sess := session.FromContext(c); sess != nil && c.Method() == fiber.MethodGet {
		sess.Set(SessionRedirectKey, c.OriginalURL())
	}
	return c.Redirect().To("/login")
}
