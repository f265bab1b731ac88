package middleware

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamup/internal/models"
	"teamup/internal/testutil"
)

func newTestApp(t *testing.T) (*fiber.App, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	auth := NewAuthMiddleware(store)

	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore()
	app.Use(sessionMiddleware)

	app.Post("/signin/:id", func(c fiber.Ctx) error {
		user, err := store.GetUserByID(c.Context(), uuid.MustParse(c.Params("id")))
		if err != nil {
			return err
		}
		return SignIn(c, user)
	})
	app.Post("/signout", func(c fiber.Ctx) error {
		SignOut(c)
		return nil
	})

	whoami := func(c fiber.Ctx) error {
		if user := CurrentUser(c); user != nil {
			return c.SendString(user.Email)
		}
		return c.SendString("anonymous")
	}

	app.Get("/page", auth.RequireAuth, whoami)
	app.Get("/public", auth.OptionalAuth, whoami)
	app.Get("/api/private", auth.RequireAuth, whoami)
	app.Get("/api/admin", auth.RequireAuth, RequireAdmin(), whoami)
	app.Get("/moderation", auth.RequireAuth, RequireModerator(), whoami)

	return app, store
}

// signIn logs user in and returns the session cookies.
func signIn(t *testing.T, app *fiber.App, user *models.User) []*http.Cookie {
	t.Helper()
	resp, err := app.Test(httpRequest(http.MethodPost, "/signin/"+user.ID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func httpRequest(method, target string, cookies []*http.Cookie) *http.Request {
	req, _ := http.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func createUser(t *testing.T, store *testutil.MemoryStore, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Role: role}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestRequireAuth_Anonymous(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("page redirects to login", func(t *testing.T) {
		resp, err := app.Test(httpRequest(http.MethodGet, "/page", nil))
		require.NoError(t, err)
		assert.True(t, resp.StatusCode >= 300 && resp.StatusCode < 400, "status = %d", resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("api returns 401 json", func(t *testing.T) {
		resp, err := app.Test(httpRequest(http.MethodGet, "/api/private", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{"status":"error","error":"authentication required"}`, body(t, resp))
	})
}

func TestRequireAuth_SignedIn(t *testing.T) {
	app, store := newTestApp(t)
	user := createUser(t, store, "alice@example.com", models.RoleUser)
	cookies := signIn(t, app, user)

	resp, err := app.Test(httpRequest(http.MethodGet, "/page", cookies))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", body(t, resp))
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	app, store := newTestApp(t)
	user := createUser(t, store, "gone@example.com", models.RoleUser)
	cookies := signIn(t, app, user)

	require.NoError(t, store.DeleteUser(context.Background(), user.ID))

	resp, err := app.Test(httpRequest(http.MethodGet, "/api/private", cookies))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	app, store := newTestApp(t)

	resp, err := app.Test(httpRequest(http.MethodGet, "/public", nil))
	require.NoError(t, err)
	assert.Equal(t, "anonymous", body(t, resp))

	user := createUser(t, store, "bob@example.com", models.RoleUser)
	cookies := signIn(t, app, user)

	resp, err = app.Test(httpRequest(http.MethodGet, "/public", cookies))
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", body(t, resp))
}

func TestSignOut(t *testing.T) {
	app, store := newTestApp(t)
	user := createUser(t, store, "carol@example.com", models.RoleUser)
	cookies := signIn(t, app, user)

	resp, err := app.Test(httpRequest(http.MethodPost, "/signout", cookies))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httpRequest(http.MethodGet, "/api/private", cookies))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		path       string
		wantStatus int
	}{
		{"user on admin api", models.RoleUser, "/api/admin", fiber.StatusForbidden},
		{"moderator on admin api", models.RoleModerator, "/api/admin", fiber.StatusForbidden},
		{"admin on admin api", models.RoleAdmin, "/api/admin", fiber.StatusOK},
		{"user on moderation page", models.RoleUser, "/moderation", fiber.StatusForbidden},
		{"moderator on moderation page", models.RoleModerator, "/moderation", fiber.StatusOK},
		{"admin on moderation page", models.RoleAdmin, "/moderation", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store := newTestApp(t)
			user := createUser(t, store, tt.role+"@example.com", tt.role)
			cookies := signIn(t, app, user)

			resp, err := app.Test(httpRequest(http.MethodGet, tt.path, cookies))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
