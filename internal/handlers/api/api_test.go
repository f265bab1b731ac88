package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teamup/internal/events"
	"teamup/internal/middleware"
	"teamup/internal/models"
	"teamup/internal/testutil"
)

// testEnv is an API app backed by an in-memory store.
type testEnv struct {
	t     *testing.T
	app   *fiber.App
	store *testutil.MemoryStore
	svc   *events.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewMemoryStore()
	svc := events.NewService(store, testutil.NewFilter(), events.Options{})

	app := fiber.New(fiber.Config{Immutable: true})
	sessionMiddleware, _ := session.NewWithStore()
	app.Use(sessionMiddleware)

	app.Post("/test/signin/:id", func(c fiber.Ctx) error {
		user, err := store.GetUserByID(c.Context(), uuid.MustParse(c.Params("id")))
		if err != nil {
			return err
		}
		return middleware.SignIn(c, user)
	})

	Mount(app, middleware.NewAuthMiddleware(store), Handlers{
		Events:     NewEventHandler(svc, zap.NewNop()),
		Moderation: NewModerationHandler(svc),
		Users:      NewUserHandler(store),
		Catalog:    NewCatalogHandler(store),
		Content:    NewContentHandler(svc),
	})

	return &testEnv{t: t, app: app, store: store, svc: svc}
}

// client is a signed-in (or anonymous) caller.
type client struct {
	env     *testEnv
	user    *models.User
	cookies []*http.Cookie
}

func (e *testEnv) anonymous() *client {
	return &client{env: e}
}

func (e *testEnv) signIn(role string) *client {
	e.t.Helper()
	user := &models.User{
		Email: uuid.NewString() + "@example.com",
		Name:  role,
		Role:  role,
	}
	require.NoError(e.t, e.store.CreateUser(context.Background(), user))

	req, _ := http.NewRequest(http.MethodPost, "/test/signin/"+user.ID.String(), nil)
	resp, err := e.app.Test(req)
	require.NoError(e.t, err)
	require.Equal(e.t, fiber.StatusOK, resp.StatusCode)

	return &client{env: e, user: user, cookies: resp.Cookies()}
}

// envelope is the decoded JSON response.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func (c *client) do(method, target string, body any) (int, envelope) {
	t := c.env.t
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, _ := http.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	resp, err := c.env.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

// decodeData unmarshals the envelope's data field into v.
func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), "data: %s", env.Data)
}

func eventBody(name, description string) models.EventRequest {
	return models.EventRequest{
		Name:        name,
		Description: description,
		Place:       "Central park",
		Time:        time.Now().Add(48 * time.Hour),
	}
}

// createEvent posts an event and returns the stored event.
func (c *client) createEvent(t *testing.T, name, description string) models.Event {
	t.Helper()
	status, env := c.do(http.MethodPost, "/api/public/event", eventBody(name, description))
	require.Contains(t, []int{fiber.StatusCreated, fiber.StatusAccepted}, status, env.Error)

	var resp models.EventSubmitResponse
	decodeData(t, env, &resp)
	return *resp.Event
}
