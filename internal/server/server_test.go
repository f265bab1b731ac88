package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"
	"go.uber.org/zap"

	"teamup/internal/config"
)

// sessionApp mirrors the production middleware order: encryptcookie,
// then session, then the route handler.
func sessionApp(storage fiber.Storage) *fiber.App {
	app := fiber.New()
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveEncryptionKey("test-secret-that-is-long-enough-for-production"),
	}))

	sessionMiddleware, _ := session.NewWithStore(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	app.Post("/session-set", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		sess.Set("user_id", "alice")
		return c.SendString("ok")
	})
	app.Get("/session-get", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		val, _ := sess.Get("user_id").(string)
		return c.SendString(val)
	})
	return app
}

// TestEncryptCookieSessionRoundTrip replays encrypted session cookies
// across requests, with sessions in memory and in redis.
func TestEncryptCookieSessionRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"memory", &config.Config{}},
		{"redis", &config.Config{RedisURL: "redis://" + mr.Addr()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newStorage(tt.cfg)
			if storage != nil {
				defer storage.Close()
			}
			app := sessionApp(storage)

			// Request 1: establish a session.
			req, _ := http.NewRequest("POST", "/session-set", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request 1 failed: %v", err)
			}
			if resp.StatusCode != 200 {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("request 1: expected 200, got %d: %s", resp.StatusCode, body)
			}
			cookies := resp.Cookies()
			if len(cookies) == 0 {
				t.Fatal("request 1: no cookies returned")
			}

			// Requests 2 and 3: replay cookies (triggers decryption).
			for i := 2; i <= 3; i++ {
				req, _ := http.NewRequest("GET", "/session-get", nil)
				for _, c := range cookies {
					req.AddCookie(c)
				}
				resp, err := app.Test(req)
				if err != nil {
					t.Fatalf("request %d failed: %v", i, err)
				}
				body, _ := io.ReadAll(resp.Body)
				if resp.StatusCode != 200 {
					t.Fatalf("request %d: expected 200, got %d: %s", i, resp.StatusCode, body)
				}
				if string(body) != "alice" {
					t.Errorf("request %d: expected session value 'alice', got %q", i, body)
				}
				if next := resp.Cookies(); len(next) > 0 {
					cookies = next
				}
			}

			if tt.cfg.RedisURL != "" && len(mr.Keys()) == 0 {
				t.Error("expected the session to be stored in redis")
			}
		})
	}
}

func TestNewStorage_DisabledWithoutURL(t *testing.T) {
	if s := newStorage(&config.Config{}); s != nil {
		t.Errorf("newStorage() = %v, want nil", s)
	}
}

func TestLimiter(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name     string
		redisURL string
	}{
		{"memory", ""},
		{"redis", "redis://" + mr.Addr()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{RateLimitPerMinute: 2, RedisURL: tt.redisURL}
			storage := newStorage(cfg)
			if storage != nil {
				defer storage.Close()
			}

			app := fiber.New()
			app.Use(newLimiter(cfg, storage))
			app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

			want := []int{200, 200, 429}
			for i, code := range want {
				resp, err := app.Test(getRoot())
				if err != nil {
					t.Fatalf("request %d failed: %v", i+1, err)
				}
				if resp.StatusCode != code {
					t.Errorf("request %d: status = %d, want %d", i+1, resp.StatusCode, code)
				}
			}
		})
	}
}

func getRoot() *http.Request {
	req, _ := http.NewRequest("GET", "/", nil)
	return req
}

func TestErrorHandler_API(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(&config.Config{}, zap.NewNop())})
	app.Get("/api/boom", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	req, _ := http.NewRequest("GET", "/api/boom", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusTeapot)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "error" || body["error"] != "short and stout" {
		t.Errorf("body = %v", body)
	}
}

func TestBuildTLSConfig(t *testing.T) {
	dir := t.TempDir()
	badCA := filepath.Join(dir, "bad.pem")
	if err := os.WriteFile(badCA, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		caFile     string
		wantErr    bool
		wantClient bool
	}{
		{"plain TLS", "", false, false},
		{"missing CA file", filepath.Join(dir, "missing.pem"), true, false},
		{"unparseable CA", badCA, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tlsConfig, err := buildTLSConfig(&config.Config{TLSEnabled: true, TLSCAFile: tt.caFile})
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildTLSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := tlsConfig.ClientCAs != nil; got != tt.wantClient {
				t.Errorf("client CAs set = %v, want %v", got, tt.wantClient)
			}
		})
	}
}

func TestNew_KeepsRequestValues(t *testing.T) {
	srv := New(&config.Config{
		Env:                "production",
		BaseURL:            "http://localhost:3000",
		SessionSecret:      "test-secret-that-is-long-enough-for-production",
		RateLimitPerMinute: 100,
	}, zap.NewNop())

	if !srv.App.Config().Immutable {
		t.Fatal("app must copy request values before handlers keep them")
	}

	var kept []string
	srv.App.Post("/keep", func(c fiber.Ctx) error {
		kept = append(kept, c.FormValue("name"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, name := range []string{"Salsa lessons", "Running clubs"} {
		req, _ := http.NewRequest("POST", "/keep", strings.NewReader("name="+url.QueryEscape(name)))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if _, err := srv.App.Test(req); err != nil {
			t.Fatal(err)
		}
	}

	if len(kept) != 2 || kept[0] != "Salsa lessons" || kept[1] != "Running clubs" {
		t.Errorf("kept = %q", kept)
	}
}
