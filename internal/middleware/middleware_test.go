package middleware

import (
	"bytes"
	"encoding/hex"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilteredWriter(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		written bool
	}{
		{"fast ok", "15:04:05 | 200 | 1.23ms | GET /health\n", false},
		{"slow ok", "15:04:05 | 200 | 750ms | POST /github/webhook\n", true},
		{"client error", "15:04:05 | 401 | 80µs | POST /github/webhook\n", true},
		{"server error", "15:04:05 | 500 | 2ms | GET /ready\n", true},
		{"unparseable", "something else\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := newFilteredWriter(&buf).Write([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, len(tt.line), n)
			if tt.written {
				assert.Equal(t, tt.line, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func newKeyApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", h, func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAdminKey(t *testing.T) {
	app := newKeyApp(AdminKey("secret"))

	for key, want := range map[string]int{"": 403, "wrong": 403, "secret": 200} {
		req := httptest.NewRequest("GET", "/", nil)
		if key != "" {
			req.Header.Set("X-Admin-Key", key)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "key %q", key)
	}
}

func TestServerKey(t *testing.T) {
	app := newKeyApp(ServerKey("game"))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Server-Key", "game")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Admin-Key", "game")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestGitHubSignature(t *testing.T) {
	const body = `{"action":"opened"}`
	secret := []byte("hook-secret")
	valid := "sha256=" + hex.EncodeToString(SignBody(secret, []byte(body)))

	app := fiber.New()
	app.Post("/", GitHubSignature(string(secret)), func(c *fiber.Ctx) error { return c.SendString("ok") })

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", valid, 200},
		{"missing", "", 401},
		{"wrong prefix", strings.TrimPrefix(valid, "sha256="), 401},
		{"not hex", "sha256=zz", 401},
		{"wrong digest", "sha256=" + hex.EncodeToString(SignBody([]byte("other"), []byte(body))), 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(body))
			if tt.header != "" {
				req.Header.Set("X-Hub-Signature-256", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGitHubSignature_DisabledWithoutSecret(t *testing.T) {
	app := fiber.New()
	app.Post("/", GitHubSignature(""), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("POST", "/", strings.NewReader("{}")))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
}

func TestRateLimit(t *testing.T) {
	app := newKeyApp(RateLimit(2, time.Minute))

	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
