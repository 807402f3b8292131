package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out["error"]
}

func TestRequireAPIKey(t *testing.T) {
	app := fiber.New()
	app.Use(RequireAPIKey(NewAPIKeySet([]string{"secret-1", " secret-2 ", ""})))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(APIKeyLocal).(string))
	})

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantError  string
		wantBody   string
	}{
		{name: "missing", wantStatus: fiber.StatusUnauthorized, wantError: "Not Authorized"},
		{name: "unknown", header: "x-api-key", value: "nope", wantStatus: fiber.StatusUnauthorized, wantError: "api_key invalid"},
		{name: "valid", header: "x-api-key", value: "secret-1", wantStatus: fiber.StatusOK, wantBody: "secret-1"},
		{name: "trimmed key", header: "x-api-key", value: "secret-2", wantStatus: fiber.StatusOK, wantBody: "secret-2"},
		{name: "legacy header", header: "api_key", value: "secret-2", wantStatus: fiber.StatusOK, wantBody: "secret-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ping", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, resp.Body))
				return
			}
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestAPIKeySet(t *testing.T) {
	set := NewAPIKeySet([]string{"a", "a", " ", "b"})
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("b"))
	assert.False(t, set.Contains(""))
}

func newIdempotentApp(t *testing.T) (*fiber.App, *int32, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var calls int32
	app := fiber.New()
	app.Use(IdempotencyMiddleware(client, time.Minute))
	app.Post("/exercise", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		if c.Get("X-Fail") != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad"})
		}
		return c.JSON(fiber.Map{"call": n})
	})
	return app, &calls, mr
}

func postExercise(t *testing.T, app *fiber.App, correlationID string, fail bool) *httptestResponse {
	t.Helper()
	req := httptest.NewRequest("POST", "/exercise", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if correlationID != "" {
		req.Header.Set(CorrelationIDHeader, correlationID)
	}
	if fail {
		req.Header.Set("X-Fail", "1")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return &httptestResponse{status: resp.StatusCode, replay: resp.Header.Get(IdempotentReplayHeader), body: string(body)}
}

type httptestResponse struct {
	status int
	replay string
	body   string
}

func TestIdempotencyMiddleware_ReplaysSuccess(t *testing.T) {
	app, calls, mr := newIdempotentApp(t)

	first := postExercise(t, app, "abc-123", false)
	second := postExercise(t, app, "abc-123", false)

	assert.Equal(t, fiber.StatusOK, first.status)
	assert.Empty(t, first.replay)
	assert.Equal(t, "true", second.replay)
	assert.JSONEq(t, first.body, second.body)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	ttl := mr.TTL(idempotencyKey("POST", "/exercise", "abc-123"))
	assert.Equal(t, time.Minute, ttl)
}

func TestIdempotencyMiddleware_WithoutHeader(t *testing.T) {
	app, calls, _ := newIdempotentApp(t)

	postExercise(t, app, "", false)
	postExercise(t, app, "", false)

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotencyMiddleware_DoesNotCacheFailures(t *testing.T) {
	app, calls, _ := newIdempotentApp(t)

	failed := postExercise(t, app, "retry-me", true)
	ok := postExercise(t, app, "retry-me", false)

	assert.Equal(t, fiber.StatusBadRequest, failed.status)
	assert.Equal(t, fiber.StatusOK, ok.status)
	assert.Empty(t, ok.replay)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotencyMiddleware_RedisDown(t *testing.T) {
	app, calls, mr := newIdempotentApp(t)
	mr.SetError("ERR server unavailable")

	resp := postExercise(t, app, "abc", false)

	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
