package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	CorrelationIDHeader    = "X-Correlation-ID"
	IdempotentReplayHeader = "X-Idempotent-Replay"
)

// IdempotencyMiddleware replays the cached 2xx response of a POST/PUT/PATCH
// that carried the same X-Correlation-ID within ttl. Retried creates then do
// not reach the handler a second time.
// Requests without the header, or any Redis failure, go straight through.
func IdempotencyMiddleware(redisClient redis.UniversalClient, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Only apply to mutating methods
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPatch && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		correlationID := c.Get(CorrelationIDHeader)
		if correlationID == "" {
			return c.Next()
		}

		key := idempotencyKey(c.Method(), c.Path(), correlationID)
		ctx := c.UserContext()

		cached, err := redisClient.Get(ctx, key).Bytes()
		switch {
		case err == nil && len(cached) > 0:
			c.Set(IdempotentReplayHeader, "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached)
		case err != nil && !errors.Is(err, redis.Nil):
			log.Printf("Warning: idempotency lookup failed for %s: %v", correlationID, err)
		}

		if err := c.Next(); err != nil {
			return err
		}

		statusCode := c.Response().StatusCode()
		if statusCode < 200 || statusCode >= 300 {
			return nil
		}
		// fasthttp reuses the response buffer once the handler returns
		body := append([]byte(nil), c.Response().Body()...)
		if len(body) == 0 {
			return nil
		}

		setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisClient.Set(setCtx, key, body, ttl).Err(); err != nil {
			log.Printf("Warning: failed to cache response for %s: %v", correlationID, err)
		}
		return nil
	}
}

func idempotencyKey(method, path, correlationID string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s", method, path, correlationID)
}
