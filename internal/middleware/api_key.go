package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	APIKeyHeader       = "x-api-key"
	legacyAPIKeyHeader = "api_key"

	// APIKeyLocal holds the accepted key for downstream handlers
	APIKeyLocal = "api_key"
)

// APIKeySet is the set of keys accepted by RequireAPIKey.
// It is built once at startup and only read afterwards.
type APIKeySet struct {
	keys map[string]struct{}
}

func NewAPIKeySet(keys []string) *APIKeySet {
	set := &APIKeySet{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			set.keys[k] = struct{}{}
		}
	}
	return set
}

// Contains reports whether key is accepted
func (s *APIKeySet) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *APIKeySet) Len() int {
	return len(s.keys)
}

// RequireAPIKey rejects requests without a known key in the x-api-key header
// (or the older api_key header)
func RequireAPIKey(keys *APIKeySet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(APIKeyHeader)
		if key == "" {
			key = c.Get(legacyAPIKeyHeader)
		}

		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not Authorized",
			})
		}

		if !keys.Contains(key) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "api_key invalid",
			})
		}

		c.Locals(APIKeyLocal, key)
		return c.Next()
	}
}
