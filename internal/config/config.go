package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	S3      S3Config
	Auth    AuthConfig
	OTEL    OTELConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	MaxUploadSizeMB int64
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection configuration.
// An empty Addr disables request idempotency.
type RedisConfig struct {
	Addr                  string
	Password              string
	IdempotencyTTLMinutes int64
}

// S3Config holds S3-compatible media storage configuration
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	PublicURL string
}

// AuthConfig holds the API keys accepted by the x-api-key gate.
// Keys are loaded once at startup and never change afterwards.
type AuthConfig struct {
	APIKeys     []string
	APIKeysFile string
}

// OTELConfig holds OpenTelemetry exporter configuration
type OTELConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	PathPrefix     string
	InstanceID     string
	Token          string
}

// Headers returns the OTLP request headers. Grafana Cloud authenticates with
// Basic instanceID:token; a plain collector gets no headers.
func (c OTELConfig) Headers() map[string]string {
	headers := map[string]string{}
	if c.InstanceID == "" {
		return headers
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.InstanceID + ":" + c.Token))
	headers["Authorization"] = "Basic " + auth
	return headers
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "4003"),
			MaxUploadSizeMB: getEnvAsInt64("MAX_UPLOAD_SIZE_MB", 10),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "gympro"),
		},
		Redis: RedisConfig{
			Addr:                  getEnv("REDIS_ADDR", ""),
			Password:              getEnv("REDIS_PASSWORD", ""),
			IdempotencyTTLMinutes: getEnvAsInt64("IDEMPOTENCY_TTL_MINUTES", 10),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    getEnv("S3_BUCKET", "gympro-media"),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
		},
		Auth: AuthConfig{
			APIKeys:     splitList(getEnv("API_KEYS", "")),
			APIKeysFile: getEnv("API_KEYS_FILE", ""),
		},
		OTEL: OTELConfig{
			Enabled:        getEnv("OTEL_ENABLED", "false") == "true",
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "gympro-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Environment:    getEnv("OTEL_ENVIRONMENT", "development"),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			PathPrefix:     getEnv("OTEL_EXPORTER_OTLP_PATH_PREFIX", "/otlp"),
			InstanceID:     getEnv("OTEL_INSTANCE_ID", ""),
			Token:          getEnv("OTEL_TOKEN", ""),
		},
	}

	if cfg.Auth.APIKeysFile != "" {
		keys, err := LoadAPIKeysFile(cfg.Auth.APIKeysFile)
		if err != nil {
			return nil, err
		}
		cfg.Auth.APIKeys = append(cfg.Auth.APIKeys, keys...)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("API_KEYS or API_KEYS_FILE is required")
	}
	if c.MongoDB.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	return nil
}

// LoadAPIKeysFile reads a JSON array of {"api_key": "..."} entries
func LoadAPIKeysFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read api keys file: %w", err)
	}

	var entries []struct {
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse api keys file: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if k := strings.TrimSpace(e.APIKey); k != "" {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
