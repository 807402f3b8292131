package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_APIKeysFromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api_keys.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"api_key":"file-key"},{"api_key":"  "}]`), 0o600))

	t.Setenv("API_KEYS", "env-key-1, env-key-2,")
	t.Setenv("API_KEYS_FILE", path)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"env-key-1", "env-key-2", "file-key"}, cfg.Auth.APIKeys)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gympro", cfg.MongoDB.Database)
	assert.Equal(t, int64(10), cfg.Redis.IdempotencyTTLMinutes)
}

func TestLoad_RequiresAPIKeys(t *testing.T) {
	t.Setenv("API_KEYS", "")
	t.Setenv("API_KEYS_FILE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEYS")
}

func TestLoadAPIKeysFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := LoadAPIKeysFile(path)
	assert.Error(t, err)

	_, err = LoadAPIKeysFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestGetEnvAsInt64_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("MAX_UPLOAD_SIZE_MB", "lots")
	assert.Equal(t, int64(10), getEnvAsInt64("MAX_UPLOAD_SIZE_MB", 10))
}

func TestOTELConfig_Headers(t *testing.T) {
	assert.Empty(t, OTELConfig{Token: "secret"}.Headers())

	headers := OTELConfig{InstanceID: "123456", Token: "glc_token"}.Headers()
	// base64("123456:glc_token")
	assert.Equal(t, "Basic MTIzNDU2OmdsY190b2tlbg==", headers["Authorization"])
}
