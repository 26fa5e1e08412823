package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr":     "www.example:9000",
		"database_dsn":      "postgres://example/homecloud",
		"storage_location":  "/srv/homecloud",
		"secret_key":        "my_secret_key",
		"session_retention": "168h",
		"upload_retention":  "24h",
		"sweep_interval":    "1h",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddr)
		assert.Equal(t, "postgres://example/homecloud", cfg.DatabaseDSN)
		assert.Equal(t, "/srv/homecloud", cfg.StorageLocation)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 168*time.Hour, cfg.SessionRetention)
		assert.Equal(t, 24*time.Hour, cfg.UploadRetention)
		assert.Equal(t, 1*time.Hour, cfg.SweepInterval)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddr:     "defaults:1234",
			DatabaseDSN:      "postgres://defaults/homecloud",
			StorageLocation:  "/var/lib/homecloud",
			SecretKey:        "key",
			SessionRetention: 2 * time.Hour,
			UploadRetention:  3 * time.Hour,
			SweepInterval:    4 * time.Minute,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddr)
		assert.Equal(t, "postgres://defaults/homecloud", cfg.DatabaseDSN)
		assert.Equal(t, "/var/lib/homecloud", cfg.StorageLocation)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.SessionRetention)
		assert.Equal(t, 3*time.Hour, cfg.UploadRetention)
		assert.Equal(t, 4*time.Minute, cfg.SweepInterval)
	})

	t.Run("partial json keeps untouched fields", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"storage_location": "/mnt/cloud",
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "/mnt/cloud", cfg.StorageLocation)
		assert.Equal(t, ":8000", cfg.EndpointAddr)
		assert.Equal(t, 7*24*time.Hour, cfg.SessionRetention)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
