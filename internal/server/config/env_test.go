package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("STORAGE_LOCATION", "/srv/homecloud")
	t.Setenv("SESSION_RETENTION", "48h")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddr)
	assert.Equal(t, "/srv/homecloud", cfg.StorageLocation)
	assert.Equal(t, 48*time.Hour, cfg.SessionRetention)

	// untouched variables keep their defaults
	assert.Equal(t, 24*time.Hour, cfg.UploadRetention)
	assert.Equal(t, "secretKey", cfg.SecretKey)
}
