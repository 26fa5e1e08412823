package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first if present; variables already
// set in the environment win over the file.
//
// Recognized variables:
//
//	LISTEN_ADDR       HTTP bind address
//	DATABASE_URL      PostgreSQL DSN
//	STORAGE_LOCATION  sandbox root directory
//	SECRET_KEY        cookie signing secret
//	SESSION_RETENTION session lifetime, time.ParseDuration format
//	UPLOAD_RETENTION  upload slot lifetime, time.ParseDuration format
//	SWEEP_INTERVAL    expiry sweep period, time.ParseDuration format
//
// Unset or empty variables leave the current value untouched.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	setString("LISTEN_ADDR", &config.EndpointAddr)
	setString("DATABASE_URL", &config.DatabaseDSN)
	setString("STORAGE_LOCATION", &config.StorageLocation)
	setString("SECRET_KEY", &config.SecretKey)
	setDuration("SESSION_RETENTION", &config.SessionRetention)
	setDuration("UPLOAD_RETENTION", &config.UploadRetention)
	setDuration("SWEEP_INTERVAL", &config.SweepInterval)
}
