package config

import (
	"encoding/json"
	"os"

	"homecloud/internal/flagx"
	"homecloud/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "168h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr     string         `json:"endpoint_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	StorageLocation  string         `json:"storage_location"`
	SecretKey        string         `json:"secret_key"`
	SessionRetention timex.Duration `json:"session_retention"`
	UploadRetention  timex.Duration `json:"upload_retention"`
	SweepInterval    timex.Duration `json:"sweep_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics. Fields absent from the file
// keep their current value.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JSONConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.StorageLocation != "" {
		config.StorageLocation = c.StorageLocation
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionRetention.Duration != 0 {
		config.SessionRetention = c.SessionRetention.Duration
	}
	if c.UploadRetention.Duration != 0 {
		config.UploadRetention = c.UploadRetention.Duration
	}
	if c.SweepInterval.Duration != 0 {
		config.SweepInterval = c.SweepInterval.Duration
	}
}
