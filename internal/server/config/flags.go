package config

import (
	"flag"
	"os"
	"time"

	"homecloud/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   PostgreSQL DSN
//	-l string   storage location (sandbox root directory)
//	-s string   cookie signing secret key
//	-e int      session retention, hours
//	-u int      upload retention, hours
//	-w int      sweep interval, minutes
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-l", "-s", "-e", "-u", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageLocation, "l", config.StorageLocation, "storage location")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionRetention := fs.Int("e", int(config.SessionRetention.Hours()), "session_retention (in hours)")
	uploadRetention := fs.Int("u", int(config.UploadRetention.Hours()), "upload_retention (in hours)")
	sweepInterval := fs.Int("w", int(config.SweepInterval.Minutes()), "sweep_interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionRetention = time.Duration(*sessionRetention) * time.Hour
	config.UploadRetention = time.Duration(*uploadRetention) * time.Hour
	config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
}
