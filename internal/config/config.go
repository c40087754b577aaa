// Package config provides configuration for the ticketdesk binaries using
// command-line flags, environment variables, and an optional .env file.
package config

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values shared by the server and client.
type Options struct {
	// Addr is the server's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string

	// SessionSecret signs bearer tokens. Must match between restarts.
	SessionSecret string

	// SessionTTL bounds how long an issued token stays valid.
	SessionTTL time.Duration

	// UploadDir is where ticket attachments are stored and served from.
	UploadDir string

	// Origin is the allowed CORS origin for browser callers.
	Origin string

	// Env selects logging verbosity ("dev" or "prod").
	Env string
}

var options = &Options{}

// init registers command-line flags with defaults.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port")
	flag.StringVar(&options.DatabaseDSN, "d", "", "postgres DSN")
	flag.StringVar(&options.UploadDir, "uploads", "uploads", "attachment directory")
}

// Parse loads .env (when present), parses flags, and applies environment
// overrides. Environment variables win over flags, matching how the server
// is deployed.
func Parse() *Options {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	flag.Parse()

	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		options.Addr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		options.DatabaseDSN = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		options.UploadDir = v
	}

	options.SessionSecret = env("SESSION_SECRET", "dev-only-secret")
	options.SessionTTL = 24 * time.Hour
	options.Origin = env("CORS_ORIGIN", "http://localhost:3000")
	options.Env = env("APP_ENV", "dev")

	return options
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
