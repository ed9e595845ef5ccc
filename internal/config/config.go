// Package config provides functionality for managing configuration
// options for the server using command-line flags, a JSON config file,
// and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the server.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string.
	DatabaseDSN string

	// Config is the path to the config file.
	Config string

	// HIBPAPIKey is the breach-directory credential used by the email
	// proxy. Kept server-side on purpose; it must never reach clients.
	HIBPAPIKey string

	// HIBPAPIURL overrides the breach-directory base URL (tests).
	HIBPAPIURL string

	// CertFile and KeyFile enable TLS when both are set.
	CertFile string
	KeyFile  string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flag.StringVar(&options.CertFile, "cert", "", "path to TLS certificate")
	flag.StringVar(&options.KeyFile, "key", "", "path to TLS key")
}

// Parse parses the command-line flags, config file, and environment
// variables, in that order of increasing precedence, and returns the
// resulting Options.
func Parse() *Options {
	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if key := os.Getenv("HIBP_API_KEY"); key != "" {
		options.HIBPAPIKey = key
	}

	return options
}
