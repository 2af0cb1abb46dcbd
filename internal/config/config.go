// Package config provides runtime configuration values for the session.
package config

import "os"

// Config holds the ambient knobs of the checkout session. The
// interactive contract itself takes no flags; these only tune identity
// and rendering.
type Config struct {
	ServiceName string
	Env         string
	Currency    string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		ServiceName: getenv("SERVICE_NAME", "checkout"),
		Env:         getenv("ENV", "dev"),
		Currency:    getenv("CURRENCY", "€"),
	}
}
