// Package config reads server settings from the environment.
//
//	PORT                 listen port (default 8080)
//	DB_PATH              bolt database file (default meditrack.db)
//	STORE_DRIVER         bolt, postgres or memory (default bolt)
//	DATABASE_URL         Postgres DSN, required for STORE_DRIVER=postgres
//	EXPIRY_SOON_MONTHS   length of the expiring-soon window (default 3)
//	AI_GATEWAY_URL       assistant service base URL; empty disables it
//	AI_GATEWAY_KEY       bearer token for the assistant service
//	AI_GATEWAY_TIMEOUT   per-attempt timeout, Go duration (default 10s)
//	AI_GATEWAY_RETRIES   extra attempts after a failure (default 2)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Values of STORE_DRIVER.
const (
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the server settings.
type Config struct {
	Port        string
	DBPath      string
	StoreDriver string
	DatabaseURL string

	ExpirySoonMonths int

	GatewayURL     string
	GatewayKey     string
	GatewayTimeout time.Duration
	GatewayRetries int
}

// Load builds a Config from the process environment.
func Load() (*Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup to resolve variables.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	c := &Config{
		Port:        get("PORT", "8080"),
		DBPath:      get("DB_PATH", "meditrack.db"),
		StoreDriver: get("STORE_DRIVER", DriverBolt),
		DatabaseURL: get("DATABASE_URL", ""),
		GatewayURL:  get("AI_GATEWAY_URL", ""),
		GatewayKey:  get("AI_GATEWAY_KEY", ""),
	}

	var err error
	if c.ExpirySoonMonths, err = strconv.Atoi(get("EXPIRY_SOON_MONTHS", "3")); err != nil || c.ExpirySoonMonths < 0 {
		return nil, fmt.Errorf("EXPIRY_SOON_MONTHS must be a non-negative integer, got %q", get("EXPIRY_SOON_MONTHS", ""))
	}
	if c.GatewayTimeout, err = time.ParseDuration(get("AI_GATEWAY_TIMEOUT", "10s")); err != nil || c.GatewayTimeout <= 0 {
		return nil, fmt.Errorf("AI_GATEWAY_TIMEOUT must be a positive duration, got %q", get("AI_GATEWAY_TIMEOUT", ""))
	}
	if c.GatewayRetries, err = strconv.Atoi(get("AI_GATEWAY_RETRIES", "2")); err != nil || c.GatewayRetries < 0 {
		return nil, fmt.Errorf("AI_GATEWAY_RETRIES must be a non-negative integer, got %q", get("AI_GATEWAY_RETRIES", ""))
	}

	switch c.StoreDriver {
	case DriverBolt, DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	return c, nil
}
