package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	c, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Port:             "8080",
		DBPath:           "meditrack.db",
		StoreDriver:      DriverBolt,
		ExpirySoonMonths: 3,
		GatewayTimeout:   10 * time.Second,
		GatewayRetries:   2,
	}, c)
}

func TestOverrides(t *testing.T) {
	c, err := FromLookup(lookupFrom(map[string]string{
		"PORT":               "9090",
		"STORE_DRIVER":       "postgres",
		"DATABASE_URL":       "postgres://localhost/meditrack?sslmode=disable",
		"EXPIRY_SOON_MONTHS": "6",
		"AI_GATEWAY_URL":     "https://assistant.example.com",
		"AI_GATEWAY_TIMEOUT": "1500ms",
		"AI_GATEWAY_RETRIES": "0",
	}))
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, DriverPostgres, c.StoreDriver)
	assert.Equal(t, 6, c.ExpirySoonMonths)
	assert.Equal(t, 1500*time.Millisecond, c.GatewayTimeout)
	assert.Equal(t, 0, c.GatewayRetries)
}

func TestInvalid(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"months":          {"EXPIRY_SOON_MONTHS": "three"},
		"negative months": {"EXPIRY_SOON_MONTHS": "-1"},
		"timeout":         {"AI_GATEWAY_TIMEOUT": "soon"},
		"retries":         {"AI_GATEWAY_RETRIES": "-2"},
		"driver":          {"STORE_DRIVER": "sqlite"},
		"postgres no dsn": {"STORE_DRIVER": "postgres"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}
