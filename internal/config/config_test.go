package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSecret satisfies the 32-character minimum.
const testSecret = "0123456789abcdef0123456789abcdef"

// clearEnv unsets every PLATEA_ variable a test might inherit, then applies
// the overrides. t.Setenv restores everything afterwards.
func clearEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	keys := []string{
		"PLATEA_DB_HOST", "PLATEA_DB_PORT", "PLATEA_DB_USER", "PLATEA_DB_PASSWORD",
		"PLATEA_DB_NAME", "PLATEA_DB_SSLMODE", "PLATEA_DB_MAX_CONNS",
		"PLATEA_REDIS_ADDR", "PLATEA_REDIS_PASSWORD", "PLATEA_REDIS_DB",
		"PLATEA_JWT_SECRET", "PLATEA_JWT_ACCESS_TTL", "PLATEA_JWT_REFRESH_TTL",
		"PLATEA_SERVER_ADDR", "PLATEA_SERVER_READ_TIMEOUT", "PLATEA_SERVER_WRITE_TIMEOUT",
		"PLATEA_CORS_ORIGINS",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
	for k, v := range overrides {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, map[string]string{"PLATEA_JWT_SECRET": testSecret})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "platea_dev", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t, map[string]string{
		"PLATEA_JWT_SECRET":          testSecret,
		"PLATEA_DB_HOST":             "db.internal",
		"PLATEA_DB_PORT":             "6432",
		"PLATEA_DB_SSLMODE":          "verify-full",
		"PLATEA_JWT_ACCESS_TTL":      "5m",
		"PLATEA_SERVER_ADDR":         ":9090",
		"PLATEA_CORS_ORIGINS":        "https://app.example.com, https://admin.example.com ,",
		"PLATEA_SERVER_READ_TIMEOUT": "45s",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "verify-full", cfg.Database.SSLMode)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t,
		[]string{"https://app.example.com", "https://admin.example.com"},
		cfg.Server.CORSOrigins,
		"list values are trimmed and empties dropped")
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		wantIn    string
	}{
		{
			name:      "missing secret",
			overrides: map[string]string{},
			wantIn:    "PLATEA_JWT_SECRET is required",
		},
		{
			name:      "short secret",
			overrides: map[string]string{"PLATEA_JWT_SECRET": "too-short"},
			wantIn:    "at least 32 characters",
		},
		{
			name: "unparsable port",
			overrides: map[string]string{
				"PLATEA_JWT_SECRET": testSecret,
				"PLATEA_DB_PORT":    "fivethousand",
			},
			wantIn: "PLATEA_DB_PORT",
		},
		{
			name: "port out of range",
			overrides: map[string]string{
				"PLATEA_JWT_SECRET": testSecret,
				"PLATEA_DB_PORT":    "70000",
			},
			wantIn: "must be 1-65535",
		},
		{
			name: "zero max conns",
			overrides: map[string]string{
				"PLATEA_JWT_SECRET":   testSecret,
				"PLATEA_DB_MAX_CONNS": "0",
			},
			wantIn: "PLATEA_DB_MAX_CONNS",
		},
		{
			name: "negative access ttl",
			overrides: map[string]string{
				"PLATEA_JWT_SECRET":     testSecret,
				"PLATEA_JWT_ACCESS_TTL": "-1m",
			},
			wantIn: "PLATEA_JWT_ACCESS_TTL",
		},
		{
			name: "garbage duration",
			overrides: map[string]string{
				"PLATEA_JWT_SECRET":          testSecret,
				"PLATEA_SERVER_READ_TIMEOUT": "soon",
			},
			wantIn: "PLATEA_SERVER_READ_TIMEOUT",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t, tc.overrides)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.wantIn)
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     6432,
		User:     "platea",
		Password: "s3cret",
		DBName:   "platea_prod",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=6432 user=platea password=s3cret dbname=platea_prod sslmode=require",
		db.DSN())
}
