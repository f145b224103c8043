package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "")
	t.Setenv("UBIGEO_HTTP_TIMEOUT", "")

	cfg := LoadConfig()
	assert.Equal(t, DriverMemory, cfg.Catalog.Driver)
	assert.Equal(t, "https://free.e-api.net.pe/ubigeos.json", cfg.Geo.SourceURL)
	assert.Equal(t, 10*time.Second, cfg.Geo.HTTPTimeout)
	assert.Zero(t, cfg.Geo.CacheTTL)
	assert.InDelta(t, 0.72, cfg.Matching.MinScoreMedium, 1e-9)
	assert.InDelta(t, 0.80, cfg.Matching.MinScoreForm, 1e-9)
	assert.True(t, cfg.Pipeline.SchemaValidate)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/catalog.db")
	t.Setenv("UBIGEO_CACHE_TTL", "1h")
	t.Setenv("FUZZY_MIN_SCORE_FORM", "0.9")
	t.Setenv("SCHEMA_VALIDATE", "false")
	t.Setenv("MERGE_STRATEGY", "identity")

	cfg := LoadConfig()
	assert.Equal(t, DriverSQLite, cfg.Catalog.Driver)
	assert.Equal(t, time.Hour, cfg.Geo.CacheTTL)
	assert.InDelta(t, 0.9, cfg.Matching.MinScoreForm, 1e-9)
	assert.False(t, cfg.Pipeline.SchemaValidate)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"postgres without dsn", func(c *Config) { c.Catalog.Driver = DriverPostgres; c.Database.DSN = "" }, "DB_URL"},
		{"sqlite without path", func(c *Config) { c.Catalog.Driver = DriverSQLite; c.Catalog.SQLitePath = "" }, "SQLITE_PATH"},
		{"unknown driver", func(c *Config) { c.Catalog.Driver = "mongo" }, "CATALOG_DRIVER"},
		{"bad threshold", func(c *Config) { c.Matching.MinScoreTiming = 1.5 }, "FUZZY_MIN_SCORE_TIMING"},
		{"bad merge strategy", func(c *Config) { c.Pipeline.MergeStrategy = "random" }, "MERGE_STRATEGY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CATALOG_DRIVER", "")
			cfg := LoadConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
