package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Catalog store drivers understood by CATALOG_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Catalog  CatalogConfig
	Database DatabaseConfig
	Geo      GeoConfig
	Matching MatchingConfig
	Pipeline PipelineConfig
}

// CatalogConfig selects where reference catalogs are read from
type CatalogConfig struct {
	Driver     string
	SQLitePath string
	SeedFile   string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// GeoConfig holds the location-code reference table settings
type GeoConfig struct {
	SourceURL   string
	HTTPTimeout time.Duration
	CacheTTL    time.Duration
	RedisAddr   string
	RedisKey    string
}

// MatchingConfig holds fuzzy-matching thresholds
type MatchingConfig struct {
	MinScoreMedium float64
	MinScoreForm   float64
	MinScoreTiming float64
}

// PipelineConfig holds pipeline behaviour switches
type PipelineConfig struct {
	PaymentPolicyFile string
	MergeStrategy     string
	SchemaValidate    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Driver:     strings.ToLower(getEnv("CATALOG_DRIVER", DriverMemory)),
			SQLitePath: getEnv("SQLITE_PATH", ""),
			SeedFile:   getEnv("CATALOG_SEED_FILE", ""),
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Geo: GeoConfig{
			SourceURL:   getEnv("UBIGEO_ONLINE_URL", "https://free.e-api.net.pe/ubigeos.json"),
			HTTPTimeout: getEnvAsDuration("UBIGEO_HTTP_TIMEOUT", 10*time.Second),
			CacheTTL:    getEnvAsDuration("UBIGEO_CACHE_TTL", 0),
			RedisAddr:   getEnv("REDIS_ADDR", ""),
			RedisKey:    getEnv("UBIGEO_REDIS_KEY", "minutas:ubigeo:table"),
		},
		Matching: MatchingConfig{
			MinScoreMedium: getEnvAsFloat64("FUZZY_MIN_SCORE_MEDIUM", 0.72),
			MinScoreForm:   getEnvAsFloat64("FUZZY_MIN_SCORE_FORM", 0.80),
			MinScoreTiming: getEnvAsFloat64("FUZZY_MIN_SCORE_TIMING", 0.80),
		},
		Pipeline: PipelineConfig{
			PaymentPolicyFile: getEnv("PAYMENT_POLICY_FILE", ""),
			MergeStrategy:     strings.ToLower(getEnv("MERGE_STRATEGY", "positional")),
			SchemaValidate:    getEnvAsBool("SCHEMA_VALIDATE", true),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration for wiring mistakes.
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("CATALOG_DRIVER", c.Catalog.Driver, OneOf(DriverMemory, DriverPostgres, DriverSQLite))
	switch c.Catalog.Driver {
	case DriverPostgres:
		v.Field("DB_URL", c.Database.DSN, Required)
	case DriverSQLite:
		v.Field("SQLITE_PATH", c.Catalog.SQLitePath, Required)
	}
	v.Field("MERGE_STRATEGY", c.Pipeline.MergeStrategy, OneOf("positional", "identity"))
	v.Field("FUZZY_MIN_SCORE_MEDIUM", c.Matching.MinScoreMedium, UnitInterval)
	v.Field("FUZZY_MIN_SCORE_FORM", c.Matching.MinScoreForm, UnitInterval)
	v.Field("FUZZY_MIN_SCORE_TIMING", c.Matching.MinScoreTiming, UnitInterval)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
