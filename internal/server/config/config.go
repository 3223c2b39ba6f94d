// Package config handles configuration for the server component,
// including defaults, a config file and environment overlay, and
// command-line flags.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/flagx"
)

// Storage backends understood by the repository manager.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds runtime settings for the TutorHub server.
//
// Fields:
//   - HTTPAddr: bind address for the REST API.
//   - StorageBackend: one of "mongo", "postgres", "memory".
//   - DatabaseDSN: MongoDB URI or PostgreSQL DSN depending on the backend.
//   - DatabaseName: MongoDB database name; ignored by other backends.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - TokenValidityDuration: bearer token lifetime.
//   - BcryptCost: bcrypt work factor for password hashes.
//   - RequestTimeout / ShutdownTimeout: per-request deadline and graceful stop budget.
//   - LogBackend / LogLevel: see package logging.
type Config struct {
	HTTPAddr              string        `mapstructure:"http_addr"`
	StorageBackend        string        `mapstructure:"storage_backend"`
	DatabaseDSN           string        `mapstructure:"database_dsn"`
	DatabaseName          string        `mapstructure:"database_name"`
	SecretKey             string        `mapstructure:"secret_key"`
	TokenValidityDuration time.Duration `mapstructure:"token_validity_duration"`
	BcryptCost            int           `mapstructure:"bcrypt_cost"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout       time.Duration `mapstructure:"shutdown_timeout"`
	LogBackend            string        `mapstructure:"log_backend"`
	LogLevel              string        `mapstructure:"log_level"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.StorageBackend = BackendMongo
	c.DatabaseDSN = "mongodb://localhost:27017"
	c.DatabaseName = "tutorhub"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 30 * 24 * time.Hour
	c.BcryptCost = 10
	c.RequestTimeout = 15 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.LogBackend = "slog"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and the environment, and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := loadFileAndEnv(cfg, flagx.ConfigFile(os.Args[1:])); err != nil {
		panic(err)
	}
	parseFlags(cfg)
	return cfg
}
