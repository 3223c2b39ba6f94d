package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. TUTORHUB_HTTP_ADDR.
const EnvPrefix = "TUTORHUB"

// loadFileAndEnv overlays cfg with values from the config file at path
// (JSON or YAML, chosen by extension; skipped when path is empty) and
// then from TUTORHUB_* environment variables. A .env file in the working
// directory is loaded first if present; it never overrides variables that
// are already set.
func loadFileAndEnv(cfg *Config, path string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// current values act as defaults so that missing keys keep them
	current := map[string]any{
		"http_addr":               cfg.HTTPAddr,
		"storage_backend":         cfg.StorageBackend,
		"database_dsn":            cfg.DatabaseDSN,
		"database_name":           cfg.DatabaseName,
		"secret_key":              cfg.SecretKey,
		"token_validity_duration": cfg.TokenValidityDuration,
		"bcrypt_cost":             cfg.BcryptCost,
		"request_timeout":         cfg.RequestTimeout,
		"shutdown_timeout":        cfg.ShutdownTimeout,
		"log_backend":             cfg.LogBackend,
		"log_level":               cfg.LogLevel,
	}
	for k, val := range current {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
