package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment keys, e.g. TUTORHUB_CLIENT_SERVER_URL.
const EnvPrefix = "TUTORHUB_CLIENT"

// loadFile overlays cfg with values from a JSON or YAML file at path
// (skipped when empty) and from TUTORHUB_CLIENT_* variables.
func loadFile(cfg *Config, path string) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("session_db_path", cfg.SessionDBPath)
	v.SetDefault("request_timeout", cfg.RequestTimeout)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return nil
}
