package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/flagx"
)

// Config holds runtime settings for the TutorHub CLI.
type Config struct {
	ServerURL      string        `mapstructure:"server_url"`
	SessionDBPath  string        `mapstructure:"session_db_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.SessionDBPath = defaultSessionDBPath()
	c.RequestTimeout = 10 * time.Second
}

// defaultSessionDBPath puts the session cache under the user's config
// directory, or the working directory when that is unknown.
func defaultSessionDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tutorhub-session.db"
	}
	return filepath.Join(dir, "tutorhub", "session.db")
}

// LoadConfig applies defaults, then the optional config file, then flags.
// Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := loadFile(cfg, flagx.ConfigFile(os.Args[1:])); err != nil {
		panic(err)
	}
	parseFlags(cfg)
	return cfg
}
