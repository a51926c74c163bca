// Package config loads cbtkit settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// LogOff disables the log file when used as CBTKIT_LOG_FILE.
const LogOff = "off"

// Config holds runtime settings. Command-line flags override these.
type Config struct {
	DBPath        string `env:"CBTKIT_DB"`
	LogFile       string `env:"CBTKIT_LOG_FILE"`
	LogLevel      string `env:"CBTKIT_LOG_LEVEL"         envDefault:"info"`
	LogMaxSizeMB  int    `env:"CBTKIT_LOG_MAX_SIZE_MB"   envDefault:"10"`
	LogMaxBackups int    `env:"CBTKIT_LOG_MAX_BACKUPS"   envDefault:"3"`
	LogMaxAgeDays int    `env:"CBTKIT_LOG_MAX_AGE_DAYS"  envDefault:"28"`
	OutputDir     string `env:"CBTKIT_OUTPUT_DIR"`
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom reads settings from environ and fills in XDG defaults for the
// log file and output directory. DBPath stays empty unless set; the store
// picks its own default.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if !logLevels[cfg.LogLevel] {
		return Config{}, fmt.Errorf("CBTKIT_LOG_LEVEL %q: want debug, info, warn or error", cfg.LogLevel)
	}
	if cfg.LogMaxSizeMB <= 0 {
		return Config{}, fmt.Errorf("CBTKIT_LOG_MAX_SIZE_MB must be positive, got %d", cfg.LogMaxSizeMB)
	}

	home := environ["HOME"]
	if cfg.LogFile == "" {
		stateHome := environ["XDG_STATE_HOME"]
		if stateHome == "" && home != "" {
			stateHome = filepath.Join(home, ".local", "state")
		}
		if stateHome != "" {
			cfg.LogFile = filepath.Join(stateHome, "cbtkit", "cbtkit.log")
		} else {
			cfg.LogFile = LogOff
		}
	}
	if cfg.OutputDir == "" {
		if home != "" {
			cfg.OutputDir = filepath.Join(home, "Downloads")
		} else {
			cfg.OutputDir = "."
		}
	}
	return cfg, nil
}

// LoggingEnabled reports whether a log file should be written.
func (c Config) LoggingEnabled() bool {
	return c.LogFile != "" && c.LogFile != LogOff
}
