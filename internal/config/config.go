// Package config wraps the viper configuration singleton for cm.
//
// Precedence, highest to lowest: environment variables (CM_*) >
// .confmig/config.yaml > built-in defaults. Cobra flag overrides are applied
// manually by the command layer on top of this.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ledgrid/confmigrate/internal/debug"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton. Called once at
// application startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	// Walk up from CWD to find the workspace config.yaml, so commands work
	// from subdirectories.
	configFileSet := false
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".confmig", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	// Environment variables take precedence over the config file,
	// e.g. CM_JSON, CM_NO_COLOR, CM_LOCK_TIMEOUT.
	v.SetEnvPrefix("CM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("json", false)
	v.SetDefault("no-color", false)
	v.SetDefault("lock-timeout", "30s")
	v.SetDefault("search-dirs", []string{})
	v.SetDefault("ignore", []string{})
	v.SetDefault("migrations-dir", "migrations")
	v.SetDefault("migrations-package", "migrations")

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		debug.Logf("loaded config from %s", v.ConfigFileUsed())
	} else {
		debug.Logf("no config.yaml found; using defaults and environment variables")
	}

	return nil
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice retrieves a string slice configuration value.
func GetStringSlice(key string) []string {
	if v == nil {
		return []string{}
	}
	return v.GetStringSlice(key)
}

// Set sets a configuration value (used for flag overrides).
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
