// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// defaultDatabasePath is used when no database path is configured.
const defaultDatabasePath = "~/.local/share/ppp/ppp.db"

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath resolves the configured database location, falling back to
// the standard per-user data directory.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = defaultDatabasePath
	}
	return ExpandPath(path)
}
