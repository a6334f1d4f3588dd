package config

import (
	"os"
	"path/filepath"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// DefaultKeyMapPath is where key bindings live when ASTEROIDS_KEYS is unset.
// Returns "" when no user config directory can be determined.
func DefaultKeyMapPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "asteroids", "keys.toml")
}
