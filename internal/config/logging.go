package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger. The level comes from ASTEROIDS_LOG_LEVEL
// (default info); an unknown level falls back to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(GetEnv("ASTEROIDS_LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}

// OpenLogFile opens the log destination named by ASTEROIDS_LOG_FILE for
// front-ends that own the terminal. Without it, logs are discarded.
func OpenLogFile() (io.WriteCloser, error) {
	path := GetEnv("ASTEROIDS_LOG_FILE", "")
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
