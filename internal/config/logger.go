package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"pdfpress/internal/common"
)

// NewLogger builds a text logger writing to w
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetupLogger logs to stderr and the log file in the app data directory and
// installs the result as the default logger. The returned closer closes the
// log file.
func (c *Config) SetupLogger() (io.Closer, error) {
	file, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, common.DefaultFilePermissions)
	if err != nil {
		c.Logger = NewLogger(os.Stderr, c.Level)
		slog.SetDefault(c.Logger)
		return io.NopCloser(nil), fmt.Errorf("failed to open log file: %w", err)
	}

	c.Logger = NewLogger(io.MultiWriter(os.Stderr, file), c.Level)
	slog.SetDefault(c.Logger)
	return file, nil
}
