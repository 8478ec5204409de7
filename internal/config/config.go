package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"pdfpress/internal/common"
)

const (
	envFileName      = ".env"
	databaseFileName = "database.sqlite3"
	logFileName      = "pdfpress.log"
)

var ErrGhostscriptNotFound = errors.New("ghostscript executable not found")

// Env holds the settings read from PDFPRESS_* environment variables
type Env struct {
	GhostscriptPath string `env:"PDFPRESS_GHOSTSCRIPT_PATH" env-description:"Path to the Ghostscript executable"`
	DataDir         string `env:"PDFPRESS_DATA_DIR" env-description:"Directory for the database and log file"`
	LogLevel        string `env:"PDFPRESS_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	MetricsAddr     string `env:"PDFPRESS_METRICS_ADDR" env-description:"Listen address for /metrics, disabled when empty"`
}

// Config holds application configuration
type Config struct {
	Env

	AppDataDir      string
	DatabasePath    string
	LogPath         string
	GhostscriptPath string
	Level           slog.Level
	Logger          *slog.Logger
}

// Load reads an optional .env file from the app data directory and then
// the process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	dataDir := os.Getenv("PDFPRESS_DATA_DIR")
	if dataDir == "" {
		dataDir = defaultAppDataDir()
	}

	envFile := filepath.Join(dataDir, envFileName)
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if env.DataDir == "" {
		env.DataDir = dataDir
	}

	level, err := ParseLevel(env.LogLevel)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:    env,
		Level:  level,
		Logger: slog.Default(),
	}
	if err := cfg.setupDirectories(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setupDirectories() error {
	c.AppDataDir = c.Env.DataDir
	if err := os.MkdirAll(c.AppDataDir, common.DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create app data directory: %w", err)
	}

	c.DatabasePath = filepath.Join(c.AppDataDir, databaseFileName)
	c.LogPath = filepath.Join(c.AppDataDir, logFileName)
	return nil
}

// ResolveGhostscript stores the Ghostscript path on the config. A missing
// executable is logged and leaves GhostscriptPath empty.
func (c *Config) ResolveGhostscript() {
	path, err := FindGhostscript(c.Env.GhostscriptPath, exec.LookPath)
	if err != nil {
		c.Logger.Warn("Ghostscript not available", "error", err)
		return
	}

	c.GhostscriptPath = path
	c.Logger.Info("Using Ghostscript", "path", path)
}

// FindGhostscript returns override when it names an existing file and
// otherwise searches PATH for the platform's command names.
func FindGhostscript(override string, lookPath func(string) (string, error)) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override, nil
		}
		if path, err := lookPath(override); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrGhostscriptNotFound, override)
	}

	names := GhostscriptCommands(runtime.GOOS)
	for _, name := range names {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrGhostscriptNotFound, strings.Join(names, ", "))
}

// GhostscriptCommands lists the executable names Ghostscript installs under on goos
func GhostscriptCommands(goos string) []string {
	if goos == "windows" {
		return []string{"gswin64c", "gswin64", "gswin32c"}
	}
	return []string{"gs"}
}

// ParseLevel converts a level name into a slog level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func defaultAppDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, common.AppName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), common.AppName)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(common.AppName))
}
