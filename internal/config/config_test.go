package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PDFPRESS_DATA_DIR", dir)
	t.Setenv("PDFPRESS_LOG_LEVEL", "debug")
	t.Setenv("PDFPRESS_METRICS_ADDR", "127.0.0.1:9464")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AppDataDir != dir {
		t.Errorf("Expected data dir %s, got %s", dir, cfg.AppDataDir)
	}
	if cfg.DatabasePath != filepath.Join(dir, "database.sqlite3") {
		t.Errorf("Unexpected database path %s", cfg.DatabasePath)
	}
	if cfg.Level != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.Level)
	}
	if cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Errorf("Unexpected metrics addr %q", cfg.MetricsAddr)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PDFPRESS_DATA_DIR", dir)
	t.Setenv("PDFPRESS_LOG_LEVEL", "")
	t.Cleanup(func() { os.Unsetenv("PDFPRESS_METRICS_ADDR") })
	os.Unsetenv("PDFPRESS_METRICS_ADDR")

	env := "PDFPRESS_METRICS_ADDR=:9999\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MetricsAddr != ":9999" {
		t.Errorf("Expected metrics addr from .env, got %q", cfg.MetricsAddr)
	}
	if cfg.Level != slog.LevelInfo {
		t.Errorf("Expected default info level, got %v", cfg.Level)
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	t.Setenv("PDFPRESS_DATA_DIR", t.TempDir())
	t.Setenv("PDFPRESS_LOG_LEVEL", "chatty")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for invalid log level")
	}
}

func TestFindGhostscript(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "gs-custom")
	if err := os.WriteFile(existing, nil, 0755); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	onPath := func(found ...string) func(string) (string, error) {
		return func(name string) (string, error) {
			for _, f := range found {
				if f == name {
					return "/usr/bin/" + name, nil
				}
			}
			return "", errors.New("not found")
		}
	}

	tests := []struct {
		name     string
		override string
		lookPath func(string) (string, error)
		want     string
		wantErr  bool
	}{
		{name: "override file", override: existing, lookPath: onPath(), want: existing},
		{name: "override on path", override: "gs9", lookPath: onPath("gs9"), want: "/usr/bin/gs9"},
		{name: "override missing", override: "/nope/gs", lookPath: onPath("gs"), wantErr: true},
		{name: "not installed", lookPath: onPath(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindGhostscript(tt.override, tt.lookPath)
			if tt.wantErr {
				if !errors.Is(err, ErrGhostscriptNotFound) {
					t.Fatalf("Expected ErrGhostscriptNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestGhostscriptCommands(t *testing.T) {
	if got := GhostscriptCommands("linux"); len(got) != 1 || got[0] != "gs" {
		t.Errorf("Unexpected linux commands %v", got)
	}
	if got := GhostscriptCommands("windows"); len(got) == 0 || got[0] != "gswin64c" {
		t.Errorf("Unexpected windows commands %v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupLogger(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{LogPath: filepath.Join(dir, "pdfpress.log"), Level: slog.LevelInfo}

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	closer, err := cfg.SetupLogger()
	if err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}
	cfg.Logger.Info("hello from test", "key", "value")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(cfg.LogPath)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected log file to contain output")
	}
}
