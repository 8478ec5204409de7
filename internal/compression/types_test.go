package compression

import (
	"errors"
	"testing"
)

func TestPresetTokens(t *testing.T) {
	tests := []struct {
		preset   Preset
		expected string
	}{
		{PresetDefault, "default"},
		{PresetScreen, "screen"},
		{PresetEbook, "ebook"},
		{PresetPrinter, "printer"},
		{PresetPrepress, "prepress"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.preset.String() != tt.expected {
				t.Errorf("Expected token %q, got %q", tt.expected, tt.preset.String())
			}
		})
	}

	if len(Presets()) != len(tests) {
		t.Errorf("Expected %d presets, got %d", len(tests), len(Presets()))
	}
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("  Ebook ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p != PresetEbook {
		t.Errorf("Expected %q, got %q", PresetEbook, p)
	}

	if _, err := ParsePreset("ultra"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Expected ErrUnknownPreset, got %v", err)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Preset != PresetScreen {
		t.Errorf("Expected default preset screen, got %s", s.Preset)
	}
	if s.DPI != 150 {
		t.Errorf("Expected default DPI 150, got %d", s.DPI)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected default settings to be valid, got %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		valid    bool
	}{
		{"lower bound", Settings{Preset: PresetEbook, DPI: MinDPI}, true},
		{"upper bound", Settings{Preset: PresetPrepress, DPI: MaxDPI}, true},
		{"below range", Settings{Preset: PresetEbook, DPI: 5}, false},
		{"above range", Settings{Preset: PresetEbook, DPI: 301}, false},
		{"missing preset", Settings{DPI: 150}, false},
		{"unknown preset", Settings{Preset: Preset("ultra"), DPI: 150}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid settings, got %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("Expected validation error")
				}
				if !errors.Is(err, ErrInvalidSettings) {
					t.Errorf("Expected ErrInvalidSettings, got %v", err)
				}
			}
		})
	}
}

func TestJobRequestValidate(t *testing.T) {
	req := NewJobRequest("/docs/a.pdf", "/docs/a_compressed.pdf", DefaultSettings())
	if err := req.Validate(); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}

	same := NewJobRequest("/docs/a.pdf", "/docs/a.pdf", DefaultSettings())
	if err := same.Validate(); err == nil {
		t.Error("Expected error when output path equals input path")
	}

	missing := NewJobRequest("", "/docs/a_compressed.pdf", DefaultSettings())
	if err := missing.Validate(); err == nil {
		t.Error("Expected error for missing input path")
	}
}
