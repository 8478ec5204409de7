package database

import (
	"encoding/json"
	"time"

	"pdfpress/internal/compression"
)

// UserPreferences database model
type UserPreferences struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PreferencesJSON string    `gorm:"type:text" json:"preferences_json"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserPreferencesData represents user preferences data
type UserPreferencesData struct {
	Preset                  compression.Preset `json:"preset"`
	DPI                     int                `json:"dpi"`
	LastInputDir            string             `json:"last_input_dir"`
	AdvancedOptionsExpanded bool               `json:"advanced_options_expanded"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() UserPreferencesData {
	defaults := compression.DefaultSettings()
	return UserPreferencesData{
		Preset: defaults.Preset,
		DPI:    defaults.DPI,
	}
}

// Settings returns the compression settings stored in the preferences
func (p UserPreferencesData) Settings() compression.Settings {
	return compression.Settings{Preset: p.Preset, DPI: p.DPI}
}

// GetPreferences returns the user preferences data
func (up *UserPreferences) GetPreferences() UserPreferencesData {
	if up.PreferencesJSON == "" {
		return DefaultPreferences()
	}

	var prefs UserPreferencesData
	if err := json.Unmarshal([]byte(up.PreferencesJSON), &prefs); err != nil {
		return DefaultPreferences()
	}
	if prefs.Settings().Validate() != nil {
		defaults := DefaultPreferences()
		prefs.Preset = defaults.Preset
		prefs.DPI = defaults.DPI
	}

	return prefs
}

// SetPreferences sets the user preferences data
func (up *UserPreferences) SetPreferences(prefs UserPreferencesData) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	up.PreferencesJSON = string(data)
	return nil
}

// JobRecord is one finished compression job
type JobRecord struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	InputPath        string    `json:"input_path"`
	OutputPath       string    `json:"output_path"`
	Preset           string    `json:"preset"`
	DPI              int       `json:"dpi"`
	Status           string    `gorm:"index" json:"status"`
	ExitCode         int       `json:"exit_code"`
	Error            string    `gorm:"type:text" json:"error,omitempty"`
	OriginalSize     int64     `json:"original_size"`
	CompressedSize   int64     `json:"compressed_size"`
	SavedBytes       int64     `json:"saved_bytes"`
	CompressionRatio float64   `json:"compression_ratio"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `gorm:"index" json:"finished_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// Totals aggregates the job history
type Totals struct {
	FilesCompressed int64 `json:"files_compressed"`
	FailedJobs      int64 `json:"failed_jobs"`
	BytesSaved      int64 `json:"bytes_saved"`
}
