package database

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdfpress/internal/compression"
)

// Database handles database operations
type Database struct {
	db *gorm.DB
}

// NewDatabase creates a new database instance
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows one writer; one connection also keeps :memory: databases shared
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Auto-migrate the schema
	if err := db.AutoMigrate(&UserPreferences{}, &JobRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the underlying connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetPreferences gets the current user preferences
func (d *Database) GetPreferences() (*UserPreferencesData, error) {
	prefs, err := d.getOrCreatePreferences()
	if err != nil {
		return nil, err
	}

	prefsData := prefs.GetPreferences()
	return &prefsData, nil
}

// UpdatePreferences applies a partial update coming from the frontend.
// JSON numbers arrive as float64. Invalid presets or DPI values are
// rejected and nothing is saved.
func (d *Database) UpdatePreferences(data map[string]interface{}) error {
	prefs, err := d.getOrCreatePreferences()
	if err != nil {
		return err
	}

	currentPrefs := prefs.GetPreferences()

	if val, ok := data["preset"]; ok {
		token, ok := val.(string)
		if !ok {
			return fmt.Errorf("%w: preset must be a string, got %T", compression.ErrInvalidSettings, val)
		}
		preset, err := compression.ParsePreset(token)
		if err != nil {
			return err
		}
		currentPrefs.Preset = preset
	}

	if val, ok := data["dpi"]; ok {
		dpi, err := dpiValue(val)
		if err != nil {
			return err
		}
		currentPrefs.DPI = dpi
	}

	if val, ok := data["last_input_dir"]; ok {
		if dir, ok := val.(string); ok {
			currentPrefs.LastInputDir = dir
		}
	}

	if val, ok := data["advanced_options_expanded"]; ok {
		if expanded, ok := val.(bool); ok {
			currentPrefs.AdvancedOptionsExpanded = expanded
		}
	}

	if err := currentPrefs.Settings().Validate(); err != nil {
		return err
	}

	return d.savePreferences(prefs, currentPrefs)
}

// dpiValue accepts whole numbers only
func dpiValue(val interface{}) (int, error) {
	switch dpi := val.(type) {
	case float64:
		if dpi != math.Trunc(dpi) {
			return 0, fmt.Errorf("%w: dpi must be a whole number, got %v", compression.ErrInvalidSettings, dpi)
		}
		return int(dpi), nil
	case int:
		return dpi, nil
	default:
		return 0, fmt.Errorf("%w: dpi must be a number, got %T", compression.ErrInvalidSettings, val)
	}
}

// SaveSettings stores the compression settings
func (d *Database) SaveSettings(settings compression.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	prefs, err := d.getOrCreatePreferences()
	if err != nil {
		return err
	}

	currentPrefs := prefs.GetPreferences()
	currentPrefs.Preset = settings.Preset
	currentPrefs.DPI = settings.DPI
	return d.savePreferences(prefs, currentPrefs)
}

// SetLastInputDir remembers the directory of the last picked file
func (d *Database) SetLastInputDir(dir string) error {
	prefs, err := d.getOrCreatePreferences()
	if err != nil {
		return err
	}

	currentPrefs := prefs.GetPreferences()
	currentPrefs.LastInputDir = dir
	return d.savePreferences(prefs, currentPrefs)
}

func (d *Database) savePreferences(prefs *UserPreferences, data UserPreferencesData) error {
	if err := prefs.SetPreferences(data); err != nil {
		return err
	}
	return d.db.Save(prefs).Error
}

// getOrCreatePreferences gets existing preferences or creates default ones
func (d *Database) getOrCreatePreferences() (*UserPreferences, error) {
	var prefs UserPreferences

	result := d.db.First(&prefs, 1)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}

		prefs = UserPreferences{ID: 1}
		if err := prefs.SetPreferences(DefaultPreferences()); err != nil {
			return nil, err
		}
		if err := d.db.Create(&prefs).Error; err != nil {
			return nil, err
		}
	}

	return &prefs, nil
}
