package app

import (
	"errors"
	"os"
	"path/filepath"

	"pdfpress/internal/compression"
	"pdfpress/internal/jobs"
	"pdfpress/internal/paths"
)

var presetLabels = map[compression.Preset]string{
	compression.PresetDefault:  "Default",
	compression.PresetScreen:   "Screen",
	compression.PresetEbook:    "Ebook",
	compression.PresetPrinter:  "Printer",
	compression.PresetPrepress: "Prepress",
}

// ListPresets returns the presets in display order
func (a *App) ListPresets() []PresetOption {
	presets := compression.Presets()
	options := make([]PresetOption, 0, len(presets))
	for _, p := range presets {
		options = append(options, PresetOption{Value: p, Label: presetLabels[p]})
	}
	return options
}

// GetSettings returns the live compression settings
func (a *App) GetSettings() compression.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// UpdateSettings replaces the live settings. A running job keeps the
// settings it was started with.
func (a *App) UpdateSettings(settings compression.Settings) (compression.Settings, error) {
	if err := settings.Validate(); err != nil {
		return a.GetSettings(), err
	}

	a.mu.Lock()
	a.settings = settings
	a.mu.Unlock()

	if a.store != nil {
		if err := a.store.SaveSettings(settings); err != nil {
			a.logger.Warn("Failed to persist settings", "error", err)
		}
	}
	return settings, nil
}

// UpdatePreferences applies a partial preferences update from the frontend
func (a *App) UpdatePreferences(data map[string]interface{}) error {
	if a.store == nil {
		return ErrNotInitialized
	}
	if err := a.store.UpdatePreferences(data); err != nil {
		a.logger.Error("Failed to update preferences", "error", err)
		return err
	}

	prefs, err := a.store.GetPreferences()
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.settings = prefs.Settings()
	a.mu.Unlock()
	return nil
}

// CurrentSelection returns the picked file, or nil when none is picked
func (a *App) CurrentSelection() *Selection {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.selection == nil {
		return nil
	}
	sel := *a.selection
	return &sel
}

// PickInputFile shows the native file dialog. Dismissing the dialog keeps
// the current selection.
func (a *App) PickInputFile() (*Selection, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	path, err := a.dialogs.OpenPDFFile(a.dialogStartDir())
	if err != nil {
		a.logger.Error("File dialog failed", "error", err)
		return a.CurrentSelection(), err
	}
	if path == "" {
		return a.CurrentSelection(), nil
	}

	return a.SelectInputFile(path)
}

// SelectInputFile validates path, derives its output path and makes it the
// current selection. A finished job is cleared back to idle. On error the
// previous selection is kept.
func (a *App) SelectInputFile(path string) (*Selection, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	outputPath, err := paths.DeriveOutputPath(path)
	if err != nil {
		a.logger.Warn("Rejected input file", "path", path, "error", err)
		return a.CurrentSelection(), err
	}

	doc, err := a.inspect(path)
	if err != nil {
		a.logger.Warn("Rejected input file", "path", path, "error", err)
		return a.CurrentSelection(), err
	}

	sel := &Selection{
		InputPath:  path,
		OutputPath: outputPath,
		Name:       doc.Name,
		Size:       doc.Size,
		Pages:      doc.Pages,
	}

	a.mu.Lock()
	a.selection = sel
	a.mu.Unlock()

	a.runner.Acknowledge()

	if err := a.store.SetLastInputDir(filepath.Dir(path)); err != nil {
		a.logger.Warn("Failed to remember input directory", "error", err)
	}

	a.logger.Info("Input file selected", "input", path, "output", outputPath, "pages", doc.Pages)
	return a.CurrentSelection(), nil
}

// Compress starts compressing the current selection with the current
// settings. It returns jobs.ErrJobAlreadyRunning while a job is in flight.
func (a *App) Compress() (jobs.Snapshot, error) {
	if err := a.ready(); err != nil {
		return jobs.Snapshot{Status: jobs.StatusIdle}, err
	}

	a.mu.Lock()
	sel := a.selection
	settings := a.settings
	a.mu.Unlock()

	if sel == nil {
		return a.runner.State(), ErrNoInputSelected
	}

	req := compression.NewJobRequest(sel.InputPath, sel.OutputPath, settings)
	return a.runner.Submit(req)
}

// CancelCompression stops the running job
func (a *App) CancelCompression() error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.runner.Cancel()
}

// JobState returns the current job snapshot
func (a *App) JobState() jobs.Snapshot {
	if a.runner == nil {
		return jobs.Snapshot{Status: jobs.StatusIdle}
	}
	return a.runner.State()
}

// JobEvents returns job events newer than since
func (a *App) JobEvents(since int64) []jobs.Event {
	if a.runner == nil {
		return nil
	}
	return a.runner.Events(since)
}

// OpenOutputFolder shows the folder holding the last compressed file
func (a *App) OpenOutputFolder() error {
	if err := a.ready(); err != nil {
		return err
	}

	var output string
	if snap := a.runner.State(); snap.Result != nil {
		output = snap.Result.OutputPath
	} else if sel := a.CurrentSelection(); sel != nil {
		output = sel.OutputPath
	}
	if output == "" {
		return ErrNoOutputToReveal
	}

	return a.dialogs.OpenFolder(filepath.Dir(output))
}

// dialogStartDir prefers the last used directory and falls back to the
// documents folder
func (a *App) dialogStartDir() string {
	if prefs, err := a.store.GetPreferences(); err == nil && prefs.LastInputDir != "" {
		if info, err := os.Stat(prefs.LastInputDir); err == nil && info.IsDir() {
			return prefs.LastInputDir
		}
	}

	dir, err := a.documents()
	if err != nil {
		var fallback *paths.FallbackError
		if errors.As(err, &fallback) {
			a.logger.Warn("Documents folder unavailable", "using", fallback.Dir, "error", fallback.Err)
			return fallback.Dir
		}
		a.logger.Warn("Documents folder unavailable", "error", err)
	}
	return dir
}
