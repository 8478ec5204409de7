package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pdfpress/internal/common"
	"pdfpress/internal/compression"
	"pdfpress/internal/config"
	"pdfpress/internal/database"
	"pdfpress/internal/jobs"
	"pdfpress/internal/metrics"
	"pdfpress/internal/paths"
	"pdfpress/internal/pdfinfo"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	// EventJob carries jobs.Event values to the frontend
	EventJob = "job:event"

	shutdownTimeout = 10 * time.Second
	versionTimeout  = 5 * time.Second
)

// NewApp creates a new application instance
func NewApp() *App {
	return &App{
		logger:    slog.Default(),
		inspect:   pdfinfo.Inspect,
		documents: paths.DocumentsDir,
		session:   &sessionStats{},
		settings:  compression.DefaultSettings(),
	}
}

// OnStartup is called when the app context is ready
func (a *App) OnStartup(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = ctx
	a.mu.Unlock()

	if err := a.initialize(ctx); err != nil {
		a.startupErr = err
		a.logger.Error("Failed to initialize application", "error", err)
		return
	}

	a.logger.Info("Wails app initialized successfully")
	a.logger.Info("Application configuration",
		"data_directory", a.config.AppDataDir,
		"database_path", a.config.DatabasePath,
		"ghostscript_path", a.tool.Path(),
		"ghostscript_available", a.tool.Available())
}

func (a *App) initialize(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.config = cfg

	closer, err := cfg.SetupLogger()
	if err != nil {
		cfg.Logger.Warn("Logging to stderr only", "error", err)
	}
	a.logCloser = closer
	a.logger = cfg.Logger

	cfg.ResolveGhostscript()

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	m := metrics.New()
	compressor := compression.NewCompressor(cfg.GhostscriptPath, cfg.Logger)
	if err := a.wire(db, compressor, newWailsDialogs(ctx), m); err != nil {
		_ = db.Close()
		return err
	}

	if cfg.MetricsAddr != "" {
		metricsCtx, cancel := context.WithCancel(context.Background())
		a.stopMetrics = cancel
		m.Serve(metricsCtx, cfg.MetricsAddr, cfg.Logger)
	}

	return nil
}

// wire connects the persistence, compressor and dialogs to a fresh runner
func (a *App) wire(store Store, tool ghostscriptTool, dialogs DialogHandler, m *metrics.Metrics) error {
	runner, err := jobs.NewRunner(tool, a.logger,
		jobs.WithRecorder(store),
		jobs.WithObserver(jobObserver{metrics: m, session: a.session}),
		jobs.WithNotifier(a.emit))
	if err != nil {
		return err
	}

	a.store = store
	a.tool = tool
	a.dialogs = dialogs
	a.metrics = m
	a.runner = runner

	prefs, err := store.GetPreferences()
	if err != nil {
		a.logger.Warn("Failed to load preferences, using defaults", "error", err)
		return nil
	}

	a.mu.Lock()
	a.settings = prefs.Settings()
	a.mu.Unlock()
	return nil
}

// OnShutdown stops a running job and releases resources
func (a *App) OnShutdown(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = nil
	stopMetrics := a.stopMetrics
	logCloser := a.logCloser
	a.mu.Unlock()

	if a.runner != nil {
		waitCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		if err := a.runner.Close(waitCtx); err != nil {
			a.logger.Warn("Compression did not stop before shutdown", "error", err)
		}
		cancel()
	}
	if stopMetrics != nil {
		stopMetrics()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close database", "error", err)
		}
	}

	a.logger.Info("Application shut down")
	if logCloser != nil {
		_ = logCloser.Close()
	}
}

// GetAppStatus reports configuration and tool availability
func (a *App) GetAppStatus() map[string]interface{} {
	status := map[string]interface{}{
		"status":                "running",
		"framework":             "Wails",
		"app_name":              common.AppName,
		"ghostscript_available": false,
		"job_status":            jobs.StatusIdle,
	}

	if a.startupErr != nil {
		status["status"] = "error"
		status["error"] = a.startupErr.Error()
	}
	if a.config != nil {
		status["data_directory"] = a.config.AppDataDir
		status["database_path"] = a.config.DatabasePath
		status["log_path"] = a.config.LogPath
	}
	if a.tool != nil {
		status["ghostscript_path"] = a.tool.Path()
		status["ghostscript_available"] = a.tool.Available()
		if a.tool.Available() {
			ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
			defer cancel()
			if version, err := a.tool.Version(ctx); err == nil {
				status["ghostscript_version"] = version
			}
		}
	}
	if a.runner != nil {
		status["job_status"] = a.runner.State().Status
	}

	return status
}

// GetStats returns lifetime and session compression statistics
func (a *App) GetStats() (*AppStats, error) {
	if a.store == nil {
		return nil, ErrNotInitialized
	}

	totals, err := a.store.Totals()
	if err != nil {
		return nil, err
	}
	files, saved := a.session.read()

	return &AppStats{
		TotalFilesCompressed:   totals.FilesCompressed,
		TotalDataSaved:         totals.BytesSaved,
		TotalFailedJobs:        totals.FailedJobs,
		SessionFilesCompressed: files,
		SessionDataSaved:       saved,
	}, nil
}

// GetHistory returns the most recent jobs, newest first
func (a *App) GetHistory(limit int) ([]database.JobRecord, error) {
	if a.store == nil {
		return nil, ErrNotInitialized
	}
	return a.store.RecentJobs(limit)
}

// emit pushes job events to the frontend while the window is alive
func (a *App) emit(event jobs.Event) {
	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()

	if ctx != nil {
		wailsruntime.EventsEmit(ctx, EventJob, event)
	}
}

func (a *App) ready() error {
	if a.runner == nil {
		if a.startupErr != nil {
			return errors.Join(ErrNotInitialized, a.startupErr)
		}
		return ErrNotInitialized
	}
	return nil
}
