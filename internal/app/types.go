package app

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"pdfpress/internal/compression"
	"pdfpress/internal/config"
	"pdfpress/internal/database"
	"pdfpress/internal/jobs"
	"pdfpress/internal/metrics"
	"pdfpress/internal/pdfinfo"
)

// App is the Wails-bound facade over settings, file selection and the job runner
type App struct {
	config     *config.Config
	logger     *slog.Logger
	store      Store
	tool       ghostscriptTool
	runner     *jobs.Runner
	metrics    *metrics.Metrics
	dialogs    DialogHandler
	inspect    func(path string) (*pdfinfo.Document, error)
	documents  func() (string, error)
	session    *sessionStats
	startupErr error

	mu          sync.Mutex
	runtimeCtx  context.Context
	settings    compression.Settings
	selection   *Selection
	logCloser   io.Closer
	stopMetrics context.CancelFunc
}

// Store persists preferences and job history
type Store interface {
	GetPreferences() (*database.UserPreferencesData, error)
	UpdatePreferences(data map[string]interface{}) error
	SaveSettings(settings compression.Settings) error
	SetLastInputDir(dir string) error
	RecordJob(snap jobs.Snapshot) error
	RecentJobs(limit int) ([]database.JobRecord, error)
	Totals() (database.Totals, error)
	Close() error
}

// ghostscriptTool is the compressor plus its availability probes
type ghostscriptTool interface {
	jobs.Compressor
	Available() bool
	Path() string
	Version(ctx context.Context) (string, error)
}

// Selection is the currently picked input file and its derived output
type Selection struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Pages      int    `json:"pages"`
}

// PresetOption is one entry of the preset picker
type PresetOption struct {
	Value compression.Preset `json:"value"`
	Label string             `json:"label"`
}

// AppStats holds application statistics
type AppStats struct {
	TotalFilesCompressed   int64 `json:"total_files_compressed"`
	TotalDataSaved         int64 `json:"total_data_saved"`
	TotalFailedJobs        int64 `json:"total_failed_jobs"`
	SessionFilesCompressed int   `json:"session_files_compressed"`
	SessionDataSaved       int64 `json:"session_data_saved"`
}

// sessionStats counts what this run of the app has compressed
type sessionStats struct {
	mu              sync.Mutex
	filesCompressed int
	dataSaved       int64
}

func (s *sessionStats) add(saved int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesCompressed++
	s.dataSaved += saved
}

func (s *sessionStats) read() (int, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filesCompressed, s.dataSaved
}

// jobObserver feeds finished jobs into metrics and session stats
type jobObserver struct {
	metrics *metrics.Metrics
	session *sessionStats
}

func (o jobObserver) JobStarted() {
	o.metrics.JobStarted()
}

func (o jobObserver) JobFinished(snap jobs.Snapshot) {
	o.metrics.JobFinished(snap)
	if snap.Status == jobs.StatusSucceeded && snap.Result != nil {
		o.session.add(snap.Result.SavedBytes)
	}
}
