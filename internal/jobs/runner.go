package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"pdfpress/internal/common"
	"pdfpress/internal/compression"
)

// Compressor runs one compression job to completion
type Compressor interface {
	Compress(ctx context.Context, req compression.JobRequest) (*compression.Result, error)
}

// Recorder persists finished jobs
type Recorder interface {
	RecordJob(snapshot Snapshot) error
}

// Observer is told about job starts and finishes
type Observer interface {
	JobStarted()
	JobFinished(snapshot Snapshot)
}

// Option configures a Runner
type Option func(*Runner)

// WithRecorder stores every finished job in rec
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithObserver reports job starts and finishes to obs
func WithObserver(obs Observer) Option {
	return func(r *Runner) { r.observer = obs }
}

// WithNotifier pushes every published event to fn
func WithNotifier(fn func(Event)) Option {
	return func(r *Runner) { r.notify = fn }
}

// WithEventBus replaces the default event history
func WithEventBus(bus *EventBus) Option {
	return func(r *Runner) { r.events = bus }
}

// Runner executes compression jobs on a single background worker
type Runner struct {
	gate       *Gate
	events     *EventBus
	pool       *ants.Pool
	compressor Compressor
	recorder   Recorder
	observer   Observer
	notify     func(Event)
	logger     *slog.Logger
	newID      func() string

	mu          sync.Mutex
	activeJobID string
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewRunner creates a runner with a worker pool of one
func NewRunner(compressor Compressor, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		gate:       NewGate(),
		compressor: compressor,
		logger:     logger,
		newID:      common.GenerateUUID,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.events == nil {
		r.events = NewEventBus(200)
	}

	pool, err := ants.NewPool(1, ants.WithPanicHandler(func(p any) {
		logger.Error("Compression worker panicked", "panic", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	r.pool = pool

	return r, nil
}

// Submit starts req in the background and returns the running snapshot.
// While another job runs it returns ErrJobAlreadyRunning and starts nothing.
func (r *Runner) Submit(req compression.JobRequest) (Snapshot, error) {
	if err := req.Validate(); err != nil {
		return r.gate.Current(), err
	}

	jobID := r.newID()

	// the gate and the cancel handle change together so Cancel never pairs
	// a running job with another job's handle
	r.mu.Lock()
	snap, err := r.gate.Begin(jobID, req)
	if err != nil {
		r.mu.Unlock()
		r.logger.Info("Compression request ignored", "reason", err, "running_job", snap.JobID)
		return snap, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.activeJobID = jobID
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.JobStarted()
	}
	r.logger.Info("Compression started",
		"job_id", jobID,
		"input", req.InputPath,
		"output", req.OutputPath,
		"preset", req.Preset,
		"dpi", req.DPI)
	r.publish(Event{JobID: jobID, Type: EventTypeStatus, Status: StatusRunning, Message: "Compression started"})

	if err := r.pool.Submit(func() { r.run(ctx, jobID, req, done) }); err != nil {
		r.complete(jobID, nil, fmt.Errorf("failed to schedule job: %w", err))
		close(done)
		return r.gate.Current(), err
	}

	return snap, nil
}

func (r *Runner) run(ctx context.Context, jobID string, req compression.JobRequest, done chan struct{}) {
	defer close(done)

	result, err := r.compress(ctx, req)
	r.complete(jobID, result, err)
}

func (r *Runner) compress(ctx context.Context, req compression.JobRequest) (result *compression.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("compression panicked: %v", p)
		}
	}()
	return r.compressor.Compress(ctx, req)
}

func (r *Runner) complete(jobID string, result *compression.Result, jobErr error) {
	snap, err := r.gate.Finish(jobID, result, jobErr)
	if err != nil {
		r.logger.Warn("Ignoring stale job completion", "job_id", jobID, "error", err)
		return
	}

	r.clearActiveJob(jobID)

	if r.recorder != nil {
		if err := r.recorder.RecordJob(snap); err != nil {
			r.logger.Error("Failed to record job history", "job_id", jobID, "error", err)
		}
	}
	if r.observer != nil {
		r.observer.JobFinished(snap)
	}

	switch snap.Status {
	case StatusSucceeded:
		r.logger.Info("Compression finished",
			"job_id", jobID,
			"original_size", result.OriginalSize,
			"compressed_size", result.CompressedSize,
			"duration", result.Duration)
		r.publish(Event{JobID: jobID, Type: EventTypeStatus, Status: snap.Status, Message: "Compression complete"})
		r.publish(Event{JobID: jobID, Type: EventTypeResult, Status: snap.Status, Message: result.OutputPath, Output: result.Output})
	case StatusCancelled:
		r.logger.Info("Compression cancelled", "job_id", jobID)
		r.publish(Event{JobID: jobID, Type: EventTypeStatus, Status: snap.Status, Message: "Compression cancelled"})
	default:
		r.logger.Error("Compression failed", "job_id", jobID, "exit_code", snap.ExitCode, "error", jobErr)
		r.publish(Event{JobID: jobID, Type: EventTypeStatus, Status: snap.Status, Message: "Compression failed"})
		r.publish(Event{JobID: jobID, Type: EventTypeError, Status: snap.Status, Message: snap.Error, ExitCode: snap.ExitCode})
	}
}

// clearActiveJob releases the cancel handle if jobID is still the active job
func (r *Runner) clearActiveJob(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeJobID == jobID && r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Cancel asks the running job to stop
func (r *Runner) Cancel() error {
	r.mu.Lock()
	snap := r.gate.Current()
	cancel := r.cancel
	if cancel == nil || !snap.Processing() || r.activeJobID != snap.JobID {
		r.mu.Unlock()
		return ErrNoRunningJob
	}
	r.mu.Unlock()

	cancel()
	r.logger.Info("Cancellation requested", "job_id", snap.JobID)
	r.publish(Event{JobID: snap.JobID, Type: EventTypeStatus, Status: StatusRunning, Message: "Cancellation requested"})
	return nil
}

// Acknowledge returns a finished gate to idle, for example after a new
// input file is picked.
func (r *Runner) Acknowledge() Snapshot {
	before := r.gate.Current()
	after := r.gate.Acknowledge()
	if before.Status != after.Status {
		r.publish(Event{JobID: before.JobID, Type: EventTypeStatus, Status: after.Status, Message: "Ready"})
	}
	return after
}

// State returns the current job snapshot
func (r *Runner) State() Snapshot {
	return r.gate.Current()
}

// Events returns events published after seq
func (r *Runner) Events(seq int64) []Event {
	return r.events.Since(seq)
}

// Wait blocks until the current job, if any, has finished
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels any running job, waits for it and releases the worker
func (r *Runner) Close(ctx context.Context) error {
	_ = r.Cancel()
	err := r.Wait(ctx)
	r.pool.Release()
	return err
}

func (r *Runner) publish(event Event) {
	published := r.events.Publish(event)
	if r.notify != nil {
		r.notify(published)
	}
}
