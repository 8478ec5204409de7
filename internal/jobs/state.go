package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pdfpress/internal/compression"
)

// Status is the externally visible state of the compression job slot
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrJobAlreadyRunning = errors.New("a compression job is already running")
	ErrNoRunningJob      = errors.New("no running job")
)

// Terminal reports whether s ends a job
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Snapshot is a consistent copy of the job state
type Snapshot struct {
	Status     Status                  `json:"status"`
	JobID      string                  `json:"job_id,omitempty"`
	Request    *compression.JobRequest `json:"request,omitempty"`
	Result     *compression.Result     `json:"result,omitempty"`
	Error      string                  `json:"error,omitempty"`
	ExitCode   int                     `json:"exit_code,omitempty"`
	StartedAt  time.Time               `json:"started_at,omitempty"`
	FinishedAt time.Time               `json:"finished_at,omitempty"`
}

// Processing reports whether a job is in flight
func (s Snapshot) Processing() bool {
	return s.Status == StatusRunning
}

// Complete reports whether the last job finished successfully
func (s Snapshot) Complete() bool {
	return s.Status == StatusSucceeded
}

// Gate holds the single job slot. Every transition happens under one lock
// so readers never see a half-applied state.
type Gate struct {
	mu      sync.Mutex
	current Snapshot
	now     func() time.Time
}

// NewGate creates a gate in idle state
func NewGate() *Gate {
	return &Gate{
		current: Snapshot{Status: StatusIdle},
		now:     time.Now,
	}
}

// Begin moves the gate to running for jobID. It fails without changes when
// a job is already running.
func (g *Gate) Begin(jobID string, req compression.JobRequest) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current.Status == StatusRunning {
		return g.current, ErrJobAlreadyRunning
	}

	g.current = Snapshot{
		Status:    StatusRunning,
		JobID:     jobID,
		Request:   &req,
		StartedAt: g.now().UTC(),
	}
	return g.current, nil
}

// Finish records the outcome of jobID. Completions for any other job are
// ignored and reported as an error.
func (g *Gate) Finish(jobID string, result *compression.Result, err error) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current.Status != StatusRunning || g.current.JobID != jobID {
		return g.current, fmt.Errorf("finish %s: %w", jobID, ErrNoRunningJob)
	}

	next := g.current
	next.FinishedAt = g.now().UTC()
	switch {
	case err == nil:
		next.Status = StatusSucceeded
		next.Result = result
	case errors.Is(err, context.Canceled):
		next.Status = StatusCancelled
		next.Error = "compression cancelled"
	default:
		next.Status = StatusFailed
		next.Error = err.Error()
		next.ExitCode = compression.ExitCode(err)
	}

	g.current = next
	return g.current, nil
}

// Acknowledge clears a finished job so the gate reads idle again. It does
// nothing while a job is running.
func (g *Gate) Acknowledge() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current.Status.Terminal() {
		g.current = Snapshot{Status: StatusIdle}
	}
	return g.current
}

// Current returns a snapshot of the gate
func (g *Gate) Current() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// IsRunning reports whether a job is in flight
func (g *Gate) IsRunning() bool {
	return g.Current().Processing()
}
