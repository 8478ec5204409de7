package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pdfpress/internal/compression"
)

func testRequest() compression.JobRequest {
	return compression.JobRequest{
		InputPath:  "/docs/report.pdf",
		OutputPath: "/docs/report_compressed.pdf",
		DPI:        150,
		Preset:     compression.PresetScreen,
	}
}

func TestGate_StartsIdle(t *testing.T) {
	g := NewGate()
	snap := g.Current()
	if snap.Status != StatusIdle {
		t.Errorf("Expected idle, got %s", snap.Status)
	}
	if snap.Processing() || snap.Complete() {
		t.Error("Idle gate must be neither processing nor complete")
	}
}

func TestGate_BeginWhileRunning(t *testing.T) {
	g := NewGate()
	if _, err := g.Begin("job-1", testRequest()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	snap, err := g.Begin("job-2", testRequest())
	if !errors.Is(err, ErrJobAlreadyRunning) {
		t.Fatalf("Expected ErrJobAlreadyRunning, got %v", err)
	}
	if snap.JobID != "job-1" {
		t.Errorf("Second begin replaced running job: %s", snap.JobID)
	}
}

func TestGate_RequestIsCopied(t *testing.T) {
	g := NewGate()
	req := testRequest()
	if _, err := g.Begin("job-1", req); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	req.DPI = 300
	req.Preset = compression.PresetPrinter

	got := g.Current().Request
	if got.DPI != 150 || got.Preset != compression.PresetScreen {
		t.Errorf("Running request changed after begin: %+v", got)
	}
}

func TestGate_FinishOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   Status
		exitCode int
	}{
		{name: "success", err: nil, status: StatusSucceeded},
		{name: "non-zero exit", err: &compression.ExitError{Code: 1, Output: "Unrecoverable error"}, status: StatusFailed, exitCode: 1},
		{name: "spawn failure", err: &compression.SpawnError{Path: "gs", Err: errors.New("not found")}, status: StatusFailed},
		{name: "cancelled", err: fmt.Errorf("run: %w", context.Canceled), status: StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate()
			if _, err := g.Begin("job-1", testRequest()); err != nil {
				t.Fatalf("Begin failed: %v", err)
			}

			var result *compression.Result
			if tt.err == nil {
				result = &compression.Result{OutputPath: "/docs/report_compressed.pdf"}
			}
			snap, err := g.Finish("job-1", result, tt.err)
			if err != nil {
				t.Fatalf("Finish failed: %v", err)
			}
			if snap.Status != tt.status {
				t.Errorf("Expected %s, got %s", tt.status, snap.Status)
			}
			if snap.ExitCode != tt.exitCode {
				t.Errorf("Expected exit code %d, got %d", tt.exitCode, snap.ExitCode)
			}
			if snap.Processing() {
				t.Error("Finished job still processing")
			}
			if snap.Complete() != (tt.status == StatusSucceeded) {
				t.Errorf("Complete() = %v for %s", snap.Complete(), tt.status)
			}
			if tt.err != nil && snap.Error == "" {
				t.Error("Expected error message on snapshot")
			}
		})
	}
}

func TestGate_FinishStaleJob(t *testing.T) {
	g := NewGate()
	if _, err := g.Finish("job-0", nil, nil); !errors.Is(err, ErrNoRunningJob) {
		t.Errorf("Expected ErrNoRunningJob on idle gate, got %v", err)
	}

	if _, err := g.Begin("job-1", testRequest()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := g.Finish("job-0", nil, nil); !errors.Is(err, ErrNoRunningJob) {
		t.Errorf("Expected stale completion to be rejected, got %v", err)
	}
	if g.Current().Status != StatusRunning {
		t.Error("Stale completion changed the running job")
	}
}

func TestGate_Acknowledge(t *testing.T) {
	g := NewGate()

	if _, err := g.Begin("job-1", testRequest()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if snap := g.Acknowledge(); snap.Status != StatusRunning {
		t.Errorf("Acknowledge while running changed state to %s", snap.Status)
	}

	if _, err := g.Finish("job-1", &compression.Result{}, nil); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	snap := g.Acknowledge()
	if snap.Status != StatusIdle || snap.Complete() || snap.JobID != "" {
		t.Errorf("Expected clean idle snapshot, got %+v", snap)
	}

	// a new job after acknowledge is never reported complete
	if _, err := g.Begin("job-2", testRequest()); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if g.Current().Complete() {
		t.Error("New running job reported complete")
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusIdle:      false,
		StatusRunning:   false,
		StatusSucceeded: true,
		StatusFailed:    true,
		StatusCancelled: true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}
