package compression

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// commandResult is the captured outcome of one process run
type commandResult struct {
	Output   string
	ExitCode int
}

// commandRunner abstracts process execution for tests
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// waitDelay bounds how long Wait blocks on output pipes after the process is killed
const waitDelay = 2 * time.Second

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	result := commandResult{Output: strings.TrimSpace(out.String())}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}
	return result, err
}

// Compressor runs Ghostscript for one job at a time
type Compressor struct {
	ghostscriptPath string
	logger          *slog.Logger
	runner          commandRunner
	stat            func(name string) (os.FileInfo, error)
	now             func() time.Time
}

// NewCompressor creates a new compressor instance
func NewCompressor(ghostscriptPath string, logger *slog.Logger) *Compressor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compressor{
		ghostscriptPath: ghostscriptPath,
		logger:          logger,
		runner:          execRunner{},
		stat:            os.Stat,
		now:             time.Now,
	}
}

// Compress runs Ghostscript for req and blocks until it exits
func (c *Compressor) Compress(ctx context.Context, req JobRequest) (*Result, error) {
	if c.ghostscriptPath == "" {
		return nil, ErrToolUnavailable
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inputInfo, err := c.stat(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	args := BuildArgs(req)
	c.logger.Debug("Running ghostscript", "path", c.ghostscriptPath, "args", args)

	start := c.now()
	out, runErr := c.runner.Run(ctx, c.ghostscriptPath, args...)
	elapsed := c.now().Sub(start)

	if runErr != nil {
		// A killed process reports an exit error; the caller asked for it.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, &ExitError{Code: out.ExitCode, Output: out.Output, Err: runErr}
		}
		return nil, &SpawnError{Path: c.ghostscriptPath, Err: runErr}
	}

	outputInfo, err := c.stat(req.OutputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoOutput
		}
		return nil, fmt.Errorf("read output file: %w", err)
	}

	originalSize := inputInfo.Size()
	compressedSize := outputInfo.Size()
	var ratio float64
	if originalSize > 0 {
		ratio = float64(originalSize-compressedSize) / float64(originalSize) * 100
	}

	return &Result{
		InputPath:        req.InputPath,
		OutputPath:       req.OutputPath,
		OriginalSize:     originalSize,
		CompressedSize:   compressedSize,
		SavedBytes:       originalSize - compressedSize,
		CompressionRatio: ratio,
		Duration:         elapsed,
		Output:           out.Output,
	}, nil
}

// Version asks Ghostscript for its version string
func (c *Compressor) Version(ctx context.Context) (string, error) {
	if c.ghostscriptPath == "" {
		return "", ErrToolUnavailable
	}
	out, err := c.runner.Run(ctx, c.ghostscriptPath, "--version")
	if err != nil {
		return "", &SpawnError{Path: c.ghostscriptPath, Err: err}
	}
	return out.Output, nil
}

// Available reports whether a Ghostscript path is configured
func (c *Compressor) Available() bool {
	return c.ghostscriptPath != ""
}

// Path returns the path to the Ghostscript executable
func (c *Compressor) Path() string {
	return c.ghostscriptPath
}
