package compression

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPreset   = errors.New("unknown compression preset")
	ErrInvalidSettings = errors.New("invalid compression settings")
	ErrToolUnavailable = errors.New("ghostscript not found, install ghostscript or set PDFPRESS_GHOSTSCRIPT_PATH")
	ErrToolSpawnFailed = errors.New("ghostscript could not be started")
	ErrToolExitStatus  = errors.New("ghostscript exited with an error")
	ErrNoOutput        = errors.New("ghostscript did not create output file")
)

// SpawnError reports that the Ghostscript executable could not be launched
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

func (e *SpawnError) Is(target error) bool {
	return target == ErrToolSpawnFailed
}

// ExitError reports that Ghostscript ran but exited non-zero
type ExitError struct {
	Code   int
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("ghostscript exited with code %d", e.Code)
	}
	return fmt.Sprintf("ghostscript exited with code %d: %s", e.Code, e.Output)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func (e *ExitError) Is(target error) bool {
	return target == ErrToolExitStatus
}

// ExitCode extracts the tool exit code from err, or 0 when err is not an ExitError
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 0
}
