package compression

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Preset is a named Ghostscript PDFSETTINGS profile. Its value is the
// lowercase token passed to -dPDFSETTINGS.
type Preset string

const (
	PresetDefault  Preset = "default"
	PresetScreen   Preset = "screen"
	PresetEbook    Preset = "ebook"
	PresetPrinter  Preset = "printer"
	PresetPrepress Preset = "prepress"
)

// DPI bounds exposed by the settings slider
const (
	MinDPI     = 10
	MaxDPI     = 300
	DPIStep    = 10
	DefaultDPI = 150

	DefaultPreset = PresetScreen

	// CompatibilityLevel is the PDF version requested from Ghostscript
	CompatibilityLevel = "1.4"
)

var validate = validator.New()

// Presets returns every preset in display order
func Presets() []Preset {
	return []Preset{PresetDefault, PresetScreen, PresetEbook, PresetPrinter, PresetPrepress}
}

func (p Preset) String() string {
	return string(p)
}

// ParsePreset converts a user supplied token into a Preset
func ParsePreset(s string) (Preset, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Presets() {
		if string(p) == token {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// Settings holds the user-editable compression settings
type Settings struct {
	Preset Preset `json:"preset" validate:"required,oneof=default screen ebook printer prepress"`
	DPI    int    `json:"dpi" validate:"min=10,max=300"`
}

// DefaultSettings returns the settings used on first launch
func DefaultSettings() Settings {
	return Settings{
		Preset: DefaultPreset,
		DPI:    DefaultDPI,
	}
}

// Validate checks the preset and the DPI bounds
func (s Settings) Validate() error {
	return validateStruct(s)
}

// JobRequest is an immutable snapshot of one compression job. It is passed
// by value so edits to the live settings never reach a running job.
type JobRequest struct {
	InputPath  string `json:"input_path" validate:"required"`
	OutputPath string `json:"output_path" validate:"required,nefield=InputPath"`
	DPI        int    `json:"dpi" validate:"min=10,max=300"`
	Preset     Preset `json:"preset" validate:"required,oneof=default screen ebook printer prepress"`
}

// NewJobRequest builds a request from the current settings and paths
func NewJobRequest(inputPath, outputPath string, settings Settings) JobRequest {
	return JobRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		DPI:        settings.DPI,
		Preset:     settings.Preset,
	}
}

// Validate checks that the request can be turned into a Ghostscript call
func (r JobRequest) Validate() error {
	return validateStruct(r)
}

// Result describes a finished compression
type Result struct {
	InputPath        string        `json:"input_path"`
	OutputPath       string        `json:"output_path"`
	OriginalSize     int64         `json:"original_size"`
	CompressedSize   int64         `json:"compressed_size"`
	SavedBytes       int64         `json:"saved_bytes"`
	CompressionRatio float64       `json:"compression_ratio"`
	Duration         time.Duration `json:"duration"`
	Output           string        `json:"output,omitempty"`
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s failed %s=%s (got %v)", ErrInvalidSettings, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %s failed %s", ErrInvalidSettings, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
}
