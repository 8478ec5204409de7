// Package paths derives output file names and locates the user's folders.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdfpress/internal/common"
)

var (
	ErrInvalidInputPath       = errors.New("input path has no file name")
	ErrEnvironmentUnavailable = errors.New("user directory unavailable")
)

// OutputExt is the extension of every compressed copy
const OutputExt = ".pdf"

// DeriveOutputPath returns <dir>/<stem>_compressed.pdf for input, where dir
// is the input's parent directory and stem its file name without extension.
func DeriveOutputPath(input string) (string, error) {
	stem, err := Stem(input)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(input), stem+common.OutputSuffix+OutputExt), nil
}

// Stem returns the file name of path without its final extension. Names
// that start with a dot and have no other dot, like ".pdf", are their own stem.
func Stem(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidInputPath)
	}
	if os.IsPathSeparator(path[len(path)-1]) {
		return "", fmt.Errorf("%w: %s", ErrInvalidInputPath, path)
	}

	base := filepath.Base(path)
	if base == "." || base == ".." || base == string(filepath.Separator) || filepath.VolumeName(path) == path {
		return "", fmt.Errorf("%w: %s", ErrInvalidInputPath, path)
	}

	ext := filepath.Ext(base)
	if ext == base {
		return base, nil
	}
	return strings.TrimSuffix(base, ext), nil
}

// FallbackError reports that the preferred directory was unavailable and
// Dir was chosen instead. Dir is always usable.
type FallbackError struct {
	Dir string
	Err error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("documents directory unavailable, using %s: %v", e.Dir, e.Err)
}

func (e *FallbackError) Unwrap() error {
	return e.Err
}

func (e *FallbackError) Is(target error) bool {
	return target == ErrEnvironmentUnavailable
}

type locator struct {
	userHomeDir func() (string, error)
	getwd       func() (string, error)
	stat        func(string) (os.FileInfo, error)
	tempDir     func() string
}

var defaultLocator = locator{
	userHomeDir: os.UserHomeDir,
	getwd:       os.Getwd,
	stat:        os.Stat,
	tempDir:     os.TempDir,
}

// DocumentsDir returns the user's documents folder. When it does not exist
// the home directory, the working directory or the temp directory is
// returned together with a *FallbackError.
func DocumentsDir() (string, error) {
	return defaultLocator.documentsDir()
}

func (l locator) documentsDir() (string, error) {
	home, err := l.userHomeDir()
	if err != nil {
		if wd, wdErr := l.getwd(); wdErr == nil {
			return wd, &FallbackError{Dir: wd, Err: err}
		}
		dir := l.tempDir()
		return dir, &FallbackError{Dir: dir, Err: err}
	}

	docs := filepath.Join(home, "Documents")
	info, err := l.stat(docs)
	if err == nil && info.IsDir() {
		return docs, nil
	}
	if err == nil {
		err = fmt.Errorf("%s is not a directory", docs)
	}
	return home, &FallbackError{Dir: home, Err: err}
}
