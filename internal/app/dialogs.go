package app

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var pdfDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "PDF Files (*.pdf)",
		Pattern:     "*.pdf",
	},
}

// DialogHandler wraps the native dialogs and shell integration
type DialogHandler interface {
	OpenPDFFile(defaultDir string) (string, error)
	OpenFolder(path string) error
}

type wailsDialogs struct {
	ctx context.Context
}

func newWailsDialogs(ctx context.Context) DialogHandler {
	return &wailsDialogs{ctx: ctx}
}

// OpenPDFFile opens a single file selection dialog for PDF files. An empty
// path means the user dismissed the dialog.
func (h *wailsDialogs) OpenPDFFile(defaultDir string) (string, error) {
	selection, err := wailsruntime.OpenFileDialog(h.ctx, wailsruntime.OpenDialogOptions{
		Title:            "Select a PDF to compress",
		DefaultDirectory: defaultDir,
		Filters:          pdfDialogFilter,
	})
	if err != nil {
		return "", err
	}

	return selection, nil
}

// OpenFolder shows path in the system file manager
func (h *wailsDialogs) OpenFolder(path string) error {
	wailsruntime.BrowserOpenURL(h.ctx, fileURL(path))
	return nil
}

// fileURL turns a local path into an escaped file:// URL. Drive-letter
// paths get the leading slash file URLs require.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
