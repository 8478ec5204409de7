// Package pdfinfo checks that a picked file is a readable PDF.
package pdfinfo

import (
	"errors"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

const pdfMIME = "application/pdf"

var (
	ErrNotPDF        = errors.New("file is not a PDF")
	ErrUnreadablePDF = errors.New("PDF could not be read")
)

// Document is the metadata shown next to a picked file
type Document struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages"`
	MIME  string `json:"mime"`
}

// Inspect sniffs the file content and counts its pages
func Inspect(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotPDF, path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect file type: %w", err)
	}
	if !mtype.Is(pdfMIME) {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotPDF, info.Name(), mtype.String())
	}

	pages, err := pdfapi.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	return &Document{
		Path:  path,
		Name:  info.Name(),
		Size:  info.Size(),
		Pages: pages,
		MIME:  mtype.String(),
	}, nil
}
