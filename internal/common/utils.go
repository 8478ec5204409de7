package common

import (
	"github.com/google/uuid"
)

const (
	// AppName is used for the window title and the app data directory
	AppName = "PDFPress"

	// OutputSuffix is appended to the input stem to name the compressed copy
	OutputSuffix = "_compressed"

	// File operation constants
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// GenerateUUID generates a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}
