package app

import "errors"

var (
	ErrNotInitialized   = errors.New("application is not initialized")
	ErrNoInputSelected  = errors.New("no input file selected")
	ErrNoOutputToReveal = errors.New("no compressed file to show")
)
