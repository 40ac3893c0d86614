package solc

import "errors"

var (
	// ErrBadResponse marks a response document that violates the compiler
	// protocol: not the promised shape, or missing a promised field.
	ErrBadResponse = errors.New("failed to parse compilation result")

	// ErrCompilationFailed reports that the diagnostics scan saw at least
	// one error-severity entry. By the time it is returned, every
	// diagnostic of the run has already been rendered.
	ErrCompilationFailed = errors.New("compilation failed")
)
