//go:build !cgo

package tvmlinker

import (
	"sold/internal/tvmasm"
)

// Ensure Engine implements the interface.
var _ tvmasm.Engine = (*Engine)(nil)

// Engine drives the native linker.
// This is a stub for builds without CGO.
type Engine struct{}

// New returns the linker binding.
func New() *Engine { return &Engine{} }

// NewSession reports the linker as unavailable.
func (e *Engine) NewSession([]tvmasm.Input, string) (tvmasm.Session, error) {
	return nil, tvmasm.ErrUnavailable
}

// UpdateContractData reports the linker as unavailable.
func (e *Engine) UpdateContractData(string, string, []byte) ([]byte, error) {
	return nil, tvmasm.ErrUnavailable
}
