//go:build !cgo

package libsolc

import "sold/internal/solc"

// Ensure Compiler implements the interface.
var _ solc.Compiler = (*Compiler)(nil)

// Compiler drives the in-process Solidity frontend.
// This is a stub for builds without CGO.
type Compiler struct{}

// New returns the frontend binding.
func New() *Compiler { return &Compiler{} }

// Compile reports the frontend as unavailable.
func (c *Compiler) Compile(string, solc.ReadResolver) (string, error) {
	return "", solc.ErrUnavailable
}

// Version reports a placeholder for the missing frontend.
func (c *Compiler) Version() string { return "unavailable" }

// License reports a placeholder for the missing frontend.
func License() string { return "unavailable" }
