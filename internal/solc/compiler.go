// Package solc talks to the TVM Solidity frontend over its standard-JSON
// protocol: building request documents, decoding responses, and interpreting
// the result in protocol order (diagnostics first, then contract selection).
package solc

import "errors"

// ErrUnavailable is returned by builds that lack the native frontend.
var ErrUnavailable = errors.New("solidity frontend unavailable in this build")

// ReadResolver fetches one source document on behalf of the compiler.
//
// The frontend resolves import paths itself and calls back with the final
// path; kind is the resolution category ("source" is the only one the
// frontend issues today). The returned bytes are handed to the compiler
// as-is, and the error text, if any, surfaces inside the compiler's own
// diagnostics.
type ReadResolver func(kind, path string) ([]byte, error)

// Compiler is the external Solidity frontend, consumed as an opaque
// request/response service.
//
// Compile submits a standard-JSON request document and returns the raw
// response document. The frontend calls resolve synchronously for every
// source it needs, possibly from threads it owns; implementations must keep
// the resolver callable for the whole duration of the call.
type Compiler interface {
	Compile(input string, resolve ReadResolver) (string, error)
	Version() string
}
