// Package cgo provides CGO bindings for native libraries.
// This package isolates all CGO code from the pure Go core.
//
// Sub-packages:
//   - libsolc: TVM Solidity frontend bindings (standard-JSON protocol)
//   - tvmlinker: TVM linker bindings (container assembly and data patching)
package cgo
