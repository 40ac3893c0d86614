// Package stdlib carries the TVM runtime library that contracts are linked
// against when no replacement is given on the command line.
package stdlib

import _ "embed"

// FileName is the name the assembler reports for runtime fragments in
// diagnostics and debug maps.
const FileName = "stdlib_sol.tvm"

//go:embed stdlib_sol.tvm
var library []byte

// Library returns a copy of the embedded runtime assembly.
func Library() []byte {
	out := make([]byte, len(library))
	copy(out, library)
	return out
}
