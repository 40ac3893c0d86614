// Package libsolc provides CGO bindings for the TVM Solidity frontend.
// It implements the solc.Compiler interface.
//
// Build requires:
//   - the libsolc shared library from a TVM Solidity compiler checkout
//   - point the linker at it, e.g.:
//     CGO_LDFLAGS="-L$TVM_SOLIDITY/build/solc -lsolc"
package libsolc
