// Package tvmlinker provides CGO bindings for the TVM linker.
// It implements the tvmasm.Engine interface.
//
// The linker is consumed through its C wrapper, which takes JSON request
// documents and answers with JSON; binary payloads travel base64-encoded.
//
// Build requires:
//   - the tvmlinker static library with its C wrapper
//   - point the linker at it, e.g.:
//     CGO_LDFLAGS="-L$TVM_LINKER/target/release -ltvmlinker"
package tvmlinker
