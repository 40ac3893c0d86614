//go:build cgo

package libsolc

/*
#cgo LDFLAGS: -lsolc -lstdc++ -lm

#include <stdint.h>
#include <stdlib.h>

// Exported by libsolc.
extern char const* solidity_version(void);
extern char const* solidity_license(void);
extern char const* solidity_compile(char const* _input, void* _readCallback, void* _readContext);
extern void solidity_reset(void);

// Defined in callback.go.
char* soldReadCallback(void* context, char* kind, char* data, char** error);

// The frontend's callback type takes const char* arguments; the cgo-exported
// function cannot. The detour through void* erases the difference.
static char const* sold_compile(char const* input, uintptr_t handle) {
	return solidity_compile(input, (void*)soldReadCallback, (void*)handle);
}
*/
import "C"

import (
	"errors"
	"runtime/cgo"
	"sync"
	"unsafe"

	"sold/internal/solc"
)

// Ensure Compiler implements the interface.
var _ solc.Compiler = (*Compiler)(nil)

// The frontend keeps process-wide state between calls; serialize access.
var mu sync.Mutex

// Compiler drives the in-process Solidity frontend.
type Compiler struct{}

// New returns the frontend binding.
func New() *Compiler { return &Compiler{} }

// Compile submits a standard-JSON request document and returns the raw
// response. The resolver travels into the native call as a cgo handle and
// stays valid until the frontend returns.
func (c *Compiler) Compile(input string, resolve solc.ReadResolver) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	cInput := C.CString(input)
	defer C.free(unsafe.Pointer(cInput))

	handle := cgo.NewHandle(resolve)
	defer handle.Delete()

	out := C.sold_compile(cInput, C.uintptr_t(handle))
	defer C.solidity_reset()
	if out == nil {
		return "", errors.New("the frontend returned no response")
	}
	return C.GoString(out), nil
}

// Version reports the frontend's own version string.
func (c *Compiler) Version() string {
	mu.Lock()
	defer mu.Unlock()
	return C.GoString(C.solidity_version())
}

// License returns the frontend's license text.
func License() string {
	mu.Lock()
	defer mu.Unlock()
	return C.GoString(C.solidity_license())
}
