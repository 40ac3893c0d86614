//go:build cgo

package libsolc

/*
#include <stdlib.h>
#include <string.h>

extern void* solidity_alloc(size_t _size);
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"sold/internal/solc"
)

// soldReadCallback is the frontend's read-file callback: context carries the
// request's resolver as a cgo handle. Content and error strings go back in
// buffers from solidity_alloc, which the frontend reclaims on reset.
//
//export soldReadCallback
func soldReadCallback(context unsafe.Pointer, kind, data *C.char, errOut **C.char) *C.char {
	resolve := cgo.Handle(uintptr(context)).Value().(solc.ReadResolver)
	content, err := resolve(C.GoString(kind), C.GoString(data))
	if err != nil {
		*errOut = allocString(err.Error())
		return nil
	}
	return allocBytes(content)
}

// allocBytes copies b into a frontend-owned, NUL-terminated buffer.
func allocBytes(b []byte) *C.char {
	buf := C.solidity_alloc(C.size_t(len(b) + 1))
	if buf == nil {
		return nil
	}
	if len(b) > 0 {
		C.memcpy(buf, unsafe.Pointer(&b[0]), C.size_t(len(b)))
	}
	*(*C.char)(unsafe.Add(buf, len(b))) = 0
	return (*C.char)(buf)
}

func allocString(s string) *C.char {
	return allocBytes([]byte(s))
}
