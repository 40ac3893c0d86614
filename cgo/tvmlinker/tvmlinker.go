//go:build cgo

package tvmlinker

/*
#cgo LDFLAGS: -ltvmlinker -lm

#include <stdlib.h>

extern char* tvm_linker_assemble(char const* request, char** o_error);
extern char* tvm_linker_update_data(char const* request, char** o_error);
extern void tvm_linker_free(char* data);
*/
import "C"

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"unsafe"

	"sold/internal/keyman"
	"sold/internal/tvmasm"
)

// Ensure Engine implements the interface.
var _ tvmasm.Engine = (*Engine)(nil)

// Engine drives the native linker.
type Engine struct{}

// New returns the linker binding.
func New() *Engine { return &Engine{} }

type assembleInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type assembleRequest struct {
	Inputs     []assembleInput `json:"inputs"`
	ABI        string          `json:"abi,omitempty"`
	WorkChain  int             `json:"workchain"`
	CtorParams string          `json:"ctorParams,omitempty"`
	PublicKey  string          `json:"publicKey,omitempty"`
	SecretKey  string          `json:"secretKey,omitempty"`
}

type assembleResponse struct {
	Container string          `json:"container"`
	DebugMap  json.RawMessage `json:"debugMap"`
}

type updateRequest struct {
	ABI    string `json:"abi"`
	Params string `json:"params"`
	Data   string `json:"data"`
}

type updateResponse struct {
	Data string `json:"data"`
}

// Session captures one linking run's input set. The linker itself consumes
// everything in a single native call, so parsing happens at Assemble time.
type Session struct {
	inputs []assembleInput
	abi    string
	kp     *keyman.Keypair
}

// NewSession prepares a session over the given documents, library first.
func (e *Engine) NewSession(inputs []tvmasm.Input, abi string) (tvmasm.Session, error) {
	if len(inputs) == 0 {
		return nil, errors.New("no assembly inputs")
	}
	enc := make([]assembleInput, len(inputs))
	for i, in := range inputs {
		enc[i] = assembleInput{Name: in.Name, Content: base64.StdEncoding.EncodeToString(in.Content)}
	}
	return &Session{inputs: enc, abi: abi}, nil
}

// UpdateContractData merges the given field values into a contract data cell.
func (e *Engine) UpdateContractData(abi, params string, data []byte) ([]byte, error) {
	payload, err := json.Marshal(updateRequest{
		ABI:    abi,
		Params: params,
		Data:   base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, err
	}
	raw, err := invoke(func(req *C.char, errOut **C.char) *C.char {
		return C.tvm_linker_update_data(req, errOut)
	}, payload)
	if err != nil {
		return nil, err
	}
	var resp updateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("malformed linker response: %w", err)
	}
	return base64.StdEncoding.DecodeString(resp.Data)
}

// SetKeypair signs the container's initial state with kp during Assemble.
func (s *Session) SetKeypair(kp keyman.Keypair) { s.kp = &kp }

// Assemble links the session's inputs into a deployable container.
func (s *Session) Assemble(opts tvmasm.AssembleOptions) (tvmasm.AssembleResult, error) {
	req := assembleRequest{
		Inputs:     s.inputs,
		ABI:        s.abi,
		WorkChain:  opts.WorkChain,
		CtorParams: opts.CtorParams,
	}
	if s.kp != nil {
		req.PublicKey = hex.EncodeToString(s.kp.Public)
		req.SecretKey = hex.EncodeToString(s.kp.Secret)
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return tvmasm.AssembleResult{}, err
	}
	raw, err := invoke(func(creq *C.char, errOut **C.char) *C.char {
		return C.tvm_linker_assemble(creq, errOut)
	}, payload)
	if err != nil {
		return tvmasm.AssembleResult{}, err
	}
	var resp assembleResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return tvmasm.AssembleResult{}, fmt.Errorf("malformed linker response: %w", err)
	}
	container, err := base64.StdEncoding.DecodeString(resp.Container)
	if err != nil {
		return tvmasm.AssembleResult{}, fmt.Errorf("malformed linker response: %w", err)
	}
	return tvmasm.AssembleResult{Container: container, DebugMap: resp.DebugMap}, nil
}

// invoke runs one request/response exchange against the linker, copying the
// response out of linker-owned memory before freeing it.
func invoke(fn func(*C.char, **C.char) *C.char, request []byte) ([]byte, error) {
	creq := C.CString(string(request))
	defer C.free(unsafe.Pointer(creq))

	var cerr *C.char
	out := fn(creq, &cerr)
	if out == nil {
		if cerr != nil {
			defer C.tvm_linker_free(cerr)
			return nil, errors.New(C.GoString(cerr))
		}
		return nil, errors.New("the linker returned no response")
	}
	defer C.tvm_linker_free(out)
	return []byte(C.GoString(out)), nil
}
