// Package tvmasm is the boundary to the TVM assembler that turns compiled
// assembly into a deployable contract container plus its debug map.
package tvmasm

import (
	"encoding/json"
	"errors"

	"sold/internal/keyman"
)

// ErrUnavailable is returned by builds that lack the native assembler.
var ErrUnavailable = errors.New("tvm assembler unavailable in this build")

// Input is one assembly document fed to a session. Order matters: the
// library comes first, the contract's own code after it.
type Input struct {
	Name    string
	Content []byte
}

// AssembleOptions parameterize one Assemble call.
type AssembleOptions struct {
	// WorkChain the container is aimed at. Contracts are assembled for the
	// masterchain (-1) by default.
	WorkChain int
	// CtorParams is a legacy constructor invocation passed through verbatim;
	// empty means no constructor run.
	CtorParams string
}

// AssembleResult is the output of a successful Assemble call.
type AssembleResult struct {
	// Container is the serialized contract container, ready to be written
	// to a .tvc file.
	Container []byte
	// DebugMap maps code cells back to assembly sources.
	DebugMap json.RawMessage
}

// Session is one linking session over a fixed input set.
type Session interface {
	// SetKeypair embeds the public key into the contract's initial data.
	SetKeypair(kp keyman.Keypair)
	Assemble(opts AssembleOptions) (AssembleResult, error)
}

// Engine creates sessions and performs ABI-driven data updates.
type Engine interface {
	// NewSession parses inputs against the contract's ABI document.
	NewSession(inputs []Input, abi string) (Session, error)
	// UpdateContractData merges params, a JSON document of static field
	// values, into data, a bag-of-cells encoded data cell, following the
	// ABI's data layout. It returns the new data cell in the same encoding.
	UpdateContractData(abi, params string, data []byte) ([]byte, error)
}
