package solc

import (
	"encoding/json"
	"fmt"
)

// Request is the standard-JSON document submitted to the compiler.
type Request struct {
	Language string            `json:"language"`
	Settings Settings          `json:"settings"`
	Sources  map[string]Source `json:"sources"`
}

// Settings carries the options understood by the TVM Solidity frontend.
// Every field is serialized even when empty; the frontend treats absent and
// empty differently in places and the empty forms are the documented ones.
type Settings struct {
	IncludePaths      []string                       `json:"includePaths"`
	ForceRemoteUpdate bool                           `json:"forceRemoteUpdate"`
	MainContract      string                         `json:"mainContract"`
	OutputSelection   map[string]map[string][]string `json:"outputSelection"`
}

// Source names one input document by URL. The frontend pulls the actual
// bytes through the read callback, so the URL is simply the local path.
type Source struct {
	URLs []string `json:"urls"`
}

// RequestOpts selects what a request asks the compiler for.
type RequestOpts struct {
	IncludePaths      []string
	MainContract      string
	ForceRemoteUpdate bool
	// WantAssembly is false for runs that stop at the ABI or the AST;
	// dropping "assembly" from the selection skips code generation.
	WantAssembly bool
	// FunctionIDs additionally requests the public function dispatch table.
	FunctionIDs bool
}

// NewRequest builds the request document for a single top-level input file.
// The same path serves as the source key, the source URL, and the
// output-selection key, which is how the frontend ties them together.
func NewRequest(input string, opts RequestOpts) Request {
	wanted := []string{"abi"}
	if opts.WantAssembly {
		wanted = append(wanted, "assembly")
	}
	if opts.FunctionIDs {
		wanted = append(wanted, "showFunctionIds")
	}
	include := opts.IncludePaths
	if include == nil {
		include = []string{}
	}
	return Request{
		Language: "Solidity",
		Settings: Settings{
			IncludePaths:      include,
			ForceRemoteUpdate: opts.ForceRemoteUpdate,
			MainContract:      opts.MainContract,
			OutputSelection: map[string]map[string][]string{
				input: {
					"*": wanted,
					"":  {"ast"},
				},
			},
		},
		Sources: map[string]Source{
			input: {URLs: []string{input}},
		},
	}
}

// Encode serializes the request document.
func (r Request) Encode() (string, error) {
	buf, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode compiler request: %w", err)
	}
	return string(buf), nil
}
