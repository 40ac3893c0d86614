package solc

import (
	"encoding/json"
	"fmt"
)

// Output is the compiler's structured response document.
type Output struct {
	Errors    []SourceError                  `json:"errors"`
	Contracts map[string]map[string]Contract `json:"contracts"`
	Sources   map[string]SourceResult        `json:"sources"`
}

// Contract is the artifact set the compiler produced for one contract of one
// source unit. Assembly is a pointer because its absence is meaningful: only
// deployable contracts get code generated.
type Contract struct {
	ABI         json.RawMessage `json:"abi,omitempty"`
	Assembly    *string         `json:"assembly,omitempty"`
	FunctionIDs json.RawMessage `json:"functionIds,omitempty"`
}

// SourceResult is the per-file artifact set.
type SourceResult struct {
	ID  int             `json:"id"`
	AST json.RawMessage `json:"ast,omitempty"`
}

// SourceError is one entry of the response's errors array.
type SourceError struct {
	Type             string          `json:"type"`
	Component        string          `json:"component"`
	Severity         string          `json:"severity"`
	Message          string          `json:"message"`
	FormattedMessage *string         `json:"formattedMessage"`
	SourceLocation   *SourceLocation `json:"sourceLocation"`
}

// SourceLocation anchors a diagnostic to a byte range of a source unit. The
// file string matches the path the compiler read, byte for byte. Start is -1
// when the compiler could not attribute a position.
type SourceLocation struct {
	File  string `json:"file"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// ParseOutput decodes the raw response document.
func ParseOutput(raw string) (*Output, error) {
	var out Output
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &out, nil
}
