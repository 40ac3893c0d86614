// Package abi writes contract interface descriptions in a canonical form.
package abi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// WriteCanonical re-encodes doc, a raw ABI document, with object keys sorted
// and two-space indentation, ending with a newline. The result depends only
// on the document's content, never on the key order the compiler happened to
// emit, so identical interfaces produce byte-identical artifact files.
func WriteCanonical(w io.Writer, doc json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber() // keep function ids and version numbers textually exact
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid interface description: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write interface description: %w", err)
	}
	return nil
}
