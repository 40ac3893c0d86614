package diag

// Diagnostic is one entry of the compiler's errors array, reduced to the
// fields the renderer needs.
type Diagnostic struct {
	Severity Severity
	// Message is the short single-line description.
	Message string
	// Formatted is the compiler's own multi-line rendering, source excerpt
	// included.
	Formatted string
	// File names the source unit exactly as the compiler read it.
	File string
	// Start and End are byte offsets into File. The compiler reports -1 for
	// positions it could not attribute.
	Start int64
	End   int64
}
