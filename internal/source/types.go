package source

// LineCol is a resolved human-readable position. Both fields are 1-based:
// the first byte of a file is line 1, column 1.
type LineCol struct {
	Line uint32
	Col  uint32
}
