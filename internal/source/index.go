package source

import (
	"errors"
	"fmt"
	"sync"

	"fortio.org/safecast"
)

var (
	// ErrFileNotIndexed is returned by Resolve for a file Record never saw.
	ErrFileNotIndexed = errors.New("file not indexed")
	// ErrPositionNotFound is returned for an offset past the last recorded
	// line end of an indexed file.
	ErrPositionNotFound = errors.New("position not found")
)

// Index maps (filename, byte offset) pairs to line/column positions.
//
// Files are recorded at the moment the compiler first reads them, which
// happens on a thread we do not control, so the table is guarded by a mutex.
// Offsets are raw byte offsets into the content exactly as recorded; no
// newline translation or decoding is applied.
type Index struct {
	mu    sync.Mutex
	files map[string][]uint32
}

// NewIndex returns an empty position index.
func NewIndex() *Index {
	return &Index{files: make(map[string][]uint32)}
}

// Record scans content once and stores, per line, the offset one past the
// line's last byte (terminator included). A final line without a terminator
// contributes an entry too. Recording the same filename again replaces the
// previous table.
func (ix *Index) Record(filename string, content []byte) {
	ends := lineEnds(content)
	ix.mu.Lock()
	ix.files[filename] = ends
	ix.mu.Unlock()
}

// Recorded reports whether filename has been recorded.
func (ix *Index) Recorded(filename string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, ok := ix.files[filename]
	return ok
}

// Resolve converts a byte offset into a 1-based line/column pair.
//
// An offset equal to a recorded line end belongs to the next line, column 1:
// the scan advances while the offset is not strictly below the current
// line's end. Offsets at or past the end of the file fail with
// ErrPositionNotFound rather than clamping to the last line.
func (ix *Index) Resolve(filename string, offset uint32) (LineCol, error) {
	ix.mu.Lock()
	ends, ok := ix.files[filename]
	ix.mu.Unlock()
	if !ok {
		return LineCol{}, fmt.Errorf("%q: %w", filename, ErrFileNotIndexed)
	}

	line := uint32(1)
	prev := uint32(0)
	for _, end := range ends {
		if offset >= end {
			line++
			prev = end
			continue
		}
		return LineCol{Line: line, Col: offset - prev + 1}, nil
	}
	return LineCol{}, fmt.Errorf("offset %d in %q: %w", offset, filename, ErrPositionNotFound)
}

// lineEnds builds the cumulative line-end table for content.
func lineEnds(content []byte) []uint32 {
	ends := make([]uint32, 0, 64)
	last := 0
	for i, b := range content {
		if b != '\n' {
			continue
		}
		ends = append(ends, convOffset(i+1))
		last = i + 1
	}
	if last < len(content) {
		ends = append(ends, convOffset(len(content)))
	}
	return ends
}

func convOffset(v int) uint32 {
	off, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("source offset overflow: %w", err))
	}
	return off
}
