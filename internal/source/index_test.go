package source

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveBasic(t *testing.T) {
	ix := NewIndex()
	ix.Record("a.sol", []byte("ab\ncd\n"))

	cases := []struct {
		offset uint32
		want   LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{2, LineCol{Line: 1, Col: 3}}, // the newline itself
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
		{5, LineCol{Line: 2, Col: 3}},
	}
	for _, tc := range cases {
		got, err := ix.Resolve("a.sol", tc.offset)
		if err != nil {
			t.Fatalf("Resolve(%d): unexpected error: %v", tc.offset, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%d) = %+v, want %+v", tc.offset, got, tc.want)
		}
	}
}

func TestResolveBoundaryStartsNextLine(t *testing.T) {
	ix := NewIndex()
	ix.Record("a.sol", []byte("ab\ncd\nef\n"))

	// Offsets 3 and 6 sit exactly at recorded line ends; they belong to the
	// following line at column 1, never to the line they terminate.
	for i, offset := range []uint32{3, 6} {
		got, err := ix.Resolve("a.sol", offset)
		if err != nil {
			t.Fatalf("Resolve(%d): unexpected error: %v", offset, err)
		}
		want := LineCol{Line: uint32(i + 2), Col: 1}
		if got != want {
			t.Fatalf("Resolve(%d) = %+v, want %+v", offset, got, want)
		}
	}
}

func TestResolveRoundTrip(t *testing.T) {
	contents := []string{
		"pragma ton-solidity >= 0.72.0;\n\ncontract C {\n    uint a;\n}\n",
		"one\r\ntwo\r\nthree",
		"\n\n\n",
		"no terminator at all",
		"mixed\nendings\r\nhere\n\nlast",
	}
	for _, content := range contents {
		ix := NewIndex()
		ix.Record("f", []byte(content))

		// Independent line-start table: line n starts right after the
		// (n-1)-th newline.
		starts := []int{0}
		for i := 0; i < len(content); i++ {
			if content[i] == '\n' {
				starts = append(starts, i+1)
			}
		}

		for offset := 0; offset < len(content); offset++ {
			pos, err := ix.Resolve("f", uint32(offset))
			if err != nil {
				t.Fatalf("content %q: Resolve(%d): %v", content, offset, err)
			}
			back := starts[pos.Line-1] + int(pos.Col) - 1
			if back != offset {
				t.Fatalf("content %q: offset %d resolved to %+v which maps back to %d",
					content, offset, pos, back)
			}
		}

		// One past the last byte is no longer a position.
		if _, err := ix.Resolve("f", uint32(len(content))); !errors.Is(err, ErrPositionNotFound) {
			t.Fatalf("content %q: Resolve(len) error = %v, want ErrPositionNotFound", content, err)
		}
	}
}

func TestResolveCRLF(t *testing.T) {
	ix := NewIndex()
	ix.Record("w.sol", []byte("a\r\nb"))

	cases := []struct {
		offset uint32
		want   LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}}, // '\r' counts as a column of line 1
		{2, LineCol{Line: 1, Col: 3}},
		{3, LineCol{Line: 2, Col: 1}},
	}
	for _, tc := range cases {
		got, err := ix.Resolve("w.sol", tc.offset)
		if err != nil {
			t.Fatalf("Resolve(%d): unexpected error: %v", tc.offset, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%d) = %+v, want %+v", tc.offset, got, tc.want)
		}
	}
}

func TestResolveUnknownFile(t *testing.T) {
	ix := NewIndex()
	ix.Record("known.sol", []byte("x\n"))

	if _, err := ix.Resolve("unknown.sol", 0); !errors.Is(err, ErrFileNotIndexed) {
		t.Fatalf("Resolve on unknown file: error = %v, want ErrFileNotIndexed", err)
	}
	if ix.Recorded("unknown.sol") {
		t.Fatal("Recorded reported an unknown file as present")
	}
	if !ix.Recorded("known.sol") {
		t.Fatal("Recorded missed a recorded file")
	}
}

func TestResolveEmptyFile(t *testing.T) {
	ix := NewIndex()
	ix.Record("empty.sol", nil)

	if _, err := ix.Resolve("empty.sol", 0); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("Resolve on empty file: error = %v, want ErrPositionNotFound", err)
	}
}

func TestRecordReplacesPrevious(t *testing.T) {
	ix := NewIndex()
	ix.Record("f.sol", []byte("a\nb\nc\n"))
	ix.Record("f.sol", []byte(strings.Repeat("x", 10)))

	got, err := ix.Resolve("f.sol", 9)
	if err != nil {
		t.Fatalf("Resolve after re-record: %v", err)
	}
	if want := (LineCol{Line: 1, Col: 10}); got != want {
		t.Fatalf("Resolve after re-record = %+v, want %+v", got, want)
	}
}
