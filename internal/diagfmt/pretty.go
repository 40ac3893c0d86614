// Package diagfmt renders compiler diagnostics for humans.
package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"

	"sold/internal/diag"
	"sold/internal/source"
)

var (
	errorPrefix   = color.New(color.FgRed, color.Bold)
	warningPrefix = color.New(color.FgYellow, color.Bold)
	headline      = color.New(color.FgWhite, color.Bold)
	gutter        = color.New(color.FgBlue, color.Bold)
	excerpt       = color.New(color.FgYellow)
)

// Render prints one diagnostic: a severity headline, then the compiler's
// formatted block re-anchored to the resolved source line.
//
// Anchoring is best-effort and never fails the caller: when the position
// cannot be resolved (unindexed file, the compiler's -1 "no position", an
// offset past EOF) the formatted message is printed verbatim instead.
func Render(w io.Writer, d diag.Diagnostic, index *source.Index) {
	prefix := warningPrefix
	if d.Severity == diag.SevError {
		prefix = errorPrefix
	}
	fmt.Fprintf(w, "%s: %s\n", prefix.Sprint(d.Severity.String()), headline.Sprint(d.Message))

	pos, err := resolveStart(d, index)
	if err != nil {
		fmt.Fprintln(w, d.Formatted)
		return
	}

	line := strconv.FormatUint(uint64(pos.Line), 10)
	pad := strings.Repeat(" ", len(line))
	for i, text := range messageLines(d.Formatted) {
		switch i {
		case 0:
			fmt.Fprintf(w, "%s%s%s\n", pad, gutter.Sprint("--> "), text)
			fmt.Fprintf(w, "%s %s\n", pad, gutter.Sprint("|"))
		case 1:
			fmt.Fprintf(w, "%s %s\n", gutter.Sprintf("%s |", line), excerpt.Sprint(text))
		default:
			fmt.Fprintf(w, "%s %s %s\n", pad, gutter.Sprint("|"), excerpt.Sprint(text))
		}
	}
	fmt.Fprintln(w)
}

func resolveStart(d diag.Diagnostic, index *source.Index) (source.LineCol, error) {
	offset, err := safecast.Conv[uint32](d.Start)
	if err != nil {
		return source.LineCol{}, err
	}
	return index.Resolve(d.File, offset)
}

// messageLines splits the compiler's block into lines: terminators stripped,
// no phantom empty line after a trailing newline.
func messageLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
