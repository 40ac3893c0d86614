package solc

import (
	"fmt"
	"io"
	"sort"

	"sold/internal/diag"
	"sold/internal/diagfmt"
	"sold/internal/source"
)

// ScanDiagnostics renders every diagnostics entry to w in response order and
// fails with ErrCompilationFailed if any entry carried error severity.
//
// Rendering is not cut short by the verdict: a failing response still gets
// all of its diagnostics printed first, warnings included. A malformed entry
// aborts the scan with ErrBadResponse; entries before it have already been
// rendered.
func ScanDiagnostics(w io.Writer, out *Output, index *source.Index) error {
	severe := false
	for i := range out.Errors {
		d, err := out.Errors[i].diagnostic()
		if err != nil {
			return err
		}
		if d.Severity == diag.SevError {
			severe = true
		}
		diagfmt.Render(w, d, index)
	}
	if severe {
		return ErrCompilationFailed
	}
	return nil
}

func (e *SourceError) diagnostic() (diag.Diagnostic, error) {
	sev, err := diag.ParseSeverity(e.Severity)
	if err != nil {
		return diag.Diagnostic{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if e.FormattedMessage == nil {
		return diag.Diagnostic{}, fmt.Errorf("%w: diagnostic without formattedMessage", ErrBadResponse)
	}
	if e.SourceLocation == nil {
		return diag.Diagnostic{}, fmt.Errorf("%w: diagnostic without sourceLocation", ErrBadResponse)
	}
	return diag.Diagnostic{
		Severity:  sev,
		Message:   e.Message,
		Formatted: *e.FormattedMessage,
		File:      e.SourceLocation.File,
		Start:     e.SourceLocation.Start,
		End:       e.SourceLocation.End,
	}, nil
}

// SelectContract picks exactly one contract of input from the response.
//
// A non-empty name must match exactly; nothing is inferred from it. With no
// name the choice must be unambiguous: when needAssembly is set only
// contracts that actually got code generated count as candidates, and zero
// or several candidates abort rather than guess. Candidates are considered
// in sorted name order, so equal responses always yield the same choice.
func SelectContract(out *Output, input, name string, needAssembly bool) (*Contract, error) {
	all, ok := out.Contracts[input]
	if !ok {
		return nil, fmt.Errorf("%w: no contracts for %q", ErrBadResponse, input)
	}

	if name != "" {
		c, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("source file doesn't contain the desired contract %q", name)
		}
		return &c, nil
	}

	qualification := ""
	if needAssembly {
		qualification = "deployable "
	}

	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)

	var chosen *Contract
	for _, n := range names {
		c := all[n]
		if needAssembly && c.Assembly == nil {
			continue
		}
		if chosen != nil {
			return nil, fmt.Errorf("source file contains at least two %scontracts; "+
				"add the option --contract to select the desired one", qualification)
		}
		chosen = &c
	}
	if chosen == nil {
		return nil, fmt.Errorf("source file contains no %scontracts", qualification)
	}
	return chosen, nil
}
