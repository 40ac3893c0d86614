package diag

import "fmt"

// Severity describes how serious a diagnostic is.
type Severity uint8

const (
	SevError Severity = iota
	SevWarning
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "Error"
	case SevWarning:
		return "Warning"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

// ParseSeverity maps the wire spelling to a Severity. Unrecognized values
// are an error; the caller decides how fatal that is.
func ParseSeverity(raw string) (Severity, error) {
	switch raw {
	case "error":
		return SevError, nil
	case "warning":
		return SevWarning, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", raw)
	}
}
