package rules

import "fmt"

// Severity is the server-assigned importance of a rule violation.
// The zero value is not a valid severity.
type Severity uint8

const (
	SeverityInfo Severity = iota + 1
	SeverityMinor
	SeverityMajor
	SeverityCritical
	SeverityBlocker
)

// Severities returns every severity in ascending order.
func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityMinor, SeverityMajor, SeverityCritical, SeverityBlocker}
}

// ParseSeverity maps a wire value onto the closed severity set.
// Matching is exact: the server always sends upper case.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "INFO":
		return SeverityInfo, nil
	case "MINOR":
		return SeverityMinor, nil
	case "MAJOR":
		return SeverityMajor, nil
	case "CRITICAL":
		return SeverityCritical, nil
	case "BLOCKER":
		return SeverityBlocker, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityMinor:
		return "MINOR"
	case SeverityMajor:
		return "MAJOR"
	case SeverityCritical:
		return "CRITICAL"
	case SeverityBlocker:
		return "BLOCKER"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Rank orders severities from INFO (1) to BLOCKER (5). Invalid values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityMinor:
		return 2
	case SeverityMajor:
		return 3
	case SeverityCritical:
		return 4
	case SeverityBlocker:
		return 5
	default:
		return 0
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid severity %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
