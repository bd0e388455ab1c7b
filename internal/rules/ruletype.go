package rules

import "fmt"

// RuleType is the server-assigned category of a rule.
// The zero value is not a valid type.
type RuleType uint8

const (
	TypeCodeSmell RuleType = iota + 1
	TypeBug
	TypeVulnerability
	TypeSecurityHotspot
)

func RuleTypes() []RuleType {
	return []RuleType{TypeCodeSmell, TypeBug, TypeVulnerability, TypeSecurityHotspot}
}

func ParseRuleType(s string) (RuleType, error) {
	switch s {
	case "CODE_SMELL":
		return TypeCodeSmell, nil
	case "BUG":
		return TypeBug, nil
	case "VULNERABILITY":
		return TypeVulnerability, nil
	case "SECURITY_HOTSPOT":
		return TypeSecurityHotspot, nil
	default:
		return 0, fmt.Errorf("unknown rule type %q", s)
	}
}

func (t RuleType) String() string {
	switch t {
	case TypeCodeSmell:
		return "CODE_SMELL"
	case TypeBug:
		return "BUG"
	case TypeVulnerability:
		return "VULNERABILITY"
	case TypeSecurityHotspot:
		return "SECURITY_HOTSPOT"
	default:
		return fmt.Sprintf("RuleType(%d)", uint8(t))
	}
}

func (t RuleType) Valid() bool {
	switch t {
	case TypeCodeSmell, TypeBug, TypeVulnerability, TypeSecurityHotspot:
		return true
	default:
		return false
	}
}

// DisplayName is the label SonarQube shows for the type in its UI.
func (t RuleType) DisplayName() string {
	switch t {
	case TypeCodeSmell:
		return "Code Smell"
	case TypeBug:
		return "Bug"
	case TypeVulnerability:
		return "Vulnerability"
	case TypeSecurityHotspot:
		return "Security Hotspot"
	default:
		return "Unknown"
	}
}

func (t RuleType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid rule type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *RuleType) UnmarshalText(text []byte) error {
	parsed, err := ParseRuleType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
