package rules

import (
	"encoding/json"
	"fmt"
)

// Wire field names used by the rules endpoints of the Web API.
const (
	FieldKey      = "key"
	FieldName     = "name"
	FieldHTMLDesc = "htmlDesc"
	FieldSeverity = "severity"
	FieldType     = "type"
)

// RuleDescriptor is a snapshot of one rule's metadata as reported by the
// server at fetch time. Values are only produced by the constructors in this
// package and never change afterwards, so they can be shared between
// goroutines freely.
type RuleDescriptor struct {
	key      string
	name     string
	htmlDesc string
	severity Severity
	ruleType RuleType
}

func NewRuleDescriptor(key, name, htmlDesc string, severity Severity, ruleType RuleType) (RuleDescriptor, error) {
	if key == "" {
		return RuleDescriptor{}, malformed("", FieldKey, "must not be empty")
	}
	if !severity.Valid() {
		return RuleDescriptor{}, malformed(key, FieldSeverity, "has unknown value %s", severity)
	}
	if !ruleType.Valid() {
		return RuleDescriptor{}, malformed(key, FieldType, "has unknown value %s", ruleType)
	}
	return RuleDescriptor{
		key:      key,
		name:     name,
		htmlDesc: htmlDesc,
		severity: severity,
		ruleType: ruleType,
	}, nil
}

// FromFields builds a descriptor from raw parsed key/value pairs, typically the
// result of decoding one element of a rule listing into a map. Fields other
// than the five known ones are ignored.
func FromFields(fields map[string]any) (RuleDescriptor, error) {
	key, err := stringField(fields, "", FieldKey)
	if err != nil {
		return RuleDescriptor{}, err
	}
	if key == "" {
		return RuleDescriptor{}, malformed("", FieldKey, "must not be empty")
	}

	name, err := stringField(fields, key, FieldName)
	if err != nil {
		return RuleDescriptor{}, err
	}
	htmlDesc, err := stringField(fields, key, FieldHTMLDesc)
	if err != nil {
		return RuleDescriptor{}, err
	}

	rawSeverity, err := stringField(fields, key, FieldSeverity)
	if err != nil {
		return RuleDescriptor{}, err
	}
	severity, err := ParseSeverity(rawSeverity)
	if err != nil {
		return RuleDescriptor{}, malformed(key, FieldSeverity, "has unknown value %q", rawSeverity)
	}

	rawType, err := stringField(fields, key, FieldType)
	if err != nil {
		return RuleDescriptor{}, err
	}
	ruleType, err := ParseRuleType(rawType)
	if err != nil {
		return RuleDescriptor{}, malformed(key, FieldType, "has unknown value %q", rawType)
	}

	return RuleDescriptor{
		key:      key,
		name:     name,
		htmlDesc: htmlDesc,
		severity: severity,
		ruleType: ruleType,
	}, nil
}

func stringField(fields map[string]any, key, field string) (string, error) {
	raw, ok := fields[field]
	if !ok {
		return "", malformed(key, field, "is missing")
	}
	if raw == nil {
		return "", malformed(key, field, "is null")
	}
	s, ok := raw.(string)
	if !ok {
		return "", malformed(key, field, "must be a string, got %T", raw)
	}
	return s, nil
}

// DecodeRuleDescriptor parses a single JSON rule object.
func DecodeRuleDescriptor(data []byte) (RuleDescriptor, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return RuleDescriptor{}, malformed("", "", "invalid JSON object: %s", err.Error())
	}
	return FromFields(fields)
}

func (d RuleDescriptor) Key() string {
	return d.key
}

func (d RuleDescriptor) Name() string {
	return d.name
}

// HTMLDesc is the rule explanation as HTML. It may be empty.
func (d RuleDescriptor) HTMLDesc() string {
	return d.htmlDesc
}

func (d RuleDescriptor) Severity() Severity {
	return d.severity
}

func (d RuleDescriptor) Type() RuleType {
	return d.ruleType
}

func (d RuleDescriptor) Equal(other RuleDescriptor) bool {
	return d == other
}

func (d RuleDescriptor) String() string {
	return fmt.Sprintf("%s [%s/%s] %s", d.key, d.severity, d.ruleType, d.name)
}

type wireRule struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	HTMLDesc string   `json:"htmlDesc"`
	Severity Severity `json:"severity"`
	Type     RuleType `json:"type"`
}

func (d RuleDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRule{
		Key:      d.key,
		Name:     d.name,
		HTMLDesc: d.htmlDesc,
		Severity: d.severity,
		Type:     d.ruleType,
	})
}

// UnmarshalJSON applies the same validation as DecodeRuleDescriptor. The
// receiver is left untouched when decoding fails.
func (d *RuleDescriptor) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeRuleDescriptor(data)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}
