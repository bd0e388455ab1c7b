package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRuleMetadata is matched by every MalformedRuleMetadataError.
	ErrMalformedRuleMetadata = errors.New("malformed rule metadata")

	// ErrConflictingRule is matched by every ConflictingRuleError.
	ErrConflictingRule = errors.New("conflicting rule definitions")
)

// MalformedRuleMetadataError reports a rule that could not be constructed from
// server metadata. Key is empty when the key itself was the problem.
type MalformedRuleMetadataError struct {
	Key    string
	Field  string
	Reason string
}

func (e *MalformedRuleMetadataError) Error() string {
	switch {
	case e.Key != "" && e.Field != "":
		return fmt.Sprintf("malformed rule metadata for %q: field %q %s", e.Key, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("malformed rule metadata: field %q %s", e.Field, e.Reason)
	default:
		return "malformed rule metadata: " + e.Reason
	}
}

func (e *MalformedRuleMetadataError) Is(target error) bool {
	return target == ErrMalformedRuleMetadata
}

func malformed(key, field, reason string, args ...any) *MalformedRuleMetadataError {
	return &MalformedRuleMetadataError{Key: key, Field: field, Reason: fmt.Sprintf(reason, args...)}
}

type ConflictingRuleError struct {
	Key string
}

func (e *ConflictingRuleError) Error() string {
	return fmt.Sprintf("rule %q is defined more than once with different content", e.Key)
}

func (e *ConflictingRuleError) Is(target error) bool {
	return target == ErrConflictingRule
}
