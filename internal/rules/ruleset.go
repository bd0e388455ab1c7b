package rules

import (
	"slices"
	"sort"
)

// RuleSet is an immutable collection of descriptors keyed by rule key.
// A nil *RuleSet is an empty set.
type RuleSet struct {
	byKey map[string]RuleDescriptor
	keys  []string
}

// NewRuleSet indexes descs by key. Exact duplicates are collapsed; two
// descriptors sharing a key but differing in content yield a ConflictingRuleError.
func NewRuleSet(descs ...RuleDescriptor) (*RuleSet, error) {
	byKey := make(map[string]RuleDescriptor, len(descs))
	for _, d := range descs {
		if existing, ok := byKey[d.Key()]; ok {
			if !existing.Equal(d) {
				return nil, &ConflictingRuleError{Key: d.Key()}
			}
			continue
		}
		byKey[d.Key()] = d
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &RuleSet{byKey: byKey, keys: keys}, nil
}

func (s *RuleSet) Get(key string) (RuleDescriptor, bool) {
	if s == nil {
		return RuleDescriptor{}, false
	}
	d, ok := s.byKey[key]
	return d, ok
}

func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the rule keys in ascending order.
func (s *RuleSet) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.keys)
}

// All returns every descriptor ordered by key.
func (s *RuleSet) All() []RuleDescriptor {
	return s.Filter(RuleFilter{})
}

// RuleFilter selects descriptors. The zero value matches everything.
type RuleFilter struct {
	MinSeverity Severity
	Types       []RuleType
}

func (f RuleFilter) Matches(d RuleDescriptor) bool {
	if f.MinSeverity.Valid() && d.Severity().Rank() < f.MinSeverity.Rank() {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, d.Type()) {
		return false
	}
	return true
}

// Filter returns the matching descriptors ordered by key.
func (s *RuleSet) Filter(f RuleFilter) []RuleDescriptor {
	if s == nil {
		return nil
	}
	out := make([]RuleDescriptor, 0, len(s.keys))
	for _, k := range s.keys {
		if d := s.byKey[k]; f.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}
