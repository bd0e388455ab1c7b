package rules_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
)

func TestParseSeverity(t *testing.T) {
	for _, sev := range rules.Severities() {
		parsed, err := rules.ParseSeverity(sev.String())
		require.NoError(t, err)
		assert.Equal(t, sev, parsed)
		assert.True(t, parsed.Valid())
	}

	for _, bad := range []string{"", "major", "HIGH", "Blocker", " INFO"} {
		_, err := rules.ParseSeverity(bad)
		assert.Error(t, err, bad)
	}
}

func TestSeverityRank(t *testing.T) {
	sevs := rules.Severities()
	for i := 1; i < len(sevs); i++ {
		assert.Greater(t, sevs[i].Rank(), sevs[i-1].Rank())
	}
	assert.Equal(t, 0, rules.Severity(0).Rank())
	assert.False(t, rules.Severity(0).Valid())
}

func TestParseRuleType(t *testing.T) {
	for _, typ := range rules.RuleTypes() {
		parsed, err := rules.ParseRuleType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
		assert.NotEqual(t, "Unknown", parsed.DisplayName())
	}

	for _, bad := range []string{"", "code_smell", "HOTSPOT", "SECURITY HOTSPOT"} {
		_, err := rules.ParseRuleType(bad)
		assert.Error(t, err, bad)
	}
}

func TestEnumTextMarshalling(t *testing.T) {
	type doc struct {
		Severity rules.Severity `json:"severity" yaml:"severity"`
		Type     rules.RuleType `json:"type" yaml:"type"`
	}

	var fromJSON doc
	require.NoError(t, json.Unmarshal([]byte(`{"severity":"CRITICAL","type":"VULNERABILITY"}`), &fromJSON))
	assert.Equal(t, doc{Severity: rules.SeverityCritical, Type: rules.TypeVulnerability}, fromJSON)

	var fromYAML doc
	require.NoError(t, yaml.Unmarshal([]byte("severity: INFO\ntype: SECURITY_HOTSPOT\n"), &fromYAML))
	assert.Equal(t, doc{Severity: rules.SeverityInfo, Type: rules.TypeSecurityHotspot}, fromYAML)

	var bad doc
	assert.Error(t, json.Unmarshal([]byte(`{"severity":"SEVERE","type":"BUG"}`), &bad))
	assert.Error(t, yaml.Unmarshal([]byte("severity: MAJOR\ntype: DEFECT\n"), &bad))

	_, err := json.Marshal(doc{})
	assert.Error(t, err)
}
