package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delphilint/cli-extension-sonar-rules/internal/commands/sonarrules/render"
	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "paragraph and list",
			in:   "<p>Use <code>x</code> here.</p><ul><li>one</li><li>two</li></ul>",
			want: "Use x here.\n\n- one\n- two",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "plain text",
			in:   "  just   text ",
			want: "just text",
		},
		{
			name: "entities",
			in:   "<p>a &lt; b &amp;&amp; c</p>",
			want: "a < b && c",
		},
		{
			name: "pre keeps layout",
			in:   "<p>Example:</p><pre>if (a) {\n  b();\n}</pre>",
			want: "Example:\n\nif (a) {\n  b();\n}",
		},
		{
			name: "line break",
			in:   "first<br/>second",
			want: "first\nsecond",
		},
		{
			name: "headings split paragraphs",
			in:   "<h2>Noncompliant</h2><p>bad</p><h2>Compliant</h2><p>good</p>",
			want: "Noncompliant\n\nbad\n\nCompliant\n\ngood",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.PlainText(tt.in))
		})
	}
}

func TestRule(t *testing.T) {
	d, err := rules.NewRuleDescriptor(
		"java:S1481",
		"Unused local variables should be removed",
		"<p>Remove it.</p>",
		rules.SeverityMinor,
		rules.TypeCodeSmell,
	)
	require.NoError(t, err)

	out := render.Rule(d)

	assert.Contains(t, out, "Unused local variables should be removed")
	assert.Contains(t, out, "java:S1481")
	assert.Contains(t, out, "MINOR")
	assert.Contains(t, out, "Code Smell")
	assert.Contains(t, out, "Remove it.")
	assert.NotContains(t, out, "<p>")
}

func TestRule_EmptyDescription(t *testing.T) {
	d, err := rules.NewRuleDescriptor("js:S1", "Name", "", rules.SeverityBlocker, rules.TypeBug)
	require.NoError(t, err)

	out := render.Rule(d)

	assert.Contains(t, out, "BLOCKER")
	assert.Contains(t, out, "Bug")
}
