package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	bodyStyle  = lipgloss.NewStyle().MarginTop(1)
)

// Rule renders a descriptor for a terminal.
func Rule(d rules.RuleDescriptor) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name()))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render(d.Key()))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Severity"))
	b.WriteString(severityStyle(d.Severity()).Render(d.Severity().String()))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Type"))
	b.WriteString(d.Type().DisplayName())
	b.WriteString("\n")

	if desc := PlainText(d.HTMLDesc()); desc != "" {
		b.WriteString(bodyStyle.Render(desc))
		b.WriteString("\n")
	}
	return b.String()
}

func severityStyle(s rules.Severity) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch s {
	case rules.SeverityBlocker:
		return style.Foreground(lipgloss.Color("88"))
	case rules.SeverityCritical:
		return style.Foreground(lipgloss.Color("160"))
	case rules.SeverityMajor:
		return style.Foreground(lipgloss.Color("208"))
	case rules.SeverityMinor:
		return style.Foreground(lipgloss.Color("178"))
	case rules.SeverityInfo:
		return style.Foreground(lipgloss.Color("39"))
	default:
		return style
	}
}

// PlainText strips markup from a rule description. Block elements end a
// line, list items get a "- " prefix and <pre> content keeps its layout.
func PlainText(src string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(src))
	pre := 0
	space := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapse(b.String())
		case html.TextToken:
			raw := string(z.Text())
			if pre > 0 {
				b.WriteString(raw)
				continue
			}
			words := strings.Fields(raw)
			if len(words) == 0 {
				space = space || raw != ""
				continue
			}
			if (space || startsWithSpace(raw)) && !atLineStart(&b) {
				b.WriteString(" ")
			}
			b.WriteString(strings.Join(words, " "))
			space = endsWithSpace(raw)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch a := atom.Lookup(name); a {
			case atom.Pre:
				pre++
				b.WriteString("\n")
			case atom.Li:
				b.WriteString("\n- ")
			case atom.Br:
				b.WriteString("\n")
			default:
				if isBlock(a) {
					b.WriteString("\n\n")
				}
			}
			space = false
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Pre && pre > 0 {
				pre--
			}
			if a == atom.Pre || isBlock(a) {
				b.WriteString("\n\n")
				space = false
			}
		}
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Table, atom.Tr, atom.Blockquote:
		return true
	default:
		return false
	}
}

func atLineStart(b *strings.Builder) bool {
	s := b.String()
	return s == "" || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ")
}

func startsWithSpace(s string) bool {
	return s != strings.TrimLeft(s, " \t\r\n")
}

func endsWithSpace(s string) bool {
	return s != strings.TrimRight(s, " \t\r\n")
}

// collapse drops trailing blanks on each line and squeezes runs of empty
// lines into one.
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimRight(l, " \t\r")
		if l == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, l)
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
