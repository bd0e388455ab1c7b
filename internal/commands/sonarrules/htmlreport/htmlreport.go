package htmlreport

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/snyk/go-application-framework/pkg/configuration"
	"github.com/snyk/go-application-framework/pkg/workflow"

	"github.com/delphilint/cli-extension-sonar-rules/internal/flags"
	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
)

//go:embed rules-report.html
var rulesHTMLTemplate string

var rulesWorkflowID = workflow.NewWorkflowIdentifier("sonar.rules")

var reportTemplate = template.Must(template.New("rules-report").Parse(rulesHTMLTemplate))

type report struct {
	Total  int
	Groups []group
}

type group struct {
	Title string
	Class string
	Rules []ruleView
}

type ruleView struct {
	Key         string
	Name        string
	Type        string
	Description template.HTML
}

func ProcessResults(
	logger *zerolog.Logger,
	config configuration.Configuration,
	jsonResults []workflow.Data,
) ([]workflow.Data, error) {
	returnHTML := config.GetBool(flags.FlagHTML)
	htmlFileOutput := config.GetString(flags.FlagHTMLFileOutput)
	needsHTML := returnHTML || htmlFileOutput != ""

	var htmlOutput string
	if needsHTML {
		var err error
		htmlOutput, err = fromResults(jsonResults)
		if err != nil {
			return nil, fmt.Errorf("failed generating HTML report: %w", err)
		}
	}

	if htmlFileOutput != "" {
		if err := os.WriteFile(htmlFileOutput, []byte(htmlOutput), 0o600); err != nil {
			return nil, fmt.Errorf("failed writing HTML report to %s: %w", htmlFileOutput, err)
		}
		logger.Info().Msgf("HTML report written to %s", htmlFileOutput)
	}

	if returnHTML {
		htmlData := workflow.NewData(
			workflow.NewTypeIdentifier(rulesWorkflowID, "sonar.rules"),
			"text/html",
			[]byte(htmlOutput),
		)
		return []workflow.Data{htmlData}, nil
	}

	return jsonResults, nil
}

func fromResults(results []workflow.Data) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("no results to generate HTML from")
	}

	payload, ok := results[0].GetPayload().([]byte)
	if !ok {
		return "", fmt.Errorf("unexpected payload type")
	}

	var doc struct {
		Rules []rules.RuleDescriptor `json:"rules"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", fmt.Errorf("error decoding rules: %w", err)
	}

	return generateRulesHTML(doc.Rules)
}

func generateRulesHTML(descs []rules.RuleDescriptor) (string, error) {
	var buf strings.Builder
	if err := reportTemplate.Execute(&buf, buildReport(descs)); err != nil {
		return "", fmt.Errorf("error executing HTML template: %w", err)
	}
	return buf.String(), nil
}

// buildReport groups rules from the most to the least severe, keeping the
// incoming order inside each group. Empty groups are left out.
func buildReport(descs []rules.RuleDescriptor) report {
	bySeverity := make(map[rules.Severity][]ruleView)
	for _, d := range descs {
		bySeverity[d.Severity()] = append(bySeverity[d.Severity()], ruleView{
			Key:  d.Key(),
			Name: d.Name(),
			Type: d.Type().DisplayName(),
			//nolint:gosec // descriptions are HTML authored by the rule repository
			Description: template.HTML(d.HTMLDesc()),
		})
	}

	r := report{Total: len(descs)}
	sevs := rules.Severities()
	for i := len(sevs) - 1; i >= 0; i-- {
		views := bySeverity[sevs[i]]
		if len(views) == 0 {
			continue
		}
		r.Groups = append(r.Groups, group{
			Title: sevs[i].String(),
			Class: severityClass(sevs[i]),
			Rules: views,
		})
	}
	return r
}

func severityClass(s rules.Severity) string {
	switch s {
	case rules.SeverityBlocker:
		return "sev-blocker"
	case rules.SeverityCritical:
		return "sev-critical"
	case rules.SeverityMajor:
		return "sev-major"
	case rules.SeverityMinor:
		return "sev-minor"
	case rules.SeverityInfo:
		return "sev-info"
	default:
		return ""
	}
}
