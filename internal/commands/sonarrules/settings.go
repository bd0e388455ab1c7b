package sonarrules

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/snyk/go-application-framework/pkg/configuration"
	"gopkg.in/yaml.v3"

	sonar_errors "github.com/delphilint/cli-extension-sonar-rules/internal/errors"
	"github.com/delphilint/cli-extension-sonar-rules/internal/flags"
	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
	sonarqubeclient "github.com/delphilint/cli-extension-sonar-rules/internal/services/sonarqube-client"
)

// Settings is the merged result of the optional YAML file and the command
// line. Flags that are set win over the file.
type Settings struct {
	HostURL        string   `yaml:"host_url" validate:"required,url"`
	Token          string   `yaml:"token"`
	Languages      []string `yaml:"languages" validate:"dive,required"`
	QualityProfile string   `yaml:"quality_profile"`
	RuleKeys       []string `yaml:"rule_keys" validate:"dive,required,contains=:"`
	MinSeverity    string   `yaml:"min_severity"`
	Types          []string `yaml:"types"`
	SkipMalformed  bool     `yaml:"skip_malformed"`
}

func LoadSettings(config configuration.Configuration) (*Settings, error) {
	settings := &Settings{}

	if path := config.GetString(flags.FlagConfig); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, sonar_errors.NewConfigError(fmt.Sprintf("Could not read config file %s", path), err)
		}
		if err := decodeSettings(data, settings); err != nil {
			return nil, sonar_errors.NewConfigError(fmt.Sprintf("Could not parse config file %s", path), err)
		}
	}

	if v := config.GetString(flags.FlagSonarHostURL); v != "" {
		settings.HostURL = v
	}
	if v := config.GetString(flags.FlagSonarToken); v != "" {
		settings.Token = v
	}
	if v := config.GetStringSlice(flags.FlagLanguage); len(v) > 0 {
		settings.Languages = v
	}
	if v := config.GetString(flags.FlagQualityProfile); v != "" {
		settings.QualityProfile = v
	}
	if v := config.GetStringSlice(flags.FlagRuleKey); len(v) > 0 {
		settings.RuleKeys = v
	}
	if v := config.GetString(flags.FlagMinSeverity); v != "" {
		settings.MinSeverity = v
	}
	if v := config.GetStringSlice(flags.FlagType); len(v) > 0 {
		settings.Types = v
	}
	if config.GetBool(flags.FlagSkipMalformed) {
		settings.SkipMalformed = true
	}

	validate := validator.New()
	if err := validate.Struct(settings); err != nil {
		return nil, sonar_errors.NewConfigError("Invalid settings", err)
	}
	if _, err := settings.RuleFilter(); err != nil {
		return nil, sonar_errors.NewConfigError("Invalid rule filter", err)
	}
	return settings, nil
}

func decodeSettings(data []byte, settings *Settings) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(settings); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (s *Settings) Query() *sonarqubeclient.RuleQuery {
	return &sonarqubeclient.RuleQuery{
		Languages:      s.Languages,
		QualityProfile: s.QualityProfile,
		RuleKeys:       s.RuleKeys,
	}
}

func (s *Settings) RuleFilter() (rules.RuleFilter, error) {
	var filter rules.RuleFilter
	if s.MinSeverity != "" {
		sev, err := rules.ParseSeverity(s.MinSeverity)
		if err != nil {
			return rules.RuleFilter{}, err
		}
		filter.MinSeverity = sev
	}
	for _, raw := range s.Types {
		t, err := rules.ParseRuleType(raw)
		if err != nil {
			return rules.RuleFilter{}, err
		}
		filter.Types = append(filter.Types, t)
	}
	return filter, nil
}

func (s *Settings) MalformedPolicy() rules.MalformedPolicy {
	if s.SkipMalformed {
		return rules.SkipMalformed
	}
	return rules.RejectMalformed
}
