package flags

import "github.com/spf13/pflag"

const (
	FlagSetName = "cli-extension-sonar-rules"

	// connection
	FlagSonarHostURL = "sonar-host-url"
	FlagSonarToken   = "sonar-token"
	FlagConfig       = "config"

	// rule selection
	FlagLanguage       = "language"
	FlagQualityProfile = "quality-profile"
	FlagRuleKey        = "rule-key"
	FlagMinSeverity    = "min-severity"
	FlagType           = "type"
	FlagSkipMalformed  = "skip-malformed"

	// output
	FlagHTML           = "html"
	FlagHTMLFileOutput = "html-file-output"
	FlagKey            = "key"
	FlagText           = "text"
)

func connectionFlags(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ExitOnError)
	flagSet.String(FlagSonarHostURL, "", "Base URL of the SonarQube or SonarCloud server")
	flagSet.String(FlagSonarToken, "", "Token used to authenticate against the server")
	flagSet.String(FlagConfig, "", "Path to a YAML file with connection and rule selection settings")
	return flagSet
}

func GetRulesFlagSet() *pflag.FlagSet {
	flagSet := connectionFlags(FlagSetName)
	flagSet.StringSlice(FlagLanguage, nil, "Only list rules for these languages (repeatable)")
	flagSet.String(FlagQualityProfile, "", "Only list rules active in this quality profile key")
	flagSet.StringSlice(FlagRuleKey, nil, "Only list these rule keys (repeatable)")
	flagSet.String(FlagMinSeverity, "", "Lowest severity to include: INFO, MINOR, MAJOR, CRITICAL or BLOCKER")
	flagSet.StringSlice(FlagType, nil, "Rule types to include: CODE_SMELL, BUG, VULNERABILITY or SECURITY_HOTSPOT (repeatable)")
	flagSet.Bool(FlagSkipMalformed, false, "Skip rules whose metadata cannot be decoded instead of failing")
	flagSet.Bool(FlagHTML, false, "Return the rule list as an HTML report")
	flagSet.String(FlagHTMLFileOutput, "", "Also write the HTML report to this file")
	return flagSet
}

func GetRuleShowFlagSet() *pflag.FlagSet {
	flagSet := connectionFlags(FlagSetName + "-show")
	flagSet.String(FlagKey, "", "Key of the rule to show, e.g. community-delphi:MixedNames")
	flagSet.Bool(FlagText, false, "Render the rule for the terminal instead of returning JSON")
	return flagSet
}
