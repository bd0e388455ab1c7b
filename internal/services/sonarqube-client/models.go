package sonarqubeclient

import "encoding/json"

// RuleQuery narrows a rule search. The zero value lists every rule the token
// can see.
type RuleQuery struct {
	Languages      []string `json:"languages,omitempty" yaml:"languages,omitempty"`
	QualityProfile string   `json:"quality_profile,omitempty" yaml:"quality_profile,omitempty"` //nolint:tagliatelle // matches config file
	RuleKeys       []string `json:"rule_keys,omitempty" yaml:"rule_keys,omitempty"`             //nolint:tagliatelle // matches config file
}

// SearchRulesResponse is one page of api/rules/search. Older servers report
// total/p/ps at the top level, newer ones add a paging object.
type SearchRulesResponse struct {
	Total  int               `json:"total"`
	P      int               `json:"p"`
	Ps     int               `json:"ps"`
	Paging *Paging           `json:"paging,omitempty"`
	Rules  []json.RawMessage `json:"rules"`
}

type Paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

func (r *SearchRulesResponse) TotalRules() int {
	if r.Paging != nil && r.Paging.Total > 0 {
		return r.Paging.Total
	}
	return r.Total
}

type ShowRuleResponse struct {
	Rule json.RawMessage `json:"rule"`
}

// ErrorResponse is the body the Web API returns alongside 4xx/5xx codes.
type ErrorResponse struct {
	Errors []ErrorMessage `json:"errors"`
}

type ErrorMessage struct {
	Msg string `json:"msg"`
}
