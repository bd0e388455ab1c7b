package sonarqubeclientmock

import (
	"context"

	sonar_errors "github.com/delphilint/cli-extension-sonar-rules/internal/errors"
	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
	sonarqubeclient "github.com/delphilint/cli-extension-sonar-rules/internal/services/sonarqube-client"
)

// MockSonarQubeClient implements the SonarQubeClient interface for testing.
type MockSonarQubeClient struct {
	Batch       rules.Batch
	Rule        rules.RuleDescriptor
	SearchError *sonar_errors.SonarRulesError
	ShowError   *sonar_errors.SonarRulesError

	SearchCalls int
	LastQuery   *sonarqubeclient.RuleQuery
	LastKey     string
}

var _ sonarqubeclient.SonarQubeClient = (*MockSonarQubeClient)(nil)

func (m *MockSonarQubeClient) SearchRules(_ context.Context, query *sonarqubeclient.RuleQuery) (rules.Batch, *sonar_errors.SonarRulesError) {
	m.SearchCalls++
	m.LastQuery = query
	if m.SearchError != nil {
		return rules.Batch{}, m.SearchError
	}
	return m.Batch, nil
}

func (m *MockSonarQubeClient) ShowRule(_ context.Context, key string) (rules.RuleDescriptor, *sonar_errors.SonarRulesError) {
	m.LastKey = key
	if m.ShowError != nil {
		return rules.RuleDescriptor{}, m.ShowError
	}
	return m.Rule, nil
}
