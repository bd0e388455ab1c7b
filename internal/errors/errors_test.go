package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/snyk/error-catalog-golang-public/snyk_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errors "github.com/delphilint/cli-extension-sonar-rules/internal/errors"
	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
)

func TestSonarRulesError_UserMessage(t *testing.T) {
	err := errors.NewUnauthorizedError("token rejected by server")
	assert.Equal(t, "token rejected by server", err.Error())

	var snykErr snyk_errors.Error
	require.True(t, stderrors.As(err, &snykErr))
	assert.NotEmpty(t, snykErr.Title)
}

func TestNewMalformedRuleMetadataError(t *testing.T) {
	_, cause := rules.FromFields(map[string]any{"key": "S1"})
	require.Error(t, cause)

	err := errors.NewMalformedRuleMetadataError(cause)
	assert.Contains(t, err.Error(), "S1")
	assert.True(t, stderrors.Is(err, rules.ErrMalformedRuleMetadata))

	var snykErr snyk_errors.Error
	assert.True(t, stderrors.As(err, &snykErr))
}

func TestNewConfigError(t *testing.T) {
	cause := stderrors.New("yaml: line 3: mapping values are not allowed")
	err := errors.NewConfigError("Could not read config file", cause)

	assert.Equal(t, "Could not read config file: yaml: line 3: mapping values are not allowed", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestNewGenericError_NilCause(t *testing.T) {
	err := errors.NewGenericError("something went wrong", nil)
	assert.Equal(t, "something went wrong", err.Error())
	assert.Empty(t, err.Unwrap())
}
