package sonarrules_test

import (
	"net/url"
	"testing"

	"github.com/snyk/go-application-framework/pkg/configuration"
	"github.com/snyk/go-application-framework/pkg/workflow"
	"github.com/stretchr/testify/assert"

	internal "github.com/delphilint/cli-extension-sonar-rules/internal/commands/sonarrules"
	"github.com/delphilint/cli-extension-sonar-rules/pkg/sonarrules"
)

func TestInit(t *testing.T) {
	c := configuration.New()
	e := workflow.NewWorkFlowEngine(c)

	err := e.Init()
	assert.NoError(t, err)

	err = sonarrules.Init(e)
	assert.NoError(t, err)

	assertWorkflowExists(t, e, internal.WorkflowID)
	assertWorkflowExists(t, e, internal.ShowWorkflowID)
}

func assertWorkflowExists(t *testing.T, e workflow.Engine, id *url.URL) {
	t.Helper()

	wflw, ok := e.GetWorkflow(id)
	assert.True(t, ok)
	assert.NotNil(t, wflw)
}
