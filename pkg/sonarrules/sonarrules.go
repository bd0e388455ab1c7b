package sonarrules

import (
	"fmt"

	"github.com/snyk/go-application-framework/pkg/workflow"

	"github.com/delphilint/cli-extension-sonar-rules/internal/commands/sonarrules"
)

func Init(e workflow.Engine) error {
	if err := sonarrules.RegisterWorkflows(e); err != nil {
		return fmt.Errorf("error registering sonar rules workflows: %w", err)
	}
	return nil
}
