package sonarrules

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/snyk/go-application-framework/pkg/workflow"

	"github.com/delphilint/cli-extension-sonar-rules/internal/commands/sonarrules/htmlreport"
	"github.com/delphilint/cli-extension-sonar-rules/internal/commands/sonarrules/render"
	sonar_errors "github.com/delphilint/cli-extension-sonar-rules/internal/errors"
	"github.com/delphilint/cli-extension-sonar-rules/internal/flags"
	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
	sonarqubeclient "github.com/delphilint/cli-extension-sonar-rules/internal/services/sonarqube-client"
)

const (
	rulesWorkflowName    = "sonar.rules"
	ruleShowWorkflowName = "sonar.rules.show"
	userAgent            = "cli-extension-sonar-rules"
)

var (
	WorkflowID         = workflow.NewWorkflowIdentifier(rulesWorkflowName)
	ShowWorkflowID     = workflow.NewWorkflowIdentifier(ruleShowWorkflowName)
	rulesWorkflowType  = workflow.NewTypeIdentifier(WorkflowID, rulesWorkflowName)
	ruleShowWorkflowTy = workflow.NewTypeIdentifier(ShowWorkflowID, ruleShowWorkflowName)
)

func RegisterWorkflows(e workflow.Engine) error {
	rulesConfig := workflow.ConfigurationOptionsFromFlagset(flags.GetRulesFlagSet())
	if _, err := e.Register(WorkflowID, rulesConfig, rulesWorkflow); err != nil {
		return fmt.Errorf("error while registering sonar rules workflow: %w", err)
	}

	showConfig := workflow.ConfigurationOptionsFromFlagset(flags.GetRuleShowFlagSet())
	if _, err := e.Register(ShowWorkflowID, showConfig, ruleShowWorkflow); err != nil {
		return fmt.Errorf("error while registering sonar rule show workflow: %w", err)
	}
	return nil
}

func getSonarQubeClient(invocationCtx workflow.InvocationContext, settings *Settings) *sonarqubeclient.ClientImpl {
	return sonarqubeclient.NewSonarQubeClient(
		invocationCtx.GetEnhancedLogger(),
		invocationCtx.GetNetworkAccess().GetUnauthorizedHttpClient(),
		invocationCtx.GetUserInterface(),
		userAgent,
		settings.HostURL,
		settings.Token,
	)
}

func rulesWorkflow(invocationCtx workflow.InvocationContext, _ []workflow.Data) ([]workflow.Data, error) {
	settings, err := LoadSettings(invocationCtx.GetConfiguration())
	if err != nil {
		return nil, err
	}
	return RunRulesWorkflow(invocationCtx, settings, getSonarQubeClient(invocationCtx, settings))
}

func ruleShowWorkflow(invocationCtx workflow.InvocationContext, _ []workflow.Data) ([]workflow.Data, error) {
	settings, err := LoadSettings(invocationCtx.GetConfiguration())
	if err != nil {
		return nil, err
	}
	return RunRuleShowWorkflow(invocationCtx, getSonarQubeClient(invocationCtx, settings))
}

type rulesDocument struct {
	Total int                    `json:"total"`
	Rules []rules.RuleDescriptor `json:"rules"`
}

func RunRulesWorkflow(
	invocationCtx workflow.InvocationContext,
	settings *Settings,
	client sonarqubeclient.SonarQubeClient,
) ([]workflow.Data, error) {
	logger := invocationCtx.GetEnhancedLogger()
	config := invocationCtx.GetConfiguration()
	ctx := context.Background()

	filter, err := settings.RuleFilter()
	if err != nil {
		return nil, sonar_errors.NewConfigError("Invalid rule filter", err)
	}

	logger.Debug().
		Str("host", settings.HostURL).
		Strs("languages", settings.Languages).
		Str("qualityProfile", settings.QualityProfile).
		Msg("Fetching rules")

	repo := rules.NewRepository(logger, sonarqubeclient.AsFetcher(client, settings.Query()), settings.MalformedPolicy())
	set, err := repo.Refresh(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("Error refreshing rules")
		return nil, asWorkflowError(err)
	}

	selected := set.Filter(filter)
	logger.Debug().Int("fetched", set.Len()).Int("selected", len(selected)).Msg("Rules selected")

	doc := rulesDocument{Total: len(selected), Rules: selected}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		logger.Debug().Err(err).Msg("Error marshaling rules")
		return nil, sonar_errors.NewGenericError("Failed processing rules", err)
	}

	jsonResults := []workflow.Data{newWorkflowData(rulesWorkflowType, "application/json", docBytes)}
	return htmlreport.ProcessResults(logger, config, jsonResults)
}

func RunRuleShowWorkflow(
	invocationCtx workflow.InvocationContext,
	client sonarqubeclient.SonarQubeClient,
) ([]workflow.Data, error) {
	logger := invocationCtx.GetEnhancedLogger()
	config := invocationCtx.GetConfiguration()
	ctx := context.Background()

	key := config.GetString(flags.FlagKey)
	if key == "" {
		return nil, sonar_errors.NewBadRequestError("No rule key specified")
	}

	validate := validator.New()
	if err := validate.Var(key, "contains=:"); err != nil {
		return nil, sonar_errors.NewBadRequestError(fmt.Sprintf("Rule key is not of the form <repository>:<rule>: %q", key))
	}

	logger.Debug().Str("key", key).Msg("Fetching rule")

	d, rErr := client.ShowRule(ctx, key)
	if rErr != nil {
		logger.Debug().Err(rErr).Msg("Error fetching rule")
		return nil, rErr
	}

	if config.GetBool(flags.FlagText) {
		return []workflow.Data{newWorkflowData(ruleShowWorkflowTy, "text/plain", []byte(render.Rule(d)))}, nil
	}

	ruleBytes, err := json.Marshal(d)
	if err != nil {
		logger.Debug().Err(err).Msg("Error marshaling rule")
		return nil, sonar_errors.NewGenericError("Failed processing rule", err)
	}
	return []workflow.Data{newWorkflowData(ruleShowWorkflowTy, "application/json", ruleBytes)}, nil
}

// asWorkflowError keeps client errors as they are and turns repository errors
// into catalog errors.
func asWorkflowError(err error) error {
	switch e := err.(type) {
	case *sonar_errors.SonarRulesError:
		return e
	case *rules.MalformedRuleMetadataError:
		return sonar_errors.NewMalformedRuleMetadataError(e)
	case *rules.ConflictingRuleError:
		return sonar_errors.NewServerError(e.Error())
	default:
		return sonar_errors.NewGenericError(err.Error(), err)
	}
}

//nolint:ireturn // Unable to change return type of external library
func newWorkflowData(id workflow.Identifier, contentType string, data []byte) workflow.Data {
	return workflow.NewData(
		id,
		contentType,
		data,
	)
}
