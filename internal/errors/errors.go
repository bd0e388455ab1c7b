package errors

import (
	"fmt"

	cli_errors "github.com/snyk/error-catalog-golang-public/cli"
	snyk_common_errors "github.com/snyk/error-catalog-golang-public/snyk"
)

// SonarRulesError pairs an error catalog entry with the message shown to the
// user. SnykError serialises to its catalog title, so the message is kept
// separately and returned by Error.
type SonarRulesError struct {
	err     error
	cause   error
	userMsg string
}

func (xerr SonarRulesError) Error() string {
	return xerr.userMsg
}

// Unwrap exposes the catalog error and, when present, the error that caused
// it, so both errors.As(snyk_errors.Error) and errors.Is on the cause work.
func (xerr SonarRulesError) Unwrap() []error {
	out := make([]error, 0, 2)
	for _, e := range []error{xerr.err, xerr.cause} {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func newSonarRulesError(err, cause error, userMsg string) *SonarRulesError {
	return &SonarRulesError{
		err:     err,
		cause:   cause,
		userMsg: userMsg,
	}
}

func NewBadRequestError(msg string) *SonarRulesError {
	return newSonarRulesError(snyk_common_errors.NewBadRequestError(msg), nil, msg)
}

func NewUnauthorizedError(msg string) *SonarRulesError {
	return newSonarRulesError(snyk_common_errors.NewUnauthorisedError(msg), nil, msg)
}

func NewForbiddenError(msg string) *SonarRulesError {
	return newSonarRulesError(snyk_common_errors.NewUnauthorisedError(msg), nil, msg)
}

func NewNotFoundError(msg string) *SonarRulesError {
	return newSonarRulesError(cli_errors.NewGeneralCLIFailureError(msg), nil, msg)
}

func NewServerError(msg string) *SonarRulesError {
	return newSonarRulesError(snyk_common_errors.NewServerError(msg), nil, msg)
}

func NewHTTPClientError(msg string) *SonarRulesError {
	return newSonarRulesError(cli_errors.NewGeneralCLIFailureError(msg), nil, msg)
}

func NewTimeoutError(msg string) *SonarRulesError {
	return newSonarRulesError(snyk_common_errors.NewTimeoutError(msg), nil, msg)
}

// NewMalformedRuleMetadataError reports rule metadata the server sent but that
// could not be turned into a rule.
func NewMalformedRuleMetadataError(cause error) *SonarRulesError {
	msg := fmt.Sprintf("The server returned rule metadata that could not be used: %s", cause.Error())
	return newSonarRulesError(snyk_common_errors.NewServerError(msg), cause, msg)
}

func NewConfigError(msg string, cause error) *SonarRulesError {
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, cause.Error())
	}
	return newSonarRulesError(snyk_common_errors.NewBadRequestError(msg), cause, msg)
}

func NewGenericError(msg string, err error) *SonarRulesError {
	return newSonarRulesError(err, nil, msg)
}
