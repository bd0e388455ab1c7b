package sonarqubeclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/snyk/error-catalog-golang-public/snyk_errors"
	"github.com/snyk/go-application-framework/pkg/ui"

	sonar_errors "github.com/delphilint/cli-extension-sonar-rules/internal/errors"
	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
)

type SonarQubeClient interface {
	SearchRules(ctx context.Context, query *RuleQuery) (rules.Batch, *sonar_errors.SonarRulesError)
	ShowRule(ctx context.Context, key string) (rules.RuleDescriptor, *sonar_errors.SonarRulesError)
}

type ClientImpl struct {
	userAgent     string
	baseURL       string
	token         string
	httpClient    *http.Client
	logger        *zerolog.Logger
	userInterface ui.UserInterface
}

var _ SonarQubeClient = (*ClientImpl)(nil)

const (
	searchRulesPath = "/api/rules/search"
	showRulePath    = "/api/rules/show"

	pageSize = 500
	// The search endpoint refuses p*ps beyond this window.
	maxResultWindow = 10000
	searchFields    = "name,htmlDesc,severity"
)

func NewSonarQubeClient(
	logger *zerolog.Logger,
	httpClient *http.Client,
	userInterface ui.UserInterface,
	userAgent,
	baseURL,
	token string,
) *ClientImpl {
	httpClient.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
		// Return http.ErrUseLastResponse to not follow redirects
		return http.ErrUseLastResponse
	}
	return &ClientImpl{
		userAgent:     userAgent,
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		httpClient:    httpClient,
		logger:        logger,
		userInterface: userInterface,
	}
}

// SearchRules pages through api/rules/search. Rules that cannot be decoded are
// returned in Batch.Malformed; deciding what to do with them is up to the
// caller.
func (c *ClientImpl) SearchRules(ctx context.Context, query *RuleQuery) (rules.Batch, *sonar_errors.SonarRulesError) {
	if query == nil {
		query = &RuleQuery{}
	}

	progressBar := c.userInterface.NewProgressBar()
	progressBar.SetTitle("Fetching rules")
	if progressErr := progressBar.UpdateProgress(ui.InfiniteProgress); progressErr != nil {
		c.logger.Debug().Err(progressErr).Msg("Failed to update progress bar")
	}
	defer func() {
		if progressErr := progressBar.Clear(); progressErr != nil {
			c.logger.Debug().Err(progressErr).Msg("Failed to clear progress bar")
		}
	}()

	var batch rules.Batch
	fetched := 0
	for page := 1; ; page++ {
		resp, err := c.fetchRulesPage(ctx, query, page)
		if err != nil {
			return rules.Batch{}, err
		}

		for _, raw := range resp.Rules {
			d, decodeErr := rules.DecodeRuleDescriptor(raw)
			if decodeErr != nil {
				var mErr *rules.MalformedRuleMetadataError
				if !errors.As(decodeErr, &mErr) {
					return rules.Batch{}, sonar_errors.NewMalformedRuleMetadataError(decodeErr)
				}
				c.logger.Debug().Err(decodeErr).Msg("undecodable rule in search response")
				batch.Malformed = append(batch.Malformed, mErr)
				continue
			}
			batch.Rules = append(batch.Rules, d)
		}

		fetched += len(resp.Rules)
		total := resp.TotalRules()
		c.updateProgress(progressBar, fetched, total)

		if len(resp.Rules) == 0 || fetched >= total {
			break
		}
		if page*pageSize >= maxResultWindow {
			c.logger.Warn().
				Int("total", total).
				Int("fetched", fetched).
				Msg("rule search hit the server result window, narrow the query to see the remaining rules")
			break
		}
	}

	c.logger.Debug().
		Int("rules", len(batch.Rules)).
		Int("malformed", len(batch.Malformed)).
		Msg("searched rules")

	return batch, nil
}

func (c *ClientImpl) updateProgress(progressBar ui.ProgressBar, fetched, total int) {
	if total <= 0 {
		return
	}
	if total > maxResultWindow {
		total = maxResultWindow
	}
	progress := float64(fetched) / float64(total)
	if progress > 1 {
		progress = 1
	}
	if err := progressBar.UpdateProgress(progress); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to update progress bar")
	}
}

func (c *ClientImpl) fetchRulesPage(ctx context.Context, query *RuleQuery, page int) (*SearchRulesResponse, *sonar_errors.SonarRulesError) {
	params := url.Values{}
	params.Set("p", strconv.Itoa(page))
	params.Set("ps", strconv.Itoa(pageSize))
	params.Set("f", searchFields)
	if len(query.Languages) > 0 {
		params.Set("languages", strings.Join(query.Languages, ","))
	}
	if query.QualityProfile != "" {
		params.Set("qprofile", query.QualityProfile)
		params.Set("activation", "true")
	}
	if len(query.RuleKeys) > 0 {
		params.Set("rule_keys", strings.Join(query.RuleKeys, ","))
	}

	bodyBytes, err := c.get(ctx, "SearchRules", searchRulesPath, params)
	if err != nil {
		return nil, err
	}

	searchResp := SearchRulesResponse{}
	if unmarshalErr := json.Unmarshal(bodyBytes, &searchResp); unmarshalErr != nil {
		c.logger.Debug().Err(unmarshalErr).Msg("error while unmarshaling SearchRulesResponse")
		return nil, sonar_errors.NewServerError(fmt.Sprintf("Failed to unmarshal SearchRulesResponse: %s", unmarshalErr.Error()))
	}

	c.logger.Debug().Int("page", page).Int("rules", len(searchResp.Rules)).Int("total", searchResp.TotalRules()).Msg("fetched rules page")
	return &searchResp, nil
}

func (c *ClientImpl) ShowRule(ctx context.Context, key string) (rules.RuleDescriptor, *sonar_errors.SonarRulesError) {
	params := url.Values{}
	params.Set("key", key)

	bodyBytes, err := c.get(ctx, "ShowRule", showRulePath, params)
	if err != nil {
		return rules.RuleDescriptor{}, err
	}

	showResp := ShowRuleResponse{}
	if unmarshalErr := json.Unmarshal(bodyBytes, &showResp); unmarshalErr != nil {
		c.logger.Debug().Err(unmarshalErr).Msg("error while unmarshaling ShowRuleResponse")
		return rules.RuleDescriptor{}, sonar_errors.NewServerError(fmt.Sprintf("Failed to unmarshal ShowRuleResponse: %s", unmarshalErr.Error()))
	}
	if len(showResp.Rule) == 0 {
		return rules.RuleDescriptor{}, sonar_errors.NewMalformedRuleMetadataError(
			&rules.MalformedRuleMetadataError{Key: key, Reason: "response has no rule object"})
	}

	d, decodeErr := rules.DecodeRuleDescriptor(showResp.Rule)
	if decodeErr != nil {
		c.logger.Debug().Err(decodeErr).Str("key", key).Msg("error while decoding rule")
		return rules.RuleDescriptor{}, sonar_errors.NewMalformedRuleMetadataError(decodeErr)
	}
	return d, nil
}

func (c *ClientImpl) get(ctx context.Context, endPoint, path string, params url.Values) ([]byte, *sonar_errors.SonarRulesError) {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		c.logger.Debug().Err(err).Msgf("error while building %s request", endPoint)
		return nil, sonar_errors.NewBadRequestError(fmt.Sprintf("Error building %s request: %s", endPoint, err.Error()))
	}

	// Make the request retry-able for HTTP/2
	req.GetBody = func() (io.ReadCloser, error) {
		return http.NoBody, nil
	}

	c.setCommonHeaders(reqURL, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.sonarErrorFromHTTPClientError(endPoint, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug().Err(err).Msgf("error while reading %s response body", endPoint)
		return nil, sonar_errors.NewServerError(fmt.Sprintf("Failed to read %s response body: %s", endPoint, err.Error()))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.sonarErrorFromHTTPStatusCode(endPoint, resp.StatusCode, bodyBytes)
	}
	return bodyBytes, nil
}

func (c *ClientImpl) setCommonHeaders(reqURL string, req *http.Request) {
	requestID := uuid.New().String()
	c.logger.Debug().Msgf("making sonarqube api request to url: %s, requestId: %s", reqURL, requestID)
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		// Tokens go in the user part of basic auth; every server version accepts that.
		req.SetBasicAuth(c.token, "")
	}
}

func (c *ClientImpl) sonarErrorFromHTTPStatusCode(endPoint string, statusCode int, bodyBytes []byte) *sonar_errors.SonarRulesError {
	errMsg := fmt.Sprintf("unexpected status code %d for %s", statusCode, endPoint)
	c.logger.Debug().Str("responseBody", string(bodyBytes)).Msg(errMsg)

	if detail := serverMessage(bodyBytes); detail != "" {
		errMsg = fmt.Sprintf("%s: %s", errMsg, detail)
	}

	switch statusCode {
	case http.StatusBadRequest:
		return sonar_errors.NewBadRequestError(errMsg)
	case http.StatusUnauthorized:
		return sonar_errors.NewUnauthorizedError(errMsg)
	case http.StatusForbidden:
		return sonar_errors.NewForbiddenError(errMsg)
	case http.StatusNotFound:
		return sonar_errors.NewNotFoundError(errMsg)
	default:
		return sonar_errors.NewServerError(errMsg)
	}
}

func serverMessage(bodyBytes []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(bodyBytes, &errResp); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(errResp.Errors))
	for _, e := range errResp.Errors {
		if e.Msg != "" {
			msgs = append(msgs, e.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// The framework's HTTP client may turn error responses into snyk_errors.Error
// values instead of returning the response, so those are unpacked here too.
func (c *ClientImpl) sonarErrorFromHTTPClientError(endPoint string, err error) *sonar_errors.SonarRulesError {
	c.logger.Debug().Err(err).Msg(fmt.Sprintf("%s request HTTP error", endPoint))

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return sonar_errors.NewTimeoutError(fmt.Sprintf("%s request did not complete: %s", endPoint, err.Error()))
	}

	var snykErr snyk_errors.Error
	if errors.As(err, &snykErr) {
		c.logger.Debug().
			Str("error_type", fmt.Sprintf("%T", snykErr)).
			Str("detail", snykErr.Detail).
			Int("status_code", snykErr.StatusCode).
			Msg("extracted snyk error")

		var errorMsg string
		switch {
		case snykErr.Detail != "":
			errorMsg = snykErr.Detail
		case snykErr.Title != "":
			errorMsg = snykErr.Title
		default:
			errorMsg = err.Error()
		}

		switch snykErr.StatusCode {
		case http.StatusBadRequest:
			return sonar_errors.NewBadRequestError(errorMsg)
		case http.StatusNotFound:
			return sonar_errors.NewNotFoundError(errorMsg)
		case http.StatusInternalServerError:
			return sonar_errors.NewServerError("Server responded with a 500. Please try again later or check the server logs.")
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "authentication") {
		return sonar_errors.NewUnauthorizedError("Failed to authenticate to the SonarQube server.")
	}
	if strings.Contains(strings.ToLower(err.Error()), "forbidden") {
		return sonar_errors.NewForbiddenError("The SonarQube server refused access. The token needs the Browse permission.")
	}
	return sonar_errors.NewHTTPClientError("Failed to reach the SonarQube server. Check the host URL and your network connection.")
}

// AsFetcher adapts a client and query to the repository's Fetcher.
func AsFetcher(client SonarQubeClient, query *RuleQuery) rules.Fetcher {
	return rules.FetcherFunc(func(ctx context.Context) (rules.Batch, error) {
		batch, err := client.SearchRules(ctx, query)
		if err != nil {
			return rules.Batch{}, err
		}
		return batch, nil
	})
}
