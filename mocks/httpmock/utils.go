package httpmock

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/mock/gomock"
)

// RequestMatcher matches a request by method, path and, optionally, a subset
// of its query parameters.
type RequestMatcher struct {
	ExpectedPath   string
	ExpectedMethod string
	ExpectedQuery  url.Values
}

var _ gomock.Matcher = (*RequestMatcher)(nil)

func (rm RequestMatcher) Matches(x interface{}) bool {
	req, ok := x.(*http.Request)
	if !ok {
		return false
	}
	if req.URL.Path != rm.ExpectedPath || req.Method != rm.ExpectedMethod {
		return false
	}
	query := req.URL.Query()
	for k := range rm.ExpectedQuery {
		if query.Get(k) != rm.ExpectedQuery.Get(k) {
			return false
		}
	}
	return true
}

func (rm RequestMatcher) String() string {
	if len(rm.ExpectedQuery) == 0 {
		return fmt.Sprintf("matches request with method %s and path %s", rm.ExpectedMethod, rm.ExpectedPath)
	}
	return fmt.Sprintf("matches request with method %s, path %s and query %s", rm.ExpectedMethod, rm.ExpectedPath, rm.ExpectedQuery.Encode())
}

func ForRequest(method, path string) RequestMatcher {
	return RequestMatcher{ExpectedMethod: method, ExpectedPath: path}
}

func ForRequestWithQuery(method, path string, query url.Values) RequestMatcher {
	return RequestMatcher{ExpectedMethod: method, ExpectedPath: path, ExpectedQuery: query}
}
