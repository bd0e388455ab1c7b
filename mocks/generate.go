package mocks

// External library mocks
//go:generate mockgen -package httpmock -destination httpmock/round_tripper_mock.go net/http RoundTripper
