package rules_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delphilint/cli-extension-sonar-rules/internal/rules"
	"github.com/delphilint/cli-extension-sonar-rules/mocks/loggermock"
)

func mustRule(t *testing.T, key string, sev rules.Severity, typ rules.RuleType) rules.RuleDescriptor {
	t.Helper()
	d, err := rules.NewRuleDescriptor(key, "rule "+key, "<p>"+key+"</p>", sev, typ)
	require.NoError(t, err)
	return d
}

func TestNewRuleSet(t *testing.T) {
	a := mustRule(t, "delphi:B", rules.SeverityMajor, rules.TypeBug)
	b := mustRule(t, "delphi:A", rules.SeverityInfo, rules.TypeCodeSmell)

	set, err := rules.NewRuleSet(a, b, a)
	require.NoError(t, err)

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"delphi:A", "delphi:B"}, set.Keys())

	got, ok := set.Get("delphi:B")
	require.True(t, ok)
	assert.True(t, got.Equal(a))

	_, ok = set.Get("delphi:C")
	assert.False(t, ok)
}

func TestNewRuleSet_Conflict(t *testing.T) {
	a := mustRule(t, "delphi:A", rules.SeverityMajor, rules.TypeBug)
	changed := mustRule(t, "delphi:A", rules.SeverityMinor, rules.TypeBug)

	_, err := rules.NewRuleSet(a, changed)
	require.ErrorIs(t, err, rules.ErrConflictingRule)

	var cErr *rules.ConflictingRuleError
	require.True(t, errors.As(err, &cErr))
	assert.Equal(t, "delphi:A", cErr.Key)
}

func TestRuleSet_Filter(t *testing.T) {
	set, err := rules.NewRuleSet(
		mustRule(t, "r1", rules.SeverityInfo, rules.TypeCodeSmell),
		mustRule(t, "r2", rules.SeverityMajor, rules.TypeBug),
		mustRule(t, "r3", rules.SeverityBlocker, rules.TypeVulnerability),
		mustRule(t, "r4", rules.SeverityCritical, rules.TypeSecurityHotspot),
	)
	require.NoError(t, err)

	keys := func(ds []rules.RuleDescriptor) []string {
		out := make([]string, 0, len(ds))
		for _, d := range ds {
			out = append(out, d.Key())
		}
		return out
	}

	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, keys(set.All()))
	assert.Equal(t, []string{"r2", "r3", "r4"}, keys(set.Filter(rules.RuleFilter{MinSeverity: rules.SeverityMajor})))
	assert.Equal(t, []string{"r1", "r2"}, keys(set.Filter(rules.RuleFilter{
		Types: []rules.RuleType{rules.TypeBug, rules.TypeCodeSmell},
	})))
	assert.Equal(t, []string{"r3"}, keys(set.Filter(rules.RuleFilter{
		MinSeverity: rules.SeverityCritical,
		Types:       []rules.RuleType{rules.TypeVulnerability, rules.TypeBug},
	})))
}

func TestRuleSet_Nil(t *testing.T) {
	var set *rules.RuleSet
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.All())
	assert.Empty(t, set.Keys())
	_, ok := set.Get("x")
	assert.False(t, ok)
}

func TestRepository_Refresh(t *testing.T) {
	calls := 0
	fetcher := rules.FetcherFunc(func(_ context.Context) (rules.Batch, error) {
		calls++
		return rules.Batch{Rules: []rules.RuleDescriptor{
			mustRule(t, "r1", rules.SeverityMajor, rules.TypeBug),
		}}, nil
	})

	repo := rules.NewRepository(loggermock.NewNoOpLogger(), fetcher, rules.RejectMalformed)
	assert.Nil(t, repo.Snapshot())

	set, err := repo.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Same(t, set, repo.Snapshot())
	assert.Equal(t, 1, calls)
}

func TestRepository_MalformedPolicy(t *testing.T) {
	bad := &rules.MalformedRuleMetadataError{Key: "r2", Field: "type", Reason: `has unknown value "ISSUE"`}
	fetcher := rules.FetcherFunc(func(_ context.Context) (rules.Batch, error) {
		return rules.Batch{
			Rules:     []rules.RuleDescriptor{mustRule(t, "r1", rules.SeverityMajor, rules.TypeBug)},
			Malformed: []*rules.MalformedRuleMetadataError{bad},
		}, nil
	})

	t.Run("reject", func(t *testing.T) {
		repo := rules.NewRepository(loggermock.NewNoOpLogger(), fetcher, rules.RejectMalformed)
		_, err := repo.Refresh(context.Background())
		require.ErrorIs(t, err, rules.ErrMalformedRuleMetadata)
		assert.Nil(t, repo.Snapshot())
	})

	t.Run("skip", func(t *testing.T) {
		repo := rules.NewRepository(loggermock.NewNoOpLogger(), fetcher, rules.SkipMalformed)
		set, err := repo.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"r1"}, set.Keys())
	})
}

func TestRepository_FailedRefreshKeepsSnapshot(t *testing.T) {
	fail := false
	fetcher := rules.FetcherFunc(func(_ context.Context) (rules.Batch, error) {
		if fail {
			return rules.Batch{}, errors.New("server unavailable")
		}
		return rules.Batch{Rules: []rules.RuleDescriptor{mustRule(t, "r1", rules.SeverityInfo, rules.TypeBug)}}, nil
	})

	repo := rules.NewRepository(loggermock.NewNoOpLogger(), fetcher, rules.RejectMalformed)
	first, err := repo.Refresh(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = repo.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, first, repo.Snapshot())
}

func TestRepository_ConcurrentReaders(t *testing.T) {
	fetcher := rules.FetcherFunc(func(_ context.Context) (rules.Batch, error) {
		return rules.Batch{Rules: []rules.RuleDescriptor{
			mustRule(t, "r1", rules.SeverityInfo, rules.TypeBug),
			mustRule(t, "r2", rules.SeverityBlocker, rules.TypeVulnerability),
		}}, nil
	})
	repo := rules.NewRepository(loggermock.NewNoOpLogger(), fetcher, rules.RejectMalformed)
	_, err := repo.Refresh(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				set := repo.Snapshot()
				if d, ok := set.Get("r2"); !ok || d.Severity() != rules.SeverityBlocker {
					t.Errorf("unexpected snapshot content")
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		_, err := repo.Refresh(context.Background())
		require.NoError(t, err)
	}
	wg.Wait()
}
