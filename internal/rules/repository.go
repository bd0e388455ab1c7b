package rules

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Batch is the outcome of one fetch: every rule that decoded cleanly and one
// error per rule that did not.
type Batch struct {
	Rules     []RuleDescriptor
	Malformed []*MalformedRuleMetadataError
}

type Fetcher interface {
	FetchRules(ctx context.Context) (Batch, error)
}

type FetcherFunc func(ctx context.Context) (Batch, error)

func (f FetcherFunc) FetchRules(ctx context.Context) (Batch, error) {
	return f(ctx)
}

// MalformedPolicy decides what a refresh does with rules the server described
// in a way that could not be decoded.
type MalformedPolicy int

const (
	// RejectMalformed fails the refresh on the first malformed rule.
	RejectMalformed MalformedPolicy = iota
	// SkipMalformed logs and drops malformed rules.
	SkipMalformed
)

// Repository holds the rule set for an analysis session. Refresh replaces the
// whole snapshot; readers always see either the old or the new set.
type Repository struct {
	logger  *zerolog.Logger
	fetcher Fetcher
	policy  MalformedPolicy
	current atomic.Pointer[RuleSet]
}

func NewRepository(logger *zerolog.Logger, fetcher Fetcher, policy MalformedPolicy) *Repository {
	return &Repository{
		logger:  logger,
		fetcher: fetcher,
		policy:  policy,
	}
}

// Snapshot returns the last successfully refreshed set, or nil before the
// first refresh.
func (r *Repository) Snapshot() *RuleSet {
	return r.current.Load()
}

// Refresh fetches the rules again and swaps the snapshot in. On error the
// previous snapshot stays in place.
func (r *Repository) Refresh(ctx context.Context) (*RuleSet, error) {
	batch, err := r.fetcher.FetchRules(ctx)
	if err != nil {
		return nil, err
	}

	if len(batch.Malformed) > 0 {
		switch r.policy {
		case RejectMalformed:
			r.logger.Debug().Int("malformed", len(batch.Malformed)).Msg("rejecting rule refresh")
			return nil, batch.Malformed[0]
		case SkipMalformed:
			for _, m := range batch.Malformed {
				r.logger.Warn().Str("rule", m.Key).Str("field", m.Field).Msg(m.Error())
			}
		default:
			return nil, fmt.Errorf("unknown malformed rule policy %d", r.policy)
		}
	}

	set, err := NewRuleSet(batch.Rules...)
	if err != nil {
		return nil, err
	}
	r.current.Store(set)
	r.logger.Debug().Int("rules", set.Len()).Int("skipped", len(batch.Malformed)).Msg("rule set refreshed")
	return set, nil
}
