package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// OrderCommitter performs the external commit side effect: persisting
// purchase orders and updating request/quote status. The commit is atomic
// from the engine's point of view; retries are the caller's concern.
type OrderCommitter interface {
	CommitOrder(ctx context.Context, groups []SupplierGroup) error
}

// SubmitState tracks an in-flight order attempt. Failed is a resting
// state, not an automatic transition back to Idle: it stays observable
// until the next PlaceOrder call, which restarts the cycle at Validating
// with the local override state retained.
type SubmitState string

const (
	StateIdle       SubmitState = "idle"
	StateValidating SubmitState = "validating"
	StateSubmitting SubmitState = "submitting"
	StateCommitted  SubmitState = "committed"
	StateFailed     SubmitState = "failed"
)

// Submitter orchestrates final order submission: it re-validates the merged
// item set, commits through the external committer, and clears the local
// override state only on success so a failed attempt can be retried without
// re-entering manual edits.
type Submitter struct {
	validator *Validator
	overrides *OverrideLayer
	skips     *SkipSet
	committer OrderCommitter

	mu    sync.Mutex
	state SubmitState
}

// NewSubmitter wires the orchestrator. The skip set may be nil.
func NewSubmitter(validator *Validator, overrides *OverrideLayer, skips *SkipSet, committer OrderCommitter) *Submitter {
	return &Submitter{
		validator: validator,
		overrides: overrides,
		skips:     skips,
		committer: committer,
		state:     StateIdle,
	}
}

// State returns the current submission state.
func (s *Submitter) State() SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submitter) setState(state SubmitState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// PlaceOrder validates and commits the final merged item set. The
// validation result is returned alongside any error so callers can surface
// advisories even on success. With the blocking gate off (the default)
// validation issues never prevent the commit.
//
// On success the override and skip state is cleared and the state machine
// lands on Committed. On failure local state is preserved and the state
// machine rests on Failed until the next attempt.
func (s *Submitter) PlaceOrder(ctx context.Context, items []SelectedQuoteItem) (ValidationResult, error) {
	s.setState(StateValidating)

	groups := GroupItemsBySupplier(items, s.validator.config.Grouping)
	result := s.validator.ValidateGroups(groups)

	if !result.IsValid && s.validator.config.Blocking {
		s.setState(StateIdle)
		return result, fmt.Errorf("%w: %d validation issues", ErrCommitFailed, len(result.Issues))
	}

	s.setState(StateSubmitting)
	if err := s.committer.CommitOrder(ctx, groups); err != nil {
		// Keep overrides so the user can retry without losing edits.
		s.setState(StateFailed)
		return result, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	s.overrides.Clear()
	if s.skips != nil {
		s.skips.Clear()
	}
	s.setState(StateCommitted)
	return result, nil
}

// Generation is a monotonic counter guarding against stale async
// completions: a fetch records the current generation before starting and
// applies its result only if the generation has not moved on.
type Generation struct {
	current atomic.Uint64
}

// Current returns the current generation number.
func (g *Generation) Current() uint64 {
	return g.current.Load()
}

// Next advances the generation, invalidating all in-flight work started
// under earlier generations, and returns the new value.
func (g *Generation) Next() uint64 {
	return g.current.Add(1)
}

// IsCurrent reports whether work started at generation gen may still apply
// its result.
func (g *Generation) IsCurrent(gen uint64) bool {
	return g.current.Load() == gen
}
