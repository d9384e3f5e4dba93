// Package verification models the corporation-number lookup lifecycle as an
// explicit state value. Transitions are pure: each returns the next State and
// never performs I/O.
package verification

import (
	"onboard/internal/corporation/models"
	"onboard/internal/onboarding/form"
)

// Phase is where the corporation field stands in its verification lifecycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseEligible Phase = "eligible"
	PhasePending  Phase = "pending"
	PhaseResolved Phase = "resolved"
	PhaseFailed   Phase = "failed"
)

// Ticket identifies one issued lookup. A completion is applied only if its
// ticket is still the latest one issued.
type Ticket struct {
	Value      string
	Generation uint64
}

// State is the verification state of one form. The zero value is idle.
type State struct {
	phase      Phase
	value      string
	generation uint64
	issued     uint64
	result     models.LookupResult
}

// Phase reports the current phase.
func (s State) Phase() Phase {
	if s.phase == "" {
		return PhaseIdle
	}
	return s.phase
}

// Value is the corporation number the state refers to; empty when idle.
func (s State) Value() string {
	return s.value
}

// Result is the accepted lookup result. Meaningful only in PhaseResolved.
func (s State) Result() models.LookupResult {
	return s.result
}

// Reset returns to idle, forgetting any eligibility, pending lookup or result.
// Lookups already issued can no longer be accepted.
func (s State) Reset() State {
	return State{issued: s.issued}
}

// MarkEligible records that value passed synchronous validation and may be looked up.
func (s State) MarkEligible(value string) State {
	return State{phase: PhaseEligible, value: value, issued: s.issued}
}

// Begin issues a lookup for value. While a lookup for the same value is
// pending it returns the state unchanged and started=false.
func (s State) Begin(value string) (next State, ticket Ticket, started bool) {
	if s.Phase() == PhasePending && s.value == value {
		return s, Ticket{}, false
	}
	gen := s.issued + 1
	next = State{phase: PhasePending, value: value, generation: gen, issued: gen}
	return next, Ticket{Value: value, Generation: gen}, true
}

// accepts reports whether a completion for t may still be applied, given the
// field's current value.
func (s State) accepts(t Ticket, current string) bool {
	return s.Phase() == PhasePending &&
		t.Generation == s.generation &&
		t.Value == s.value &&
		current == t.Value
}

// Resolve applies a lookup result. Stale completions leave the state unchanged
// and report applied=false.
func (s State) Resolve(t Ticket, current string, result models.LookupResult) (next State, applied bool) {
	if !s.accepts(t, current) {
		return s, false
	}
	s.phase = PhaseResolved
	s.result = result
	return s, true
}

// Fail applies a transport or parse failure, under the same staleness rule as Resolve.
func (s State) Fail(t Ticket, current string) (next State, applied bool) {
	if !s.accepts(t, current) {
		return s, false
	}
	s.phase = PhaseFailed
	s.result = models.LookupResult{}
	return s, true
}

// Pending reports whether a lookup for value is in flight.
func (s State) Pending(value string) bool {
	return s.Phase() == PhasePending && s.value == value
}

// ValidFor reports whether the latest accepted lookup confirmed value.
func (s State) ValidFor(value string) bool {
	return s.Phase() == PhaseResolved && s.value == value && s.result.Valid
}

// Settled reports whether value has a verdict, positive or negative, that a
// repeated lookup would not change.
func (s State) Settled(value string) bool {
	return s.Phase() == PhaseResolved && s.value == value
}

// Error is the corporation error derived from verification, if any: the
// registry's message for an invalid number, or the generic failure message.
func (s State) Error() (string, bool) {
	switch s.Phase() {
	case PhaseResolved:
		if !s.result.Valid {
			return s.result.InvalidMessage(), true
		}
	case PhaseFailed:
		return form.MsgCorporationLookupFailed, true
	}
	return "", false
}
