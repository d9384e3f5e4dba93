// Package orchestrator owns the state of one onboarding form and sequences
// field edits, synchronous validation, corporation verification and
// submission against it.
//
// All state transitions happen under a single mutex. Remote calls never run
// with the mutex held, so edits proceed while a lookup or submission is in
// flight, and lookup results are reconciled against whatever the form holds
// when they arrive.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"

	"onboard/internal/corporation/models"
	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/verification"
)

//go:generate mockgen -source=orchestrator.go -destination=mocks/mocks.go -package=mocks Verifier,Submitter

// Verifier asks the registry about a corporation number.
type Verifier interface {
	Verify(ctx context.Context, number string) (*models.LookupResult, error)
}

// Submitter sends a completed form to the profile service. A rejection
// carrying a reason is reported as an upstream rejected error.
type Submitter interface {
	Submit(ctx context.Context, values form.Values) error
}

type Orchestrator struct {
	verifier  Verifier
	submitter Submitter
	logger    *slog.Logger
	metrics   *metrics.Metrics

	// lookups run on ctx, which lives as long as the form.
	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	values       form.Values
	errors       form.Errors
	verification verification.State
	submitting   bool
	submitted    bool
	inflight     int
	settled      chan struct{}
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMetrics records submission and verification outcomes. Metrics may be nil.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// New returns an empty form. Close releases it.
func New(verifier Verifier, submitter Submitter, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	settled := make(chan struct{})
	close(settled)

	o := &Orchestrator{
		verifier:  verifier,
		submitter: submitter,
		logger:    slog.Default(),
		ctx:       ctx,
		cancel:    cancel,
		errors:    make(form.Errors),
		settled:   settled,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Close abandons in-flight lookups. The form stays readable.
func (o *Orchestrator) Close() {
	o.cancel()
}

// Wait blocks until every lookup issued so far has been applied or discarded.
func (o *Orchestrator) Wait(ctx context.Context) error {
	for {
		o.mu.Lock()
		if o.inflight == 0 {
			o.mu.Unlock()
			return nil
		}
		ch := o.settled
		o.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// Snapshot returns the current view of the form.
func (o *Orchestrator) Snapshot() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.viewLocked()
}

func (o *Orchestrator) viewLocked() View {
	current := o.values.CorporationNumber
	return View{
		Values:                  o.values,
		Errors:                  MergeErrors(o.errors, o.verification, current),
		IsSubmitting:            o.submitting,
		IsValidatingCorporation: o.verification.Pending(current),
		Submitted:               o.submitted,
		Verification:            o.verification.Phase(),
	}
}

func (o *Orchestrator) lookupStartedLocked() {
	if o.inflight == 0 {
		o.settled = make(chan struct{})
	}
	o.inflight++
}

func (o *Orchestrator) lookupDoneLocked() {
	o.inflight--
	if o.inflight == 0 {
		close(o.settled)
	}
}
