// Package session keeps live onboarding forms in memory, keyed by FormID.
//
// A form lives until it is deleted or stays untouched for longer than the
// idle TTL. Nothing survives a restart.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/orchestrator"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

// DefaultTTL is how long an untouched form is kept.
const DefaultTTL = 30 * time.Minute

type entry struct {
	form     *orchestrator.Orchestrator
	lastSeen time.Time
}

type Manager struct {
	verifier  orchestrator.Verifier
	submitter orchestrator.Submitter
	formOpts  []orchestrator.Option
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu    sync.Mutex
	forms map[id.FormID]*entry
}

type Option func(*Manager)

// WithTTL overrides the idle TTL when greater than zero.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithFormOptions are applied to every form the manager creates.
func WithFormOptions(opts ...orchestrator.Option) Option {
	return func(m *Manager) {
		m.formOpts = append(m.formOpts, opts...)
	}
}

func New(verifier orchestrator.Verifier, submitter orchestrator.Submitter, opts ...Option) *Manager {
	m := &Manager{
		verifier:  verifier,
		submitter: submitter,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    slog.Default(),
		forms:     make(map[id.FormID]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a new empty form.
func (m *Manager) Create(ctx context.Context) (id.FormID, *orchestrator.Orchestrator) {
	formID := id.NewFormID()
	opts := append([]orchestrator.Option{
		orchestrator.WithLogger(m.logger.With("form_id", formID.String())),
		orchestrator.WithMetrics(m.metrics),
	}, m.formOpts...)
	f := orchestrator.New(m.verifier, m.submitter, opts...)

	m.mu.Lock()
	m.forms[formID] = &entry{form: f, lastSeen: m.now()}
	active := len(m.forms)
	m.mu.Unlock()

	m.metrics.IncrementFormsCreated()
	m.metrics.SetActiveForms(active)
	m.logger.DebugContext(ctx, "onboarding form created", "form_id", formID.String())
	return formID, f
}

// Get returns a live form and extends its lifetime.
func (m *Manager) Get(_ context.Context, formID id.FormID) (*orchestrator.Orchestrator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.forms[formID]
	if !ok || m.expiredLocked(e, m.now()) {
		return nil, dErrors.New(dErrors.CodeNotFound, "form not found")
	}
	e.lastSeen = m.now()
	return e.form, nil
}

// Delete closes and forgets a form.
func (m *Manager) Delete(_ context.Context, formID id.FormID) error {
	m.mu.Lock()
	e, ok := m.forms[formID]
	delete(m.forms, formID)
	active := len(m.forms)
	m.mu.Unlock()

	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "form not found")
	}
	e.form.Close()
	m.metrics.SetActiveForms(active)
	return nil
}

// DeleteExpiredForms drops every form idle for longer than the TTL at now.
func (m *Manager) DeleteExpiredForms(_ context.Context, now time.Time) (int, error) {
	var expired []*orchestrator.Orchestrator

	m.mu.Lock()
	for formID, e := range m.forms {
		if m.expiredLocked(e, now) {
			expired = append(expired, e.form)
			delete(m.forms, formID)
		}
	}
	active := len(m.forms)
	m.mu.Unlock()

	for _, f := range expired {
		f.Close()
	}
	m.metrics.IncrementFormsExpired(len(expired))
	m.metrics.SetActiveForms(active)
	return len(expired), nil
}

// Len reports the number of stored forms.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.forms)
}

// Close closes every form. The manager stays usable.
func (m *Manager) Close() {
	m.mu.Lock()
	forms := m.forms
	m.forms = make(map[id.FormID]*entry)
	m.mu.Unlock()

	for _, e := range forms {
		e.form.Close()
	}
	m.metrics.SetActiveForms(0)
}

func (m *Manager) expiredLocked(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) > m.ttl
}
