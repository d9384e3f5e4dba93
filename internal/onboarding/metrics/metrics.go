// Package metrics provides Prometheus metrics for onboarding forms.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	SubmissionSucceeded         = "succeeded"
	SubmissionRejected          = "rejected"
	SubmissionBlockedValidation = "blocked_validation"
	SubmissionBlockedLookup     = "blocked_verification"
	SubmissionInProgress        = "in_progress"
)

// Verification outcomes as applied to a form.
const (
	VerificationValid     = "valid"
	VerificationInvalid   = "invalid"
	VerificationFailed    = "failed"
	VerificationDiscarded = "discarded"
)

type Metrics struct {
	FormsCreatedTotal      prometheus.Counter
	FormsExpiredTotal      prometheus.Counter
	ActiveForms            prometheus.Gauge
	SubmissionsTotal       *prometheus.CounterVec
	SubmissionDuration     prometheus.Histogram
	VerificationsTotal     *prometheus.CounterVec
	SubmissionErrorsBySlot *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FormsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_forms_created_total",
			Help: "Total number of onboarding forms opened",
		}),
		FormsExpiredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_forms_expired_total",
			Help: "Total number of onboarding forms dropped after going idle",
		}),
		ActiveForms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "onboard_forms_active",
			Help: "Number of live onboarding forms",
		}),
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_form_submissions_total",
			Help: "Submission attempts by outcome",
		}, []string{"outcome"}),
		SubmissionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_form_submission_duration_seconds",
			Help:    "Duration of profile submissions",
			Buckets: prometheus.DefBuckets,
		}),
		VerificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_form_verifications_total",
			Help: "Corporation verifications applied to forms by outcome",
		}, []string{"outcome"}),
		SubmissionErrorsBySlot: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_form_submission_errors_total",
			Help: "Rejected submissions by the field their message was routed to",
		}, []string{"field"}),
	}
}

func (m *Metrics) IncrementFormsCreated() {
	if m == nil {
		return
	}
	m.FormsCreatedTotal.Inc()
}

func (m *Metrics) IncrementFormsExpired(n int) {
	if m == nil {
		return
	}
	m.FormsExpiredTotal.Add(float64(n))
}

func (m *Metrics) SetActiveForms(n int) {
	if m == nil {
		return
	}
	m.ActiveForms.Set(float64(n))
}

func (m *Metrics) RecordSubmission(outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSubmissionDuration(durationSeconds float64) {
	if m == nil {
		return
	}
	m.SubmissionDuration.Observe(durationSeconds)
}

func (m *Metrics) RecordSubmissionError(field string) {
	if m == nil {
		return
	}
	m.SubmissionErrorsBySlot.WithLabelValues(field).Inc()
}

func (m *Metrics) RecordVerification(outcome string) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(outcome).Inc()
}
