package orchestrator

import (
	"context"
	"time"

	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/metrics"
	"onboard/internal/upstream"
)

// SubmitForm validates every field, requires a positive verification of the
// current corporation number and then submits. It reports whether the
// profile was accepted; every failure is recorded on the form instead.
//
// A call made while a submission is pending returns false and changes nothing.
func (o *Orchestrator) SubmitForm(ctx context.Context) bool {
	o.mu.Lock()
	if o.submitting {
		o.mu.Unlock()
		o.metrics.RecordSubmission(metrics.SubmissionInProgress)
		return false
	}

	if errs := form.Validate(o.values); len(errs) > 0 {
		o.errors = errs
		o.mu.Unlock()
		o.metrics.RecordSubmission(metrics.SubmissionBlockedValidation)
		return false
	}

	current := o.values.CorporationNumber
	if !o.verification.ValidFor(current) {
		o.errors = form.Errors{form.FieldCorporationNumber: form.MsgCorporationPending}
		if !o.verification.Pending(current) {
			o.startLookupLocked(current)
		}
		o.mu.Unlock()
		o.metrics.RecordSubmission(metrics.SubmissionBlockedLookup)
		return false
	}

	o.errors = make(form.Errors)
	o.submitting = true
	o.submitted = false
	values := o.values
	o.mu.Unlock()

	start := time.Now()
	err := o.submitter.Submit(ctx, values)
	o.metrics.ObserveSubmissionDuration(time.Since(start).Seconds())

	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitting = false

	if err == nil {
		o.values = form.Values{}
		o.errors = make(form.Errors)
		o.verification = o.verification.Reset()
		o.submitted = true
		o.metrics.RecordSubmission(metrics.SubmissionSucceeded)
		o.logger.InfoContext(ctx, "onboarding form submitted")
		return true
	}

	msg, ok := upstream.RejectionMessage(err)
	if !ok {
		msg = form.MsgSubmissionFailed
	}
	slot := form.ClassifySubmissionError(msg)
	o.errors[slot] = msg
	o.metrics.RecordSubmission(metrics.SubmissionRejected)
	o.metrics.RecordSubmissionError(string(slot))
	o.logger.WarnContext(ctx, "onboarding form submission failed",
		"field", slot,
		"category", upstream.CategoryOf(err),
		"error", err,
	)
	return false
}
