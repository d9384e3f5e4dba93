package orchestrator

import (
	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/verification"
	"onboard/internal/platform/privacy"
)

// UpdateField normalizes raw, stores it and clears the field's error. Any
// edit of the corporation number drops its verification. Never calls out.
func (o *Orchestrator) UpdateField(f form.Field, raw string) View {
	o.mu.Lock()
	defer o.mu.Unlock()

	if f == form.FieldGeneral {
		return o.viewLocked()
	}
	o.values.Set(f, form.Normalize(f, raw))
	delete(o.errors, f)
	if f == form.FieldCorporationNumber {
		o.verification = o.verification.Reset()
	}
	return o.viewLocked()
}

// ValidateField applies f's synchronous rule to value and records the
// outcome. A complete corporation number that matches the stored value also
// starts its verification, unless one is in flight or already settled.
func (o *Orchestrator) ValidateField(f form.Field, value string) bool {
	msg, ok := form.ValidateField(f, value)

	o.mu.Lock()
	defer o.mu.Unlock()

	if f == form.FieldGeneral {
		return ok
	}
	if !ok {
		o.errors[f] = msg
		return false
	}

	if f == form.FieldCorporationNumber {
		if value != o.values.CorporationNumber || o.verification.Settled(value) || o.verification.Pending(value) {
			return true
		}
		o.verification = o.verification.MarkEligible(value)
		o.startLookupLocked(value)
		return true
	}

	delete(o.errors, f)
	return true
}

// startLookupLocked issues a lookup for number unless one is already pending.
func (o *Orchestrator) startLookupLocked(number string) {
	next, ticket, started := o.verification.Begin(number)
	o.verification = next
	if !started {
		return
	}
	o.lookupStartedLocked()
	go o.runLookup(ticket)
}

func (o *Orchestrator) runLookup(t verification.Ticket) {
	result, err := o.verifier.Verify(o.ctx, t.Value)

	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.lookupDoneLocked()

	current := o.values.CorporationNumber
	var applied bool
	outcome := metrics.VerificationFailed
	switch {
	case err != nil:
		o.verification, applied = o.verification.Fail(t, current)
	case result == nil:
		o.verification, applied = o.verification.Fail(t, current)
	default:
		o.verification, applied = o.verification.Resolve(t, current, *result)
		outcome = metrics.VerificationInvalid
		if result.Valid {
			outcome = metrics.VerificationValid
		}
	}

	if !applied {
		o.metrics.RecordVerification(metrics.VerificationDiscarded)
		o.logger.Debug("stale corporation lookup discarded",
			"corporation", privacy.MaskCorporationNumber(t.Value),
		)
		return
	}
	o.metrics.RecordVerification(outcome)
	if err != nil {
		o.logger.Warn("corporation verification failed",
			"corporation", privacy.MaskCorporationNumber(t.Value),
			"error", err,
		)
	}
}
