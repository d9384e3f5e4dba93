package prompt

import (
	"context"
	"fmt"

	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/orchestrator"
)

// Form is the orchestrator surface the runner needs.
type Form interface {
	UpdateField(f form.Field, raw string) orchestrator.View
	ValidateField(f form.Field, value string) bool
	SubmitForm(ctx context.Context) bool
	Snapshot() orchestrator.View
	Wait(ctx context.Context) error
}

// errorOrder is the order failures are listed in after a refused submission.
var errorOrder = []form.Field{
	form.FieldFirstName,
	form.FieldLastName,
	form.FieldPhone,
	form.FieldCorporationNumber,
	form.FieldGeneral,
}

type Runner struct {
	driver Driver
	form   Form
}

func NewRunner(driver Driver, f Form) *Runner {
	return &Runner{driver: driver, form: f}
}

// Run fills and submits the form. It returns true once the profile is
// accepted and false if the user declines to (re)submit.
func (r *Runner) Run(ctx context.Context) (bool, error) {
	pending := form.Fields
	for {
		for _, f := range pending {
			if err := r.fillField(ctx, f); err != nil {
				return false, err
			}
		}

		submit, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit profile?", Default: true})
		if err != nil || !submit {
			return false, err
		}

		if r.form.SubmitForm(ctx) {
			return true, r.driver.Info(ctx, "Profile submitted.")
		}
		if err := r.form.Wait(ctx); err != nil {
			return false, err
		}

		view := r.form.Snapshot()
		if err := r.showErrors(ctx, view); err != nil {
			return false, err
		}
		pending = failingFields(view)
		if len(pending) == 0 {
			retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
			if err != nil || !retry {
				return false, err
			}
		}
	}
}

// fillField prompts f until its value passes validation, including the
// corporation lookup.
func (r *Runner) fillField(ctx context.Context, f form.Field) error {
	for {
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: f.Label(),
			Default: r.form.Snapshot().Values.Get(f),
			Help:    help(f),
		})
		if err != nil {
			return err
		}

		view := r.form.UpdateField(f, raw)
		r.form.ValidateField(f, view.Values.Get(f))
		if f == form.FieldCorporationNumber && r.form.Snapshot().IsValidatingCorporation {
			if err := r.driver.Info(ctx, "Validating corporation number..."); err != nil {
				return err
			}
			if err := r.form.Wait(ctx); err != nil {
				return err
			}
		}

		msg, failed := r.form.Snapshot().Errors[f]
		if !failed {
			return nil
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("  ✗ %s", msg)); err != nil {
			return err
		}
	}
}

func (r *Runner) showErrors(ctx context.Context, view orchestrator.View) error {
	for _, f := range errorOrder {
		msg, ok := view.Errors[f]
		if !ok {
			continue
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("  ✗ %s: %s", f.Label(), msg)); err != nil {
			return err
		}
	}
	return nil
}

func failingFields(view orchestrator.View) []form.Field {
	var out []form.Field
	for _, f := range form.Fields {
		if _, ok := view.Errors[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

func help(f form.Field) string {
	switch f {
	case form.FieldPhone:
		return "Canadian number, stored as +1XXXXXXXXXX"
	case form.FieldCorporationNumber:
		return "9 digits, checked against the corporation registry"
	default:
		return fmt.Sprintf("Up to %d characters", form.MaxNameLength)
	}
}
