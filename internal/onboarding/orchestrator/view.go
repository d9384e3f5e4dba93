package orchestrator

import (
	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/verification"
)

// View is what a client renders: canonical values, the merged error map and
// the in-flight flags.
type View struct {
	Values                  form.Values        `json:"values"`
	Errors                  form.Errors        `json:"errors"`
	IsSubmitting            bool               `json:"isSubmitting"`
	IsValidatingCorporation bool               `json:"isValidatingCorporation"`
	Submitted               bool               `json:"submitted"`
	Verification            verification.Phase `json:"verification"`
}

// HasErrors reports whether any field or the general slot carries a message.
func (v View) HasErrors() bool {
	return len(v.Errors) > 0
}

// MergeErrors combines local errors with the verification verdict for the
// current corporation number. A verification error replaces the local
// corporation error; a positive verdict removes it.
func MergeErrors(local form.Errors, v verification.State, current string) form.Errors {
	merged := make(form.Errors, len(local)+1)
	for f, msg := range local {
		merged[f] = msg
	}
	if v.Value() != current {
		return merged
	}
	if msg, ok := v.Error(); ok {
		merged[form.FieldCorporationNumber] = msg
	} else if v.ValidFor(current) {
		delete(merged, form.FieldCorporationNumber)
	}
	return merged
}
