package orchestrator

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"onboard/internal/corporation/models"
	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/verification"
)

func resolved(number string, result models.LookupResult) verification.State {
	st, t, _ := verification.State{}.Begin(number)
	st, _ = st.Resolve(t, number, result)
	return st
}

func failed(number string) verification.State {
	st, t, _ := verification.State{}.Begin(number)
	st, _ = st.Fail(t, number)
	return st
}

func pending(number string) verification.State {
	st, _, _ := verification.State{}.Begin(number)
	return st
}

func TestMergeErrors(t *testing.T) {
	const number = "123456789"

	tests := []struct {
		name  string
		local form.Errors
		state verification.State
		want  form.Errors
	}{
		{
			name:  "no verification keeps local errors",
			local: form.Errors{form.FieldPhone: form.MsgPhoneRequired},
			state: verification.State{},
			want:  form.Errors{form.FieldPhone: form.MsgPhoneRequired},
		},
		{
			name:  "invalid verdict overrides the local corporation error",
			local: form.Errors{form.FieldCorporationNumber: form.MsgCorporationPending},
			state: resolved(number, models.LookupResult{Valid: false, Message: "Corporation number not found"}),
			want:  form.Errors{form.FieldCorporationNumber: "Corporation number not found"},
		},
		{
			name:  "failed lookup adds the generic message",
			local: nil,
			state: failed(number),
			want:  form.Errors{form.FieldCorporationNumber: form.MsgCorporationLookupFailed},
		},
		{
			name: "valid verdict removes a stale local corporation error",
			local: form.Errors{
				form.FieldCorporationNumber: form.MsgCorporationPending,
				form.FieldGeneral:           "Something went wrong",
			},
			state: resolved(number, models.LookupResult{Valid: true}),
			want:  form.Errors{form.FieldGeneral: "Something went wrong"},
		},
		{
			name:  "pending lookup leaves the local error",
			local: form.Errors{form.FieldCorporationNumber: form.MsgCorporationPending},
			state: pending(number),
			want:  form.Errors{form.FieldCorporationNumber: form.MsgCorporationPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeErrors(tt.local, tt.state, number)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MergeErrors() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("a verdict for another number is ignored", func(t *testing.T) {
		state := resolved(number, models.LookupResult{Valid: false})
		got := MergeErrors(nil, state, "987654321")
		if len(got) != 0 {
			t.Errorf("expected no errors, got %v", got)
		}
	})

	t.Run("does not alias the local map", func(t *testing.T) {
		local := form.Errors{form.FieldCorporationNumber: form.MsgCorporationPending}
		_ = MergeErrors(local, resolved(number, models.LookupResult{Valid: true}), number)
		if local[form.FieldCorporationNumber] != form.MsgCorporationPending {
			t.Errorf("local errors were modified")
		}
	})
}
