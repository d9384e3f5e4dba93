package testutil

import (
	"github.com/google/uuid"

	"onboard/internal/onboarding/form"
	id "onboard/pkg/domain"
)

// Corporation numbers understood by the mock registry.
const (
	ValidCorporationNumber   = "123456789"
	UnknownCorporationNumber = "000000000"
	TakenPhone               = "+10000000000"
)

// TestIDs are fixed form IDs for deterministic tests.
var TestIDs = struct {
	Form1 id.FormID
	Form2 id.FormID
}{
	Form1: id.FormID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	Form2: id.FormID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
}

// ValidValues returns a form that passes every synchronous rule.
func ValidValues() form.Values {
	return form.Values{
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Phone:             "+14165550123",
		CorporationNumber: ValidCorporationNumber,
	}
}

// ValuesWith returns ValidValues with the given fields overridden.
func ValuesWith(overrides map[form.Field]string) form.Values {
	v := ValidValues()
	for f, value := range overrides {
		v.Set(f, value)
	}
	return v
}
