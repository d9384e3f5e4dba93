package models

import (
	dErrors "onboard/pkg/domain-errors"
)

// NumberLength is the length of a Canadian corporation number.
const NumberLength = 9

// DefaultInvalidMessage is shown when the registry rejects a number without saying why.
const DefaultInvalidMessage = "Invalid corporation number"

// LookupResult is the registry's verdict on one corporation number. It is
// authoritative only for the exact number that was looked up.
type LookupResult struct {
	Valid             bool   `json:"valid"`
	Message           string `json:"message,omitempty"`
	CorporationNumber string `json:"corporationNumber,omitempty"`
}

// InvalidMessage is the message to surface for a negative result.
func (r LookupResult) InvalidMessage() string {
	if r.Message != "" {
		return r.Message
	}
	return DefaultInvalidMessage
}

// ValidateNumber guards the lookup path. Form level rules produce the user
// facing messages; this only keeps malformed numbers away from the registry.
func ValidateNumber(number string) error {
	if len(number) != NumberLength {
		return dErrors.New(dErrors.CodeInvalidInput, "corporation number must be 9 digits")
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return dErrors.New(dErrors.CodeInvalidInput, "corporation number must be 9 digits")
		}
	}
	return nil
}
