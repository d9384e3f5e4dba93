// Package domain provides type-safe identifiers used at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "onboard/pkg/domain-errors"
)

// FormID identifies one live onboarding form instance.
type FormID uuid.UUID

// NewFormID returns a fresh random form identifier.
func NewFormID() FormID {
	return FormID(uuid.New())
}

// ParseFormID parses a form identifier received from a client.
// Nil UUIDs are rejected; a nil form can never have been issued.
func ParseFormID(s string) (FormID, error) {
	if s == "" {
		return FormID{}, dErrors.New(dErrors.CodeInvalidInput, "form ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return FormID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid form ID format")
	}
	if id == uuid.Nil {
		return FormID{}, dErrors.New(dErrors.CodeInvalidInput, "form ID cannot be nil")
	}
	return FormID(id), nil
}

func (id FormID) String() string { return uuid.UUID(id).String() }

func (id FormID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
