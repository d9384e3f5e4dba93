package handler

import "onboard/pkg/validation"

// UpdateFieldRequest carries the raw text of one field. Empty clears it.
// Raw input is capped well above any field's limit; normalization trims the rest.
type UpdateFieldRequest struct {
	Value string `json:"value" validate:"max=256"`
}

func (r *UpdateFieldRequest) Validate() error {
	return validation.Validate(r)
}
