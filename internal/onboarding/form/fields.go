// Package form defines the onboarding form's fields, how raw input is
// normalized before storage, the synchronous rule for each field and the
// routing of submission failures back onto fields.
package form

import (
	"maps"

	dErrors "onboard/pkg/domain-errors"
)

// Field names one onboarding input. FieldGeneral is only ever an error key.
type Field string

const (
	FieldFirstName         Field = "firstName"
	FieldLastName          Field = "lastName"
	FieldPhone             Field = "phone"
	FieldCorporationNumber Field = "corporationNumber"
	FieldGeneral           Field = "general"
)

// Fields lists the four inputs in display order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldPhone, FieldCorporationNumber}

// ParseField accepts one of the four input names.
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldFirstName, FieldLastName, FieldPhone, FieldCorporationNumber:
		return f, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "unknown field: "+name)
}

// Label is the human name of a field.
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First name"
	case FieldLastName:
		return "Last name"
	case FieldPhone:
		return "Phone number"
	case FieldCorporationNumber:
		return "Corporation number"
	default:
		return "General"
	}
}

// Values holds the canonical (normalized) value of every field.
type Values struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Phone             string `json:"phone"`
	CorporationNumber string `json:"corporationNumber"`
}

// Get returns the value stored for f, or "" for FieldGeneral.
func (v Values) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return v.FirstName
	case FieldLastName:
		return v.LastName
	case FieldPhone:
		return v.Phone
	case FieldCorporationNumber:
		return v.CorporationNumber
	}
	return ""
}

// Set stores value for f. Setting FieldGeneral is a no-op.
func (v *Values) Set(f Field, value string) {
	switch f {
	case FieldFirstName:
		v.FirstName = value
	case FieldLastName:
		v.LastName = value
	case FieldPhone:
		v.Phone = value
	case FieldCorporationNumber:
		v.CorporationNumber = value
	}
}

// Errors maps a field (or FieldGeneral) to its message. A key is present only
// while that field has a known problem.
type Errors map[Field]string

// Clone returns an independent copy; nil stays nil.
func (e Errors) Clone() Errors {
	if e == nil {
		return nil
	}
	return maps.Clone(e)
}
