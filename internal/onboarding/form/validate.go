package form

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation messages, shown verbatim to the user.
const (
	MsgFirstNameRequired       = "First name is required"
	MsgFirstNameTooLong        = "First name must be 50 characters or less"
	MsgLastNameRequired        = "Last name is required"
	MsgLastNameTooLong         = "Last name must be 50 characters or less"
	MsgPhoneRequired           = "Phone number is required"
	MsgPhoneFormat             = "Phone number must be a valid Canadian number (format: +1XXXXXXXXXX)"
	MsgCorporationRequired     = "Corporation number is required"
	MsgCorporationLength       = "Corporation number must be exactly 9 characters"
	MsgCorporationDigits       = "Corporation number must contain only digits"
	MsgCorporationPending      = "Please wait for corporation number validation"
	MsgCorporationLookupFailed = "Failed to validate corporation number"
	MsgSubmissionFailed        = "Submission failed"
)

var (
	phonePattern  = regexp.MustCompile(`^\+1[0-9]{10}$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateField applies the rules for f in order and returns the first
// violated message. ok is true when value passes every rule.
func ValidateField(f Field, value string) (message string, ok bool) {
	switch f {
	case FieldFirstName:
		return validateName(value, MsgFirstNameRequired, MsgFirstNameTooLong)
	case FieldLastName:
		return validateName(value, MsgLastNameRequired, MsgLastNameTooLong)
	case FieldPhone:
		switch {
		case value == "":
			return MsgPhoneRequired, false
		case !phonePattern.MatchString(value):
			return MsgPhoneFormat, false
		}
	case FieldCorporationNumber:
		switch {
		case value == "":
			return MsgCorporationRequired, false
		case utf8.RuneCountInString(value) != CorporationNumberLength:
			return MsgCorporationLength, false
		case !digitsPattern.MatchString(value):
			return MsgCorporationDigits, false
		}
	}
	return "", true
}

func validateName(value, required, tooLong string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return required, false
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return tooLong, false
	}
	return "", true
}

// Validate returns the first failure of every field that fails. The result is
// empty, not nil, when the whole form is valid.
func Validate(v Values) Errors {
	errs := make(Errors)
	for _, f := range Fields {
		if msg, ok := ValidateField(f, v.Get(f)); !ok {
			errs[f] = msg
		}
	}
	return errs
}
