package form

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"

	dErrors "onboard/pkg/domain-errors"
)

type FormSuite struct {
	suite.Suite
}

func TestFormSuite(t *testing.T) {
	suite.Run(t, new(FormSuite))
}

func validValues() Values {
	return Values{
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Phone:             "+14165551234",
		CorporationNumber: "123456789",
	}
}

func (s *FormSuite) TestParseField() {
	for _, f := range Fields {
		got, err := ParseField(string(f))
		s.Require().NoError(err)
		s.Equal(f, got)
	}

	_, err := ParseField("general")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	_, err = ParseField("email")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *FormSuite) TestValuesGetSet() {
	var v Values
	for i, f := range Fields {
		v.Set(f, strings.Repeat("x", i+1))
	}
	v.Set(FieldGeneral, "ignored")

	s.Equal("x", v.FirstName)
	s.Equal("xx", v.LastName)
	s.Equal("xxx", v.Phone)
	s.Equal("xxxx", v.CorporationNumber)
	s.Equal("", v.Get(FieldGeneral))
}

func (s *FormSuite) TestNormalizeNames() {
	s.Equal("Ada", Normalize(FieldFirstName, "Ada"))
	s.Equal("  spaced  ", Normalize(FieldLastName, "  spaced  "))
	s.Equal(strings.Repeat("a", 50), Normalize(FieldFirstName, strings.Repeat("a", 55)))
	s.Equal(strings.Repeat("é", 50), Normalize(FieldLastName, strings.Repeat("é", 51)))
}

func (s *FormSuite) TestNormalizePhone() {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "+1"},
		{"4165551234", "+14165551234"},
		{"(416) 555-1234", "+14165551234"},
		{"+1 416 555 1234", "+14165551234"},
		{"+14165551234", "+14165551234"},
		{"14165551234", "+14165551234"},
		{"+44 20 7946 0958", "+14420794609"},
		{"+1416555123499", "+14165551234"},
		{"1", "+1"},
		{"+", "+1"},
		{"abc", "+1"},
	}
	for _, tt := range tests {
		s.Equal(tt.want, Normalize(FieldPhone, tt.raw), tt.raw)
	}
}

func (s *FormSuite) TestNormalizePhoneIsIdempotent() {
	for _, raw := range []string{"4165551234", "+1 (416) 555", "1-800-555-0199", "+33 1 23"} {
		once := NormalizePhone(raw)
		s.Equal(once, NormalizePhone(once), raw)
	}
}

func (s *FormSuite) TestNormalizeCorporationNumber() {
	s.Equal("123456789", Normalize(FieldCorporationNumber, "abc123def456789"))
	s.Equal("123456789", Normalize(FieldCorporationNumber, "1234567890"))
	s.Equal("12", Normalize(FieldCorporationNumber, "1-2"))
	s.Equal("", Normalize(FieldCorporationNumber, "no digits"))
}

func (s *FormSuite) TestValidateFieldRules() {
	tests := []struct {
		name  string
		field Field
		value string
		want  string
	}{
		{"first name empty", FieldFirstName, "", MsgFirstNameRequired},
		{"first name blank", FieldFirstName, "   ", MsgFirstNameRequired},
		{"first name too long", FieldFirstName, strings.Repeat("a", 51), MsgFirstNameTooLong},
		{"first name at limit", FieldFirstName, strings.Repeat("a", 50), ""},
		{"last name empty", FieldLastName, "", MsgLastNameRequired},
		{"last name too long", FieldLastName, strings.Repeat("b", 60), MsgLastNameTooLong},
		{"phone empty", FieldPhone, "", MsgPhoneRequired},
		{"phone prefix only", FieldPhone, "+1", MsgPhoneFormat},
		{"phone missing prefix", FieldPhone, "1234567890", MsgPhoneFormat},
		{"phone too short", FieldPhone, "+123456789", MsgPhoneFormat},
		{"phone too long", FieldPhone, "+123456789012", MsgPhoneFormat},
		{"phone valid", FieldPhone, "+11234567890", ""},
		{"corporation empty", FieldCorporationNumber, "", MsgCorporationRequired},
		{"corporation short", FieldCorporationNumber, "12345678", MsgCorporationLength},
		{"corporation long", FieldCorporationNumber, "1234567890", MsgCorporationLength},
		{"corporation letters", FieldCorporationNumber, "12345678a", MsgCorporationDigits},
		{"corporation valid", FieldCorporationNumber, "123456789", ""},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			msg, ok := ValidateField(tt.field, tt.value)
			s.Equal(tt.want, msg)
			s.Equal(tt.want == "", ok)
		})
	}
}

func (s *FormSuite) TestValidateEmptyFormReportsEveryRequiredField() {
	got := Validate(Values{})

	want := Errors{
		FieldFirstName:         MsgFirstNameRequired,
		FieldLastName:          MsgLastNameRequired,
		FieldPhone:             MsgPhoneRequired,
		FieldCorporationNumber: MsgCorporationRequired,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		s.Failf("unexpected errors", "(-want +got):\n%s", diff)
	}
}

func (s *FormSuite) TestValidateValidForm() {
	errs := Validate(validValues())
	s.NotNil(errs)
	s.Empty(errs)
}

func (s *FormSuite) TestValidateReportsOnlyFailingFields() {
	v := validValues()
	v.Phone = "+1416"
	v.CorporationNumber = "12345"

	want := Errors{
		FieldPhone:             MsgPhoneFormat,
		FieldCorporationNumber: MsgCorporationLength,
	}
	if diff := cmp.Diff(want, Validate(v)); diff != "" {
		s.Failf("unexpected errors", "(-want +got):\n%s", diff)
	}
}

func (s *FormSuite) TestClassifySubmissionError() {
	tests := map[string]Field{
		"Phone number already exists":                  FieldPhone,
		"PHONE is blocked":                             FieldPhone,
		"First name contains invalid characters":       FieldFirstName,
		"firstName is invalid":                         FieldFirstName,
		"Last name too common":                         FieldLastName,
		"lastname rejected":                            FieldLastName,
		"Corporation is dissolved":                     FieldCorporationNumber,
		"Internal server error":                        FieldGeneral,
		"":                                             FieldGeneral,
		"Phone and corporation number are both in use": FieldPhone,
		"Last name and first name mismatch":            FieldFirstName,
	}
	for msg, want := range tests {
		s.Equal(want, ClassifySubmissionError(msg), msg)
	}
}

func (s *FormSuite) TestErrorsClone() {
	var nilErrs Errors
	s.Nil(nilErrs.Clone())

	orig := Errors{FieldPhone: MsgPhoneFormat}
	cp := orig.Clone()
	cp[FieldPhone] = "changed"
	s.Equal(MsgPhoneFormat, orig[FieldPhone])
}
