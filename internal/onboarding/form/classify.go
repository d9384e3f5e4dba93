package form

import "strings"

// submissionKeywords routes submission failures to fields, checked in order.
// The profile API returns free text with no field identifier, so this is a
// best-effort match and anything unrecognized lands in FieldGeneral.
var submissionKeywords = []struct {
	field    Field
	keywords []string
}{
	{FieldPhone, []string{"phone"}},
	{FieldFirstName, []string{"first name", "firstname"}},
	{FieldLastName, []string{"last name", "lastname"}},
	{FieldCorporationNumber, []string{"corporation"}},
}

// ClassifySubmissionError picks the field a submission failure message is about.
func ClassifySubmissionError(message string) Field {
	lower := strings.ToLower(message)
	for _, rule := range submissionKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.field
			}
		}
	}
	return FieldGeneral
}
