package form

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameLength bounds first and last names, in characters.
	MaxNameLength = 50
	// CorporationNumberLength is the exact length of a corporation number.
	CorporationNumberLength = 9
	// PhonePrefix is the country code every stored phone number starts with.
	PhonePrefix = "+1"
	// NationalNumberLength is the number of digits after PhonePrefix.
	NationalNumberLength = 10
	// MaxPhoneLength is PhonePrefix plus a full national number.
	MaxPhoneLength = len(PhonePrefix) + NationalNumberLength
)

// Normalize turns raw input for f into its canonical stored form.
func Normalize(f Field, raw string) string {
	switch f {
	case FieldFirstName, FieldLastName:
		return truncateRunes(raw, MaxNameLength)
	case FieldPhone:
		return NormalizePhone(raw)
	case FieldCorporationNumber:
		return NormalizeCorporationNumber(raw)
	}
	return raw
}

// NormalizePhone coerces input into "+1" followed by at most ten digits.
// Input starting "+1" or a bare "1" loses that country code; any other input,
// including "+" followed by another digit, is taken whole as the national number.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	digits := onlyDigits(trimmed)

	national := digits
	if strings.HasPrefix(trimmed, PhonePrefix) || strings.HasPrefix(trimmed, "1") {
		national = digits[1:]
	}

	if len(national) > NationalNumberLength {
		national = national[:NationalNumberLength]
	}
	return PhonePrefix + national
}

// NormalizeCorporationNumber keeps the first nine digits of raw.
func NormalizeCorporationNumber(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) > CorporationNumberLength {
		return digits[:CorporationNumberLength]
	}
	return digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
