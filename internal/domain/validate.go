package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// Field validation messages shown inline on the form.
const (
	MsgNameRequired  = "Name is required"
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Please enter a valid email address"
	MsgPhoneRequired = "Phone number is required"
	MsgPhoneTooShort = "Phone number must be at least 10 digits"
)

const minPhoneDigits = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateDraft checks the required fields of a draft and returns a map of
// per-field error messages keyed by field name. All fields are checked in one
// pass; position and description are never validated. An empty map means the
// draft is valid.
func ValidateDraft(d Draft) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = MsgNameRequired
	}

	email := strings.TrimSpace(d.Email)
	switch {
	case email == "":
		errs["email"] = MsgEmailRequired
	case !emailPattern.MatchString(email):
		errs["email"] = MsgEmailInvalid
	}

	phone := strings.TrimSpace(d.Phone)
	switch {
	case phone == "":
		errs["phone"] = MsgPhoneRequired
	case digitCount(phone) < minPhoneDigits:
		errs["phone"] = MsgPhoneTooShort
	}

	return errs
}

// HasRequiredFields reports whether the draft carries the three required
// fields. This is the API boundary's presence check; full field validation
// belongs to the form flow.
func (d Draft) HasRequiredFields() bool {
	return strings.TrimSpace(d.Name) != "" &&
		strings.TrimSpace(d.Email) != "" &&
		strings.TrimSpace(d.Phone) != ""
}

func digitCount(value string) int {
	count := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
