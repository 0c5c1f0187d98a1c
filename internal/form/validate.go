package form

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinMessageLength is the shortest message, in characters, the contact
// form accepts.
const MinMessageLength = 10

// emailPattern is local@domain.tld with no whitespace and a single @ run on
// each side. \p{Z}, \v and U+FEFF widen RE2's ASCII \s to the browser's
// whitespace class.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// Kind selects which rules apply to a field.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindMessage:
		return "message"
	default:
		return "text"
	}
}

// Reason is the machine-readable cause of a failed validation.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonRequired     Reason = "required"
	ReasonInvalidEmail Reason = "invalid email"
	ReasonTooShort     Reason = "too short"
)

// Message is the inline text shown next to the field.
func (r Reason) Message() string {
	switch r {
	case ReasonRequired:
		return "This field is required"
	case ReasonInvalidEmail:
		return "Please enter a valid email address"
	case ReasonTooShort:
		return "Message should be at least 10 characters long"
	default:
		return ""
	}
}

// Result is the verdict for one field.
type Result struct {
	Field  string
	Valid  bool
	Reason Reason
}

// isSpace is the whitespace class shared with emailPattern: ASCII
// whitespace, Unicode separators and U+FEFF.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\uFEFF':
		return true
	}
	return unicode.In(r, unicode.Z)
}

// TrimSpace strips leading and trailing whitespace as browsers do for
// form values, including U+FEFF which strings.TrimSpace keeps.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate applies the field rules in order; the first failure wins.
func Validate(f Field) Result {
	value := TrimSpace(f.Value)
	res := Result{Field: f.Name, Valid: true}

	switch {
	case f.Required && value == "":
		res.Valid, res.Reason = false, ReasonRequired
	case f.Kind == KindEmail && value != "" && !IsValidEmail(value):
		res.Valid, res.Reason = false, ReasonInvalidEmail
	case f.Kind == KindMessage && utf8.RuneCountInString(value) < MinMessageLength:
		res.Valid, res.Reason = false, ReasonTooShort
	}
	return res
}
