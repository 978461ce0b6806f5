package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dtroode/auth-service/internal/model"
)

const (
	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72
	MaxEmailLength   = 254
	MaxNameLength    = 100
	MaxFieldLength   = 255
	MaxPhoneLength   = 32

	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Rule is a single check on an input field.
type Rule struct {
	Check func() bool
	Field string
	Msg   string
}

// Apply runs rules in order and returns the first failure as *model.ValidationError.
func Apply(rules ...Rule) error {
	for _, rule := range rules {
		if !rule.Check() {
			return model.NewValidationError(rule.Field, rule.Msg)
		}
	}
	return nil
}

// Required fails on blank values.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Field: field,
		Msg:   "field is required",
	}
}

// MinLen fails when value has fewer than min characters.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Field: field,
		Msg:   fmt.Sprintf("must be at least %d characters long", min),
	}
}

// MaxLen fails when value has more than max characters.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Field: field,
		Msg:   fmt.Sprintf("must be at most %d characters long", max),
	}
}

// MaxBytes fails when value is longer than max bytes.
func MaxBytes(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Field: field,
		Msg:   fmt.Sprintf("must be at most %d bytes long", max),
	}
}

// Email fails unless value is a bare address with a dotted domain.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool { return isEmail(value) },
		Field: field,
		Msg:   "must be a valid email address",
	}
}

func isEmail(value string) bool {
	if strings.TrimSpace(value) != value || value == "" {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}

	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}

	return !strings.Contains(domain, "..")
}
