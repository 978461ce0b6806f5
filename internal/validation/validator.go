package validation

import "github.com/dtroode/auth-service/internal/model"

// Validator checks user input before it reaches the auth service logic.
type Validator struct {
	minPasswordLength int
}

// New creates a Validator requiring passwords of at least minPasswordLength characters.
func New(minPasswordLength int) *Validator {
	if minPasswordLength < 1 {
		minPasswordLength = 1
	}
	return &Validator{minPasswordLength: minPasswordLength}
}

// Registration validates a sign-up request. Username is checked only when supplied.
func (v *Validator) Registration(params model.RegisterParams) error {
	rules := []Rule{
		Required("email", params.Email),
		MaxLen("email", params.Email, MaxEmailLength),
		Email("email", params.Email),
	}
	if params.Username != "" {
		rules = append(rules,
			MinLen("username", params.Username, MinUsernameLength),
			MaxLen("username", params.Username, MaxUsernameLength),
		)
	}
	rules = append(rules,
		Required("password", params.Password),
		MinLen("password", params.Password, v.minPasswordLength),
		MaxBytes("password", params.Password, MaxPasswordBytes),
		MaxLen("full_name", params.FullName, MaxNameLength),
	)

	return Apply(rules...)
}

// Password validates a new password.
func (v *Validator) Password(field, password string) error {
	return Apply(
		Required(field, password),
		MinLen(field, password, v.minPasswordLength),
		MaxBytes(field, password, MaxPasswordBytes),
	)
}

// ProfileUpdate validates the length of every supplied profile field.
func (v *Validator) ProfileUpdate(update model.ProfileUpdate) error {
	rules := make([]Rule, 0, 8)
	add := func(field string, value *string, max int) {
		if value != nil {
			rules = append(rules, MaxLen(field, *value, max))
		}
	}

	add("full_name", update.FullName, MaxNameLength)
	add("phone", update.Phone, MaxPhoneLength)
	add("address_line1", update.AddressLine1, MaxFieldLength)
	add("address_line2", update.AddressLine2, MaxFieldLength)
	add("city", update.City, MaxFieldLength)
	add("state", update.State, MaxFieldLength)
	add("postal_code", update.PostalCode, MaxPhoneLength)
	add("country", update.Country, MaxFieldLength)

	return Apply(rules...)
}
