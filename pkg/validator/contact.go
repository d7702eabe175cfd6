package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidPhoneFormat indicates phone number contains invalid characters
	ErrInvalidPhoneFormat = errors.New("phone number can only contain digits")

	// ErrInvalidPhoneLength indicates phone number length is outside 10-15 digits
	ErrInvalidPhoneLength = errors.New("phone number must be 10 to 15 digits")

	// ErrEmptyEmail indicates email address is empty
	ErrEmptyEmail = errors.New("email address cannot be empty")

	// ErrInvalidEmail indicates email address is malformed
	ErrInvalidEmail = errors.New("email address is not valid")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// emailRegex is a pragmatic email check, not full RFC 5322
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ContactValidator handles booking contact validation
type ContactValidator struct{}

// NewContactValidator creates a new contact validator instance
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// ValidatePhone validates an international phone number.
// Accepts formats like +94771234567, 077 123 4567, or (555) 123-4567.
// Returns the sanitized phone number (digits only, leading + preserved
// as digits) and an error if invalid.
func (v *ContactValidator) ValidatePhone(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.SanitizePhone(phone)

	if !digitsRegex.MatchString(sanitized) {
		return "", ErrInvalidPhoneFormat
	}

	if len(sanitized) < 10 || len(sanitized) > 15 {
		return "", ErrInvalidPhoneLength
	}

	return sanitized, nil
}

// SanitizePhone removes common separators from a phone number
func (v *ContactValidator) SanitizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")
	phone = strings.ReplaceAll(phone, "+", "")
	phone = strings.ReplaceAll(phone, ".", "")
	return phone
}

// ValidateEmail validates an email address and returns it lowercased
func (v *ContactValidator) ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmptyEmail
	}

	email = strings.ToLower(email)
	if !emailRegex.MatchString(email) {
		return "", ErrInvalidEmail
	}

	return email, nil
}

// IsValidPhone is a convenience method that returns true if phone is valid
func (v *ContactValidator) IsValidPhone(phone string) bool {
	_, err := v.ValidatePhone(phone)
	return err == nil
}

// IsValidEmail is a convenience method that returns true if email is valid
func (v *ContactValidator) IsValidEmail(email string) bool {
	_, err := v.ValidateEmail(email)
	return err == nil
}

// MustValidatePhone validates and panics if invalid (use for testing only)
func (v *ContactValidator) MustValidatePhone(phone string) string {
	sanitized, err := v.ValidatePhone(phone)
	if err != nil {
		panic(fmt.Sprintf("invalid phone number %s: %v", phone, err))
	}
	return sanitized
}
