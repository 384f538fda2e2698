// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Every request payload type owns a Validate method built from these rules. It
// runs at the HTTP boundary before any service logic, so stores only ever see
// semantically valid, normalized data.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/itve/donorapi/internal/platform/apperr"
)

var (
	// usernameRegex matches the permitted username charset.
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	// phoneRegex matches a normalized Pakistani mobile number.
	phoneRegex = regexp.MustCompile(`^\+92\d{10}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Length fails if the Unicode character count is outside [min, max].
//
// It reports at most one error per field.
func (v *Validator) Length(field, value string, min, max int) *Validator {
	count := utf8.RuneCountInString(value)
	if count < min || count > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d characters", min, max))
	}
	return v
}

// NonNegative fails if value is below zero.
func (v *Validator) NonNegative(field string, value float64) *Validator {
	if value < 0 {
		v.add(field, "Must be greater than or equal to 0")
	}
	return v
}

// Email fails if the value is not a bare RFC 5322 address with a dotted domain.
func (v *Validator) Email(field, value string) *Validator {
	if !isEmail(value) {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Username fails unless value only holds letters, digits, underscores and dots.
func (v *Validator) Username(field, value string) *Validator {
	if !usernameRegex.MatchString(value) {
		v.add(field, "May only contain letters, digits, underscores and dots")
	}
	return v
}

// Phone fails unless value is "+92" followed by exactly 10 digits.
//
// The value must already be normalized with [NormalizePhone].
func (v *Validator) Phone(field, value string) *Validator {
	if !phoneRegex.MatchString(value) {
		v.add(field, "Phone format must be +92XXXXXXXXXX (10 digits after +92).")
	}
	return v
}

// PasswordStrength requires an uppercase letter, a lowercase letter, a digit
// and a non-alphanumeric character. Each missing class is reported once.
func (v *Validator) PasswordStrength(field, value string) *Validator {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range value {
		// The classes overlap: a non-ASCII digit is both a digit and special.
		if r >= 'A' && r <= 'Z' {
			hasUpper = true
		}
		if r >= 'a' && r <= 'z' {
			hasLower = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if !isASCIIAlphanumeric(r) {
			hasSpecial = true
		}
	}

	if !hasUpper {
		v.add(field, "Password must contain at least one uppercase letter.")
	}
	if !hasLower {
		v.add(field, "Password must contain at least one lowercase letter.")
	}
	if !hasDigit {
		v.add(field, "Password must contain at least one digit.")
	}
	if !hasSpecial {
		v.add(field, "Password must contain at least one special character.")
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("password", len(password) > 72, "Maximum 72 bytes")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method. Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// Index builds the field path of a list element, e.g. Index("achievements", 2, "title").
func Index(list string, position int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, position, field)
}

func isEmail(value string) bool {
	address, err := mail.ParseAddress(value)
	if err != nil || address.Address != value || address.Name != "" {
		return false
	}

	at := strings.LastIndexByte(value, '@')
	domain := value[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

func isASCIIAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
