// Package validate applies per-endpoint field rules as a declarative
// table: each field lists its checks in order, and the first violation
// across the table wins. All failures are Validation errors.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bananina/storefront-api/apperr"
)

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe    = regexp.MustCompile(`^[0-9+]{10,15}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	postalRe   = regexp.MustCompile(`^[0-9]{5}$`)
)

// ErrInvalidJSON fails before any field check when the body cannot be
// decoded at all.
var ErrInvalidJSON = apperr.New(apperr.Validation, "Invalid JSON data")

type CheckFunc func(name, value string) error

type Field struct {
	Name   string
	Value  string
	Checks []CheckFunc
}

// Fields runs the rule table; the first violation is returned.
func Fields(fields ...Field) error {
	for _, f := range fields {
		for _, check := range f.Checks {
			if err := check(f.Name, f.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func Required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Newf(apperr.Validation, "%s is required", name)
	}
	return nil
}

func Email(name, value string) error {
	if value != "" && !emailRe.MatchString(value) {
		return apperr.New(apperr.Validation, "Invalid email format")
	}
	return nil
}

func Password(name, value string) error {
	if len(value) < 8 {
		return apperr.New(apperr.Validation, "Password must be at least 8 characters long")
	}
	return nil
}

func Phone(name, value string) error {
	if value != "" && !phoneRe.MatchString(value) {
		return apperr.New(apperr.Validation, "Invalid phone number format")
	}
	return nil
}

func Username(name, value string) error {
	if value != "" && !usernameRe.MatchString(value) {
		return apperr.New(apperr.Validation, "Username must be 3-20 characters long and can only contain letters, numbers, and underscores")
	}
	return nil
}

func PostalCode(name, value string) error {
	if value != "" && !postalRe.MatchString(value) {
		return apperr.New(apperr.Validation, "Postal code must be 5 digits")
	}
	return nil
}

// Equals checks exact equality against another value, for confirm
// password fields.
func Equals(other, message string) CheckFunc {
	return func(name, value string) error {
		if value != other {
			return apperr.New(apperr.Validation, message)
		}
		return nil
	}
}

// OneOf restricts a value to a fixed set.
func OneOf(allowed ...string) CheckFunc {
	return func(name, value string) error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return apperr.New(apperr.Validation, fmt.Sprintf("Invalid %s", name))
	}
}
