package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bananina/storefront-api/apperr"
)

func TestFieldsFirstViolationWins(t *testing.T) {
	err := Fields(
		Field{Name: "Email", Value: "", Checks: []CheckFunc{Required, Email}},
		Field{Name: "Password", Value: "short", Checks: []CheckFunc{Required, Password}},
	)
	require.Error(t, err)
	assert.Equal(t, "Email is required", err.Error())
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestFieldsAllPass(t *testing.T) {
	err := Fields(
		Field{Name: "Email", Value: "ana@example.com", Checks: []CheckFunc{Required, Email}},
		Field{Name: "Password", Value: "correcthorse", Checks: []CheckFunc{Required, Password}},
	)
	assert.NoError(t, err)
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("Email", "user@bananina.test"))
	assert.Error(t, Email("Email", "not-an-email"))
	assert.Error(t, Email("Email", "user@no-tld"))
	// Optional field: Required guards emptiness, not Email.
	assert.NoError(t, Email("Email", ""))
}

func TestPassword(t *testing.T) {
	assert.Error(t, Password("Password", "1234567"))
	assert.NoError(t, Password("Password", "12345678"))
}

func TestPhone(t *testing.T) {
	assert.NoError(t, Phone("Phone number", "+6281234567890"))
	assert.NoError(t, Phone("Phone number", "0812345678"))
	assert.Error(t, Phone("Phone number", "123"))
	assert.Error(t, Phone("Phone number", "0812-345-678"))
}

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("Username", "ana_shop21"))
	assert.Error(t, Username("Username", "ab"))
	assert.Error(t, Username("Username", "has space"))
	assert.Error(t, Username("Username", "way_too_long_username_over_twenty"))
}

func TestPostalCode(t *testing.T) {
	assert.NoError(t, PostalCode("Postal code", "12345"))
	assert.Error(t, PostalCode("Postal code", "1234"))
	assert.Error(t, PostalCode("Postal code", "1234a"))
}

func TestEquals(t *testing.T) {
	check := Equals("secret123", "Passwords do not match")
	assert.NoError(t, check("Confirm password", "secret123"))
	err := check("Confirm password", "secret124")
	require.Error(t, err)
	assert.Equal(t, "Passwords do not match", err.Error())
}

func TestOneOf(t *testing.T) {
	check := OneOf("shipping", "billing")
	assert.NoError(t, check("Address type", "shipping"))
	err := check("Address type", "work")
	require.Error(t, err)
	assert.Equal(t, "Invalid Address type", err.Error())
}
