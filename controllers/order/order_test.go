package orderControllers

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^ORD\d{8}\d{4}$`)
	today := time.Now().Format("20060102")

	for i := 0; i < 20; i++ {
		num := generateOrderNumber()
		assert.Regexp(t, re, num)
		assert.Equal(t, "ORD"+today, num[:11])
	}
}

func TestAddressFieldMessage(t *testing.T) {
	err := addressField("City", "")
	require.Error(t, err)
	assert.Equal(t, "Address field 'City' is required", err.Error())

	assert.NoError(t, addressField("City", "Jakarta"))
}
