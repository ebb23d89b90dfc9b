package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"IDR 2.450.000", 2450000},
		{"IDR2,450,000", 2450000},
		{"1 800 000", 1800000},
		{"950000", 950000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriceInvalid(t *testing.T) {
	for _, in := range []string{"", "IDR", "N/A"} {
		_, err := ParsePrice(in)
		assert.Error(t, err, "input %q", in)
	}
}

func validRecord() []string {
	return []string{
		"Longchamp",               // 0 brand
		"Le Pliage Backpack",      // 1 name
		"IDR 2.450.000",           // 2 price
		"", "", "", "", "",        // 3-7 unused
		"LP-BP-001",               // 8 sku
		"",                        // 9 unused
		"Foldable nylon backpack", // 10 description
		"Nylon. 30x28x10cm",       // 11 details
		"New With Tag",            // 12 condition
		"images\\backpacks\\lp-front.webp", // 13 primary image
		"images/backpacks/lp-back.webp",    // 14 hover image
	}
}

func TestParseRow(t *testing.T) {
	row, err := ParseRow(validRecord())
	require.NoError(t, err)
	assert.Equal(t, "Longchamp", row.Brand)
	assert.Equal(t, "Le Pliage Backpack", row.Name)
	assert.Equal(t, 2450000.0, row.Price)
	assert.Equal(t, "LP-BP-001", row.SKU)
	assert.Equal(t, "New With Tag", row.Condition)
}

func TestParseRowMissingColumns(t *testing.T) {
	record := validRecord()
	record[8] = ""  // sku
	record[13] = "" // primary image

	_, err := ParseRow(record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SKU")
	assert.Contains(t, err.Error(), "Primary Image")
}

func TestParseRowShortRecord(t *testing.T) {
	_, err := ParseRow([]string{"Longchamp", "Le Pliage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestImageURL(t *testing.T) {
	assert.Equal(t,
		"/assets/images/backpacks/lp-front.webp",
		imageURL("backpacks", "images\\backpacks\\lp-front.webp"))
	assert.Equal(t,
		"/assets/images/totes/tote.webp",
		imageURL("totes", "images/totes/tote.webp"))
	assert.Equal(t,
		"/assets/images/totes/bare.webp",
		imageURL("totes", "bare.webp"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Backpacks", titleCase("backpacks"))
	assert.Equal(t, "", titleCase(""))
}
