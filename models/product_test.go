package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: 2450000}
	assert.Equal(t, 2450000.0, p.EffectivePrice())

	sale := 1999000.0
	p.SalePrice = &sale
	assert.Equal(t, sale, p.EffectivePrice())
}

func TestGalleryImageSelection(t *testing.T) {
	p := Product{Gallery: []ProductGallery{
		{ImageURL: "/assets/images/backpacks/hover/b.webp", IsPrimary: false, SortOrder: 1},
		{ImageURL: "/assets/images/backpacks/primary/a.webp", IsPrimary: true, SortOrder: 0},
		{ImageURL: "/assets/images/backpacks/hover/c.webp", IsPrimary: false, SortOrder: 2},
	}}

	assert.Equal(t, "/assets/images/backpacks/primary/a.webp", p.PrimaryImage())
	assert.Equal(t, "/assets/images/backpacks/hover/b.webp", p.HoverImage())
}

func TestGalleryImageSelectionEmpty(t *testing.T) {
	p := Product{}
	assert.Empty(t, p.PrimaryImage())
	assert.Empty(t, p.HoverImage())
}
