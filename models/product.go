package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID              uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID      uint             `gorm:"index;not null" json:"category_id"`
	Category        Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BrandID         uint             `gorm:"index;not null" json:"brand_id"`
	Brand           Brand            `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Name            string           `gorm:"not null" json:"name"`
	Slug            string           `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string           `json:"description"`
	Details         string           `json:"details"`
	MetaTitle       string           `json:"meta_title"`
	MetaDescription string           `json:"meta_description"`
	Price           float64          `gorm:"not null" json:"price"`
	SalePrice       *float64         `json:"sale_price"`
	Stock           int              `json:"stock"`
	SKU             string           `gorm:"uniqueIndex;not null" json:"sku"`
	ConditionStatus string           `gorm:"default:'New With Tag'" json:"condition_status"`
	IsActive        bool             `gorm:"default:true" json:"is_active"`
	Gallery         []ProductGallery `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"gallery,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// EffectivePrice is the price charged at checkout: sale price when set,
// regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// PrimaryImage returns the primary gallery image URL, empty when none.
func (p *Product) PrimaryImage() string {
	for _, g := range p.Gallery {
		if g.IsPrimary {
			return g.ImageURL
		}
	}
	return ""
}

// HoverImage returns the first secondary gallery image by sort order.
func (p *Product) HoverImage() string {
	best := ""
	bestOrder := -1
	for _, g := range p.Gallery {
		if g.IsPrimary {
			continue
		}
		if bestOrder == -1 || g.SortOrder < bestOrder {
			best = g.ImageURL
			bestOrder = g.SortOrder
		}
	}
	return best
}

type ProductGallery struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
