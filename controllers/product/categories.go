package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/respond"
)

type categoryRow struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ProductCount int    `json:"product_count"`
}

// GetCategories lists categories with their active product counts.
// GET /api/v1/categories
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []categoryRow
		err := db.Table("categories").
			Select("categories.id, categories.name, categories.slug, categories.description, COUNT(products.id) AS product_count").
			Joins("LEFT JOIN products ON products.category_id = categories.id AND products.is_active = ? AND products.deleted_at IS NULL", true).
			Group("categories.id").
			Order("categories.name ASC").
			Scan(&rows).Error
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch categories", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
	}
}

type brandRow struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	LogoURL      string `json:"logo_url"`
	ProductCount int    `json:"product_count"`
}

// GetBrands lists brands with their active product counts.
// GET /api/v1/brands
func GetBrands(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []brandRow
		err := db.Table("brands").
			Select("brands.id, brands.name, brands.slug, brands.logo_url, COUNT(products.id) AS product_count").
			Joins("LEFT JOIN products ON products.brand_id = brands.id AND products.is_active = ? AND products.deleted_at IS NULL", true).
			Group("brands.id").
			Order("brands.name ASC").
			Scan(&rows).Error
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch brands", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
	}
}
