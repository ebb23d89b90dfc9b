package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
)

const perPage = 12

// GetProducts lists active products with search, category/brand filters,
// sorting and fixed-size pagination.
// GET /api/v1/products?category=&brand=&search=&sort=&page=
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&models.Product{}).Where("is_active = ?", true)

		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
		}
		if categoryID, err := strconv.Atoi(c.Query("category")); err == nil && categoryID > 0 {
			q = q.Where("category_id = ?", categoryID)
		}
		if brandID, err := strconv.Atoi(c.Query("brand")); err == nil && brandID > 0 {
			q = q.Where("brand_id = ?", brandID)
		}

		switch c.Query("sort") {
		case "price_low":
			q = q.Order("price ASC")
		case "price_high":
			q = q.Order("price DESC")
		case "oldest":
			q = q.Order("created_at ASC")
		default: // newest
			q = q.Order("created_at DESC")
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to count products", err))
			return
		}

		var products []models.Product
		err := q.Preload("Brand").Preload("Category").
			Preload("Gallery", func(db *gorm.DB) *gorm.DB {
				return db.Order("is_primary DESC, sort_order ASC")
			}).
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&products).Error
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch products", err))
			return
		}

		items := make([]gin.H, 0, len(products))
		for i := range products {
			items = append(items, listItem(&products[i]))
		}

		totalPages := int((total + perPage - 1) / perPage)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    items,
			"pagination": gin.H{
				"current_page": page,
				"per_page":     perPage,
				"total_items":  total,
				"total_pages":  totalPages,
			},
		})
	}
}

// GetProductDetail fetches one product by slug with its full gallery.
// GET /api/v1/products/detail?slug=
func GetProductDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productSlug := c.Query("slug")
		if productSlug == "" {
			respond.Err(c, apperr.New(apperr.Validation, "Product slug is required"))
			return
		}

		var product models.Product
		err := db.Preload("Brand").Preload("Category").
			Preload("Gallery", func(db *gorm.DB) *gorm.DB {
				return db.Order("is_primary DESC, sort_order ASC")
			}).
			Where("slug = ? AND is_active = ?", productSlug, true).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond.Err(c, apperr.New(apperr.NotFound, "Product not found"))
			return
		}
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch product", err))
			return
		}

		gallery := make([]gin.H, 0, len(product.Gallery))
		for _, g := range product.Gallery {
			gallery = append(gallery, gin.H{
				"image_url":  g.ImageURL,
				"is_primary": g.IsPrimary,
				"sort_order": g.SortOrder,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"id":               product.ID,
				"name":             product.Name,
				"slug":             product.Slug,
				"description":      product.Description,
				"details":          product.Details,
				"price":            product.Price,
				"sale_price":       product.SalePrice,
				"stock":            product.Stock,
				"sku":              product.SKU,
				"condition_status": product.ConditionStatus,
				"meta_title":       product.MetaTitle,
				"meta_description": product.MetaDescription,
				"brand": gin.H{
					"id":   product.Brand.ID,
					"name": product.Brand.Name,
					"slug": product.Brand.Slug,
				},
				"category": gin.H{
					"id":   product.Category.ID,
					"name": product.Category.Name,
					"slug": product.Category.Slug,
				},
				"gallery": gallery,
			},
		})
	}
}

func listItem(p *models.Product) gin.H {
	return gin.H{
		"id":               p.ID,
		"name":             p.Name,
		"slug":             p.Slug,
		"description":      p.Description,
		"price":            p.Price,
		"sale_price":       p.SalePrice,
		"stock":            p.Stock,
		"sku":              p.SKU,
		"condition_status": p.ConditionStatus,
		"brand_name":       p.Brand.Name,
		"brand_slug":       p.Brand.Slug,
		"category_name":    p.Category.Name,
		"category_slug":    p.Category.Slug,
		"primary_image":    p.PrimaryImage(),
		"hover_image":      p.HoverImage(),
		"created_at":       p.CreatedAt,
	}
}
