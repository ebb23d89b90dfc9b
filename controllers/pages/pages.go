// Package pagesController renders the storefront HTML shell. Pages are
// thin: the browser talks to the JSON API for anything interactive, so
// handlers only fetch what the first paint needs.
package pagesController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/models"
)

// Home renders the landing page with the newest active products.
func Home(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		err := db.Preload("Brand").Preload("Gallery").
			Where("is_active = ?", true).
			Order("created_at DESC").
			Limit(8).
			Find(&products).Error
		if err != nil {
			products = nil
		}

		c.HTML(http.StatusOK, "home.tmpl", gin.H{
			"Title":    "Bananina",
			"Products": products,
		})
	}
}

// Products renders the catalog page with the filter sidebar data.
func Products(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		var brands []models.Brand
		db.Order("name ASC").Find(&categories)
		db.Order("name ASC").Find(&brands)

		c.HTML(http.StatusOK, "products.tmpl", gin.H{
			"Title":      "Products | Bananina",
			"Categories": categories,
			"Brands":     brands,
			"Search":     c.Query("search"),
			"Category":   c.Query("category"),
			"Brand":      c.Query("brand"),
		})
	}
}

// ProductDetail renders one product page, or the 404 page when the slug
// does not resolve to an active product.
func ProductDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productSlug := c.Query("slug")
		if productSlug == "" {
			NotFound(c)
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
			NotFound(c)
			return
		}
		if err != nil {
			c.HTML(http.StatusInternalServerError, "404.tmpl", gin.H{"Title": "Something went wrong"})
			return
		}

		c.HTML(http.StatusOK, "product.tmpl", gin.H{
			"Title":           product.MetaTitle,
			"MetaDescription": product.MetaDescription,
			"Product":         product,
		})
	}
}

func Cart(c *gin.Context) {
	c.HTML(http.StatusOK, "cart.tmpl", gin.H{"Title": "Your Cart | Bananina"})
}

func Checkout(c *gin.Context) {
	c.HTML(http.StatusOK, "checkout.tmpl", gin.H{"Title": "Checkout | Bananina"})
}

func Orders(c *gin.Context) {
	c.HTML(http.StatusOK, "orders.tmpl", gin.H{"Title": "My Orders | Bananina"})
}

func Profile(c *gin.Context) {
	c.HTML(http.StatusOK, "profile.tmpl", gin.H{"Title": "My Profile | Bananina"})
}

func Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{"Title": "Sign In | Bananina"})
}

func Register(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", gin.H{"Title": "Create Account | Bananina"})
}

func About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.tmpl", gin.H{"Title": "About | Bananina"})
}

// NotFound renders the 404 page. Also used as the non-API NoRoute
// fallback.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.tmpl", gin.H{"Title": "Page Not Found | Bananina"})
}
