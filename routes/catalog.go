package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/bananina/storefront-api/controllers/product"
)

// SetupCatalogRoutes registers the public storefront catalog endpoints.
func SetupCatalogRoutes(api *gin.RouterGroup, db *gorm.DB) {
	api.GET("/categories", productcontroller.GetCategories(db))
	api.GET("/brands", productcontroller.GetBrands(db))
	api.GET("/products", productcontroller.GetProducts(db))
	api.GET("/products/detail", productcontroller.GetProductDetail(db))
}
