package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/config"
	adminController "github.com/bananina/storefront-api/controllers/admin"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/session"
)

// SetupAdminRoutes registers the "/admin/*" endpoints behind the admin
// role guard.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB, store session.Store, cfg config.Config) {
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(store), middleware.RequireAdmin())
	{
		products := admin.Group("/products")
		{
			products.GET("", adminController.GetProducts(db))
			products.GET("/get", adminController.GetProduct(db))
			products.POST("", adminController.CreateProduct(db, cfg))
			products.PUT("/update", adminController.UpdateProduct(db, cfg))
			products.DELETE("/delete", adminController.DeleteProduct(db))
			products.GET("/export", adminController.ExportProducts(db))
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", adminController.GetOrders(db))
			orders.GET("/detail", adminController.GetOrderDetail(db))
			orders.POST("/verify-payment", adminController.VerifyPayment(db))
			orders.POST("/update-status", adminController.UpdateOrderStatus(db))
		}
	}
}
