package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/config"
	orderControllers "github.com/bananina/storefront-api/controllers/order"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/session"
)

// SetupOrderRoutes registers the customer "/orders/*" endpoints.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB, store session.Store, cfg config.Config) {
	orders := api.Group("/orders")
	orders.Use(middleware.RequireAuth(store))
	{
		orders.POST("/create", orderControllers.CreateOrder(db, store, cfg))
		orders.GET("", orderControllers.GetOrders(db))
		orders.GET("/detail", orderControllers.GetOrderDetail(db))
		orders.POST("/cancel", orderControllers.CancelOrder(db))
		orders.POST("/upload-payment", orderControllers.UploadPayment(db, cfg))
		orders.POST("/refund", orderControllers.RequestRefund(db))
	}
}
