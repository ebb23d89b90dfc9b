package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/config"
	cartControllers "github.com/bananina/storefront-api/controllers/cart"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/session"
)

// SetupCartRoutes registers the "/cart/*" endpoints. The cart lives in
// the session, so every route needs one.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB, store session.Store, cfg config.Config) {
	cart := api.Group("/cart")
	cart.Use(middleware.RequireAuth(store))
	{
		cart.GET("", cartControllers.GetCart())
		cart.POST("/add", cartControllers.AddToCart(db, store, cfg))
		cart.PUT("/update", cartControllers.UpdateCartItem(db, store, cfg))
		cart.POST("/remove", cartControllers.RemoveFromCart(store, cfg))
	}
}
