package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/config"
	authControllers "github.com/bananina/storefront-api/controllers/auth"
	"github.com/bananina/storefront-api/session"
)

// SetupAuthRoutes registers the "/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB, store session.Store, cfg config.Config) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authControllers.Login(db, store, cfg))
		authGroup.POST("/register", authControllers.Register(db, store, cfg))
		authGroup.POST("/logout", authControllers.Logout(store))
	}
}
