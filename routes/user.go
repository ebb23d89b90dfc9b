package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/bananina/storefront-api/controllers/user"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/session"
)

// SetupUserRoutes registers the "/user/*" profile and address endpoints.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB, store session.Store) {
	user := api.Group("/user")
	user.Use(middleware.RequireAuth(store))
	{
		user.GET("/profile", userControllers.GetProfile(db))
		user.PUT("/profile/update", userControllers.UpdateProfile(db))
		user.PUT("/profile/password", userControllers.ChangePassword(db))

		user.POST("/addresses", userControllers.CreateAddress(db))
		user.PUT("/addresses/update", userControllers.UpdateAddress(db))
		user.DELETE("/addresses/delete", userControllers.DeleteAddress(db))
	}
}
