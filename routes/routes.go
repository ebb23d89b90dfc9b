package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/config"
	pagesController "github.com/bananina/storefront-api/controllers/pages"
	"github.com/bananina/storefront-api/session"
)

// SetupRoutes registers every route group plus the 404/405 fallbacks.
func SetupRoutes(r *gin.Engine, db *gorm.DB, store session.Store, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"success": false,
			"error":   gin.H{"type": "request_error", "message": "Method not allowed"},
		})
	})
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   gin.H{"type": "request_error", "message": "Not found"},
			})
			return
		}
		pagesController.NotFound(c)
	})

	api := r.Group("/api/v1")

	SetupAuthRoutes(api, db, store, cfg)
	SetupCatalogRoutes(api, db)
	SetupCartRoutes(api, db, store, cfg)
	SetupOrderRoutes(api, db, store, cfg)
	SetupUserRoutes(api, db, store)
	SetupAdminRoutes(api, db, store, cfg)
	SetupPageRoutes(r, db, store)
}
