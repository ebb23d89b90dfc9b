package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	pagesController "github.com/bananina/storefront-api/controllers/pages"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/session"
)

// requireLoginPage redirects anonymous visitors to /login instead of
// returning the API's 401 JSON.
func requireLoginPage(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.TokenFromRequest(c)
		if token != "" {
			if _, err := store.Get(c.Request.Context(), token); err == nil {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// SetupPageRoutes registers the rendered storefront pages.
func SetupPageRoutes(r *gin.Engine, db *gorm.DB, store session.Store) {
	r.GET("/", pagesController.Home(db))
	r.GET("/products", pagesController.Products(db))
	r.GET("/product", pagesController.ProductDetail(db))
	r.GET("/cart", pagesController.Cart)
	r.GET("/login", pagesController.Login)
	r.GET("/register", pagesController.Register)
	r.GET("/about", pagesController.About)

	guarded := r.Group("/")
	guarded.Use(requireLoginPage(store))
	{
		guarded.GET("/checkout", pagesController.Checkout)
		guarded.GET("/orders", pagesController.Orders)
		guarded.GET("/profile", pagesController.Profile)
	}
}
