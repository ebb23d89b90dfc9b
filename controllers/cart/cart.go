package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/config"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
	"github.com/bananina/storefront-api/session"
)

type CartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type RemoveItemRequest struct {
	ProductID uint `json:"product_id"`
}

// GetCart returns the session cart with display totals.
// GET /api/v1/cart
func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"items":       sess.Cart.Items,
				"total_items": sess.Cart.TotalItems(),
				"subtotal":    sess.Cart.Subtotal(),
			},
		})
	}
}

// AddToCart merges a product into the session cart after checking the
// live product row for availability and stock.
// POST /api/v1/cart/add
func AddToCart(db *gorm.DB, store session.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid JSON data"))
			return
		}
		if req.ProductID == 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid product ID"))
			return
		}
		if req.Quantity <= 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Quantity must be greater than 0"))
			return
		}

		product, err := availableProduct(db, req.ProductID)
		if err != nil {
			respond.Err(c, err)
			return
		}
		if product.Stock < req.Quantity {
			respond.Err(c, apperr.New(apperr.Validation, "Not enough stock available"))
			return
		}

		sess := middleware.CurrentSession(c)
		if item := sess.Cart.Find(req.ProductID); item != nil {
			if item.Quantity+req.Quantity > product.Stock {
				respond.Err(c, apperr.New(apperr.Validation, "Cannot add more items than available in stock"))
				return
			}
			item.Quantity += req.Quantity
			item.AddedAt = time.Now()
		} else {
			sess.Cart.Items = append(sess.Cart.Items, models.CartItem{
				ProductID: product.ID,
				Name:      product.Name,
				Slug:      product.Slug,
				ImageURL:  product.PrimaryImage(),
				Price:     product.EffectivePrice(),
				Quantity:  req.Quantity,
				AddedAt:   time.Now(),
			})
		}

		if err := saveSession(c, store, cfg, sess); err != nil {
			respond.Err(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product added to cart",
			"data":    gin.H{"total_items": sess.Cart.TotalItems()},
		})
	}
}

// UpdateCartItem sets an item's quantity; zero removes it.
// PUT /api/v1/cart/update
func UpdateCartItem(db *gorm.DB, store session.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid JSON data"))
			return
		}
		if req.ProductID == 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid product ID"))
			return
		}
		if req.Quantity < 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Quantity must not be negative"))
			return
		}

		sess := middleware.CurrentSession(c)
		item := sess.Cart.Find(req.ProductID)
		if item == nil {
			respond.Err(c, apperr.New(apperr.NotFound, "Cart item not found"))
			return
		}

		if req.Quantity == 0 {
			sess.Cart.Remove(req.ProductID)
		} else {
			product, err := availableProduct(db, req.ProductID)
			if err != nil {
				respond.Err(c, err)
				return
			}
			if product.Stock < req.Quantity {
				respond.Err(c, apperr.New(apperr.Validation, "Not enough stock available"))
				return
			}
			item.Quantity = req.Quantity
			item.AddedAt = time.Now()
		}

		if err := saveSession(c, store, cfg, sess); err != nil {
			respond.Err(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Cart updated",
			"data":    gin.H{"total_items": sess.Cart.TotalItems()},
		})
	}
}

// RemoveFromCart drops an item from the session cart.
// POST /api/v1/cart/remove
func RemoveFromCart(store session.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RemoveItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid JSON data"))
			return
		}

		sess := middleware.CurrentSession(c)
		if !sess.Cart.Remove(req.ProductID) {
			respond.Err(c, apperr.New(apperr.NotFound, "Cart item not found"))
			return
		}

		if err := saveSession(c, store, cfg, sess); err != nil {
			respond.Err(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Cart item removed",
			"data":    gin.H{"total_items": sess.Cart.TotalItems()},
		})
	}
}

func availableProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	err := db.Preload("Gallery").Where("id = ? AND is_active = ?", id, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Product not found or unavailable")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to fetch product", err)
	}
	return &product, nil
}

func saveSession(c *gin.Context, store session.Store, cfg config.Config, sess *session.Session) error {
	token := middleware.Token(c)
	if err := store.Set(c.Request.Context(), token, sess, cfg.SessionTTL); err != nil {
		return apperr.Wrap(apperr.Storage, "failed to save session", err)
	}
	return nil
}
