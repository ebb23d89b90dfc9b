package orderControllers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/config"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
	"github.com/bananina/storefront-api/session"
	"github.com/bananina/storefront-api/validate"
)

type ShippingAddressRequest struct {
	RecipientName  string `json:"recipient_name"`
	Phone          string `json:"phone"`
	StreetAddress  string `json:"street_address"`
	District       string `json:"district"`
	City           string `json:"city"`
	Province       string `json:"province"`
	PostalCode     string `json:"postal_code"`
	AdditionalInfo string `json:"additional_info"`
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

type RefundRequestBody struct {
	Reason string `json:"reason"`
}

// addressField fails with the checkout-specific message shape.
func addressField(name, value string) error {
	if err := validate.Required(name, value); err != nil {
		return apperr.Newf(apperr.Validation, "Address field '%s' is required", name)
	}
	return nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD%s%04d", time.Now().Format("20060102"), rand.Intn(10000))
}

// CreateOrder turns the session cart into an order: shipping address,
// order row, item rows with price snapshots, and stock deductions all
// commit together or not at all. The cart is cleared only after commit.
// POST /api/v1/orders/create
func CreateOrder(db *gorm.DB, store session.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid JSON data"))
			return
		}

		if err := validate.Fields(
			validate.Field{Name: "payment_method", Value: req.PaymentMethod, Checks: []validate.CheckFunc{
				validate.Required, validate.OneOf("bank_transfer", "e-wallet"),
			}},
			validate.Field{Name: "recipient_name", Value: req.ShippingAddress.RecipientName, Checks: []validate.CheckFunc{addressField}},
			validate.Field{Name: "phone", Value: req.ShippingAddress.Phone, Checks: []validate.CheckFunc{addressField, validate.Phone}},
			validate.Field{Name: "street_address", Value: req.ShippingAddress.StreetAddress, Checks: []validate.CheckFunc{addressField}},
			validate.Field{Name: "district", Value: req.ShippingAddress.District, Checks: []validate.CheckFunc{addressField}},
			validate.Field{Name: "city", Value: req.ShippingAddress.City, Checks: []validate.CheckFunc{addressField}},
			validate.Field{Name: "province", Value: req.ShippingAddress.Province, Checks: []validate.CheckFunc{addressField}},
			validate.Field{Name: "postal_code", Value: req.ShippingAddress.PostalCode, Checks: []validate.CheckFunc{addressField, validate.PostalCode}},
		); err != nil {
			respond.Err(c, err)
			return
		}

		sess := middleware.CurrentSession(c)
		if len(sess.Cart.Items) == 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Cart is empty"))
			return
		}

		var order models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			address := models.Address{
				UserID:         sess.UserID,
				AddressType:    models.AddressShipping,
				RecipientName:  req.ShippingAddress.RecipientName,
				Phone:          req.ShippingAddress.Phone,
				StreetAddress:  req.ShippingAddress.StreetAddress,
				District:       req.ShippingAddress.District,
				City:           req.ShippingAddress.City,
				Province:       req.ShippingAddress.Province,
				PostalCode:     req.ShippingAddress.PostalCode,
				AdditionalInfo: req.ShippingAddress.AdditionalInfo,
			}
			if err := tx.Create(&address).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to create shipping address", err)
			}

			var total float64
			items := make([]models.OrderItem, 0, len(sess.Cart.Items))
			for _, cartItem := range sess.Cart.Items {
				var product models.Product
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Preload("Gallery").
					Where("id = ? AND is_active = ?", cartItem.ProductID, true).
					First(&product).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Newf(apperr.Validation, "Product %s is no longer available", cartItem.Name)
				}
				if err != nil {
					return apperr.Wrap(apperr.Storage, "failed to lock product", err)
				}

				if product.Stock < cartItem.Quantity {
					return apperr.Newf(apperr.Validation, "Insufficient stock for %s", product.Name)
				}

				// Price snapshot at creation time; later price edits
				// never touch this order.
				price := product.EffectivePrice()
				total += price * float64(cartItem.Quantity)
				items = append(items, models.OrderItem{
					ProductID:   product.ID,
					ProductName: product.Name,
					ProductSlug: product.Slug,
					ImageURL:    product.PrimaryImage(),
					Price:       price,
					Quantity:    cartItem.Quantity,
				})

				if err := tx.Model(&product).
					UpdateColumn("stock", gorm.Expr("stock - ?", cartItem.Quantity)).Error; err != nil {
					return apperr.Wrap(apperr.Storage, "failed to deduct stock", err)
				}
			}

			order = models.Order{
				OrderNumber:       generateOrderNumber(),
				UserID:            sess.UserID,
				ShippingAddressID: address.ID,
				Items:             items,
				TotalAmount:       total,
				ShippingCost:      0,
				PaymentMethod:     req.PaymentMethod,
				Status:            models.OrderStatusPendingPayment,
			}
			if err := tx.Create(&order).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to create order", err)
			}
			return nil
		})
		if err != nil {
			respond.Err(c, err)
			return
		}

		sess.Cart.Clear()
		if err := store.Set(c.Request.Context(), middleware.Token(c), sess, cfg.SessionTTL); err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to clear cart", err))
			return
		}

		itemsCount := len(order.Items)
		totalItems := 0
		for _, it := range order.Items {
			totalItems += it.Quantity
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order created successfully",
			"data": gin.H{
				"order_id":      order.ID,
				"order_number":  order.OrderNumber,
				"status":        order.Status,
				"total_amount":  order.TotalAmount,
				"shipping_cost": order.ShippingCost,
				"items_count":   itemsCount,
				"total_items":   totalItems,
			},
		})
	}
}

// GetOrders lists the caller's orders, newest first.
// GET /api/v1/orders
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)

		var orders []models.Order
		err := db.Preload("Items").Preload("PaymentDetail").
			Where("user_id = ?", sess.UserID).
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch orders", err))
			return
		}

		data := make([]gin.H, 0, len(orders))
		for i := range orders {
			o := &orders[i]
			totalItems := 0
			for _, it := range o.Items {
				totalItems += it.Quantity
			}
			data = append(data, gin.H{
				"order_id":       o.ID,
				"order_number":   o.OrderNumber,
				"status":         o.Status,
				"total_amount":   o.TotalAmount,
				"payment_method": o.PaymentMethod,
				"items_count":    len(o.Items),
				"total_items":    totalItems,
				"has_payment":    o.PaymentDetail != nil,
				"created_at":     o.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}

// GetOrderDetail returns one owned order with items, shipping address,
// payment detail and status history.
// GET /api/v1/orders/detail?id=
func GetOrderDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)
		order, err := ownedOrder(db, c, sess,
			"Items", "ShippingAddress", "PaymentDetail", "StatusHistory")
		if err != nil {
			respond.Err(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

// CancelOrder cancels an owned order that has not been verified yet and
// restores the deducted stock.
// POST /api/v1/orders/cancel?id=
func CancelOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)

		err := db.Transaction(func(tx *gorm.DB) error {
			order, err := ownedOrder(tx, c, sess, "Items")
			if err != nil {
				return err
			}

			if order.Status != models.OrderStatusPendingPayment &&
				order.Status != models.OrderStatusPaymentUploaded {
				return apperr.New(apperr.Validation, "Order cannot be cancelled in current status")
			}

			for _, item := range order.Items {
				if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return apperr.Wrap(apperr.Storage, "failed to restore stock", err)
				}
			}

			if err := tx.Model(order).Update("status", models.OrderStatusCancelled).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to cancel order", err)
			}

			history := models.OrderStatusEntry{
				OrderID:   order.ID,
				Status:    models.OrderStatusCancelled,
				Notes:     "Cancelled by customer",
				ChangedBy: &sess.UserID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to record status change", err)
			}
			return nil
		})
		if err != nil {
			respond.Err(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order cancelled successfully",
			"data":    gin.H{"status": models.OrderStatusCancelled},
		})
	}
}

// RequestRefund files a refund request for a paid order.
// POST /api/v1/orders/refund?id=
func RequestRefund(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefundRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid JSON data"))
			return
		}
		if err := validate.Required("Refund reason", req.Reason); err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Refund reason is required"))
			return
		}

		sess := middleware.CurrentSession(c)

		err := db.Transaction(func(tx *gorm.DB) error {
			order, err := ownedOrder(tx, c, sess, "PaymentDetail")
			if err != nil {
				return err
			}

			switch order.Status {
			case models.OrderStatusPaymentVerified, models.OrderStatusProcessing,
				models.OrderStatusShipped, models.OrderStatusDelivered:
			default:
				return apperr.New(apperr.Validation, "Order cannot be refunded in current status")
			}
			if order.PaymentDetail == nil {
				return apperr.New(apperr.Validation, "No payment found for this order")
			}

			refund := models.RefundRequest{OrderID: order.ID, Reason: req.Reason}
			if err := tx.Create(&refund).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to create refund request", err)
			}

			if err := tx.Model(order).Update("status", models.OrderStatusRefundRequested).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to update order status", err)
			}

			history := models.OrderStatusEntry{
				OrderID:   order.ID,
				Status:    models.OrderStatusRefundRequested,
				Notes:     req.Reason,
				ChangedBy: &sess.UserID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to record status change", err)
			}
			return nil
		})
		if err != nil {
			respond.Err(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Refund requested",
			"data":    gin.H{"status": models.OrderStatusRefundRequested},
		})
	}
}

// ownedOrder loads the order named by ?id= when it belongs to the
// session user; a missing or foreign order is the same NotFound.
func ownedOrder(db *gorm.DB, c *gin.Context, sess *session.Session, preloads ...string) (*models.Order, error) {
	orderID, err := strconv.Atoi(c.Query("id"))
	if err != nil || orderID <= 0 {
		return nil, apperr.New(apperr.Validation, "Invalid order ID")
	}

	q := db.Where("id = ? AND user_id = ?", orderID, sess.UserID)
	for _, p := range preloads {
		q = q.Preload(p)
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Order not found")
		}
		return nil, apperr.Wrap(apperr.Storage, "failed to fetch order", err)
	}
	return &order, nil
}
