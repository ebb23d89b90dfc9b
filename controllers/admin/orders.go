package adminController

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
)

// GetOrders lists orders for the admin panel, newest first, optionally
// filtered by status.
// GET /api/v1/admin/orders?status=&page=
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		const perPage = 20

		query := db.Model(&models.Order{})
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to count orders", err))
			return
		}

		var orders []models.Order
		err := query.
			Preload("User").Preload("Items").Preload("PaymentDetail").
			Order("created_at DESC").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&orders).Error
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch orders", err))
			return
		}

		list := make([]gin.H, 0, len(orders))
		for _, order := range orders {
			itemCount := 0
			for _, item := range order.Items {
				itemCount += item.Quantity
			}
			entry := gin.H{
				"id":             order.ID,
				"order_number":   order.OrderNumber,
				"status":         order.Status,
				"total_amount":   order.TotalAmount,
				"payment_method": order.PaymentMethod,
				"items_count":    itemCount,
				"customer":       gin.H{"id": order.User.ID, "username": order.User.Username, "email": order.User.Email},
				"created_at":     order.CreatedAt,
			}
			if order.PaymentDetail != nil {
				entry["payment_proof_url"] = order.PaymentDetail.TransferProofURL
				entry["payment_verified"] = order.PaymentDetail.VerifiedAt != nil
			}
			list = append(list, entry)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    list,
			"pagination": gin.H{
				"current_page": page,
				"per_page":     perPage,
				"total_items":  total,
			},
		})
	}
}

// GetOrderDetail returns one order with its full payment and status
// trail for review.
// GET /api/v1/admin/orders/detail?id=
func GetOrderDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Query("id"))
		if err != nil || orderID <= 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid order ID"))
			return
		}

		var order models.Order
		err = db.
			Preload("User").Preload("Items").Preload("ShippingAddress").
			Preload("PaymentDetail").
			Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC")
			}).
			First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond.Err(c, apperr.New(apperr.NotFound, "Order not found"))
			return
		}
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch order", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

// VerifyPayment marks an uploaded transfer proof as checked and moves
// the order to payment_verified.
// POST /api/v1/admin/orders/verify-payment  {"order_id": n}
func VerifyPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID uint `json:"order_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Order ID is required"))
			return
		}
		sess := middleware.CurrentSession(c)

		txErr := db.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&order, req.OrderID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Order not found")
			}
			if err != nil {
				return apperr.Wrap(apperr.Storage, "failed to fetch order", err)
			}

			if order.Status != models.OrderStatusPaymentUploaded {
				return apperr.Newf(apperr.Validation, "Cannot verify payment for order in status '%s'", order.Status)
			}

			now := time.Now()
			result := tx.Model(&models.PaymentDetail{}).
				Where("order_id = ?", order.ID).
				Update("verified_at", now)
			if result.Error != nil {
				return apperr.Wrap(apperr.Storage, "failed to update payment detail", result.Error)
			}
			if result.RowsAffected == 0 {
				return apperr.New(apperr.Validation, "No payment proof uploaded for this order")
			}

			if err := tx.Model(&order).Update("status", models.OrderStatusPaymentVerified).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to update order status", err)
			}

			entry := models.OrderStatusEntry{
				OrderID:   order.ID,
				Status:    models.OrderStatusPaymentVerified,
				Notes:     "Payment verified",
				ChangedBy: &sess.UserID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to record status change", err)
			}
			return nil
		})
		if txErr != nil {
			respond.Err(c, txErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment verified successfully",
		})
	}
}

// UpdateOrderStatus applies an admin status transition. Moving an order
// to cancelled puts its items back in stock.
// POST /api/v1/admin/orders/update-status  {"order_id": n, "status": s, "notes": s}
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID uint   `json:"order_id"`
			Status  string `json:"status"`
			Notes   string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == 0 || req.Status == "" {
			respond.Err(c, apperr.New(apperr.Validation, "Order ID and status are required"))
			return
		}
		target := models.OrderStatus(req.Status)
		sess := middleware.CurrentSession(c)

		txErr := db.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Preload("Items").
				First(&order, req.OrderID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Order not found")
			}
			if err != nil {
				return apperr.Wrap(apperr.Storage, "failed to fetch order", err)
			}

			if !models.CanTransition(order.Status, target) {
				return apperr.Newf(apperr.Validation, "Cannot change status from '%s' to '%s'", order.Status, target)
			}

			if target == models.OrderStatusCancelled {
				for _, item := range order.Items {
					err := tx.Model(&models.Product{}).
						Where("id = ?", item.ProductID).
						Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error
					if err != nil {
						return apperr.Wrap(apperr.Storage, "failed to restore stock", err)
					}
				}
			}

			if err := tx.Model(&order).Update("status", target).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to update order status", err)
			}

			entry := models.OrderStatusEntry{
				OrderID:   order.ID,
				Status:    target,
				Notes:     req.Notes,
				ChangedBy: &sess.UserID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to record status change", err)
			}
			return nil
		})
		if txErr != nil {
			respond.Err(c, txErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Order status updated to '%s'", target),
		})
	}
}
