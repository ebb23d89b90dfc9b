package orderControllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/config"
	"github.com/bananina/storefront-api/media"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
)

const (
	paymentProofMaxBytes = 5 * 1024 * 1024
	paymentsRelDir       = "assets/uploads/payments"
)

// UploadPayment attaches (or replaces) the transfer proof of an owned
// order. The file and the database rows succeed or fail together: the
// upload is validated entirely in memory first, the file is written
// inside the transaction window, and a rollback deletes it again. A
// replaced file is deleted only after the commit.
// POST /api/v1/orders/upload-payment?id=  (multipart: payment_proof)
func UploadPayment(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)

		fh, err := c.FormFile("payment_proof")
		if err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Payment proof is required"))
			return
		}

		f, err := fh.Open()
		if err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "File upload failed"))
			return
		}
		// Validated and held in memory before anything is written.
		result, err := media.Process(f, fh.Size, media.Constraints{MaxBytes: paymentProofMaxBytes})
		f.Close()
		if err != nil {
			respond.Err(c, err)
			return
		}

		var (
			newFilePath string
			oldFilePath string
			proofURL    string
		)

		txErr := db.Transaction(func(tx *gorm.DB) error {
			order, err := ownedOrder(tx, c, sess, "PaymentDetail")
			if err != nil {
				return err
			}

			if order.Status != models.OrderStatusPendingPayment &&
				order.Status != models.OrderStatusPaymentUploaded {
				return apperr.New(apperr.Validation, "Invalid order status for payment upload")
			}

			base := fmt.Sprintf("payment_%d_%d", order.ID, time.Now().Unix())
			dir := filepath.Join(cfg.PublicDir, paymentsRelDir)
			filename, err := media.Save(result, dir, base)
			if err != nil {
				return err
			}
			newFilePath = filepath.Join(dir, filename)
			proofURL = "/" + paymentsRelDir + "/" + filename

			if order.PaymentDetail != nil {
				oldFilePath = filepath.Join(cfg.PublicDir,
					filepath.FromSlash(order.PaymentDetail.TransferProofURL))
				updates := map[string]any{
					"transfer_proof_url": proofURL,
					"payment_date":       time.Now(),
				}
				if err := tx.Model(order.PaymentDetail).Updates(updates).Error; err != nil {
					return apperr.Wrap(apperr.Storage, "failed to update payment details", err)
				}
			} else {
				detail := models.PaymentDetail{
					OrderID:          order.ID,
					PaymentMethod:    order.PaymentMethod,
					TransferProofURL: proofURL,
					PaymentAmount:    order.TotalAmount,
					PaymentDate:      time.Now(),
				}
				if err := tx.Create(&detail).Error; err != nil {
					return apperr.Wrap(apperr.Storage, "failed to create payment details", err)
				}
			}

			if order.Status == models.OrderStatusPendingPayment {
				if err := tx.Model(order).Update("status", models.OrderStatusPaymentUploaded).Error; err != nil {
					return apperr.Wrap(apperr.Storage, "failed to update order status", err)
				}
			}
			return nil
		})
		if txErr != nil {
			// No orphan file on the abort path.
			media.Remove(newFilePath)
			respond.Err(c, txErr)
			return
		}

		// Replaced proof is removed only after the committed update.
		if oldFilePath != "" && oldFilePath != newFilePath {
			media.Remove(oldFilePath)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment proof uploaded successfully",
			"data": gin.H{
				"payment_proof_url": proofURL,
				"status":            models.OrderStatusPaymentUploaded,
			},
		})
	}
}
