package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
	"github.com/bananina/storefront-api/validate"
)

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// GetProfile returns the caller's profile with its default shipping and
// billing addresses.
// GET /api/v1/user/profile
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)

		var user models.User
		err := db.First(&user, sess.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond.Err(c, apperr.New(apperr.NotFound, "User not found"))
			return
		}
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch user", err))
			return
		}

		var addresses []models.Address
		err = db.Where("user_id = ? AND is_default = ?", sess.UserID, true).
			Order("address_type").
			Find(&addresses).Error
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch addresses", err))
			return
		}

		defaults := gin.H{"shipping": nil, "billing": nil}
		for i := range addresses {
			defaults[string(addresses[i].AddressType)] = addresses[i]
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"id":                user.ID,
				"email":             user.Email,
				"full_name":         user.FullName,
				"phone":             user.Phone,
				"default_addresses": defaults,
				"created_at":        user.CreatedAt,
				"updated_at":        user.UpdatedAt,
			},
		})
	}
}

// UpdateProfile updates the mutable profile fields and echoes the
// updated record.
// PUT /api/v1/user/profile/update
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, validate.ErrInvalidJSON)
			return
		}

		if err := validate.Fields(
			validate.Field{Name: "Full name", Value: req.FullName, Checks: []validate.CheckFunc{validate.Required}},
			validate.Field{Name: "Phone number", Value: req.Phone, Checks: []validate.CheckFunc{validate.Required, validate.Phone}},
		); err != nil {
			respond.Err(c, err)
			return
		}

		sess := middleware.CurrentSession(c)
		updates := map[string]any{"full_name": req.FullName, "phone": req.Phone}
		if err := db.Model(&models.User{}).Where("id = ?", sess.UserID).Updates(updates).Error; err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to update profile", err))
			return
		}

		var user models.User
		if err := db.First(&user, sess.UserID).Error; err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch updated profile", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Profile updated successfully",
			"data": gin.H{
				"id":         user.ID,
				"email":      user.Email,
				"full_name":  user.FullName,
				"phone":      user.Phone,
				"created_at": user.CreatedAt,
				"updated_at": user.UpdatedAt,
			},
		})
	}
}

// ChangePassword verifies the current password before storing the new
// hash.
// PUT /api/v1/user/profile/password
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, validate.ErrInvalidJSON)
			return
		}

		if err := validate.Fields(
			validate.Field{Name: "Current password", Value: req.CurrentPassword, Checks: []validate.CheckFunc{validate.Required}},
			validate.Field{Name: "New password", Value: req.NewPassword, Checks: []validate.CheckFunc{validate.Required, validate.Password}},
			validate.Field{Name: "confirm_password", Value: req.ConfirmPassword, Checks: []validate.CheckFunc{
				validate.Equals(req.NewPassword, "Passwords do not match"),
			}},
		); err != nil {
			respond.Err(c, err)
			return
		}

		sess := middleware.CurrentSession(c)
		var user models.User
		if err := db.First(&user, sess.UserID).Error; err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch user", err))
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Current password is incorrect"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to hash password", err))
			return
		}

		if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to update password", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Password updated successfully",
		})
	}
}
