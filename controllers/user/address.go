package userControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
	"github.com/bananina/storefront-api/validate"
)

type AddressRequest struct {
	AddressType    string `json:"address_type"`
	RecipientName  string `json:"recipient_name"`
	Phone          string `json:"phone"`
	StreetAddress  string `json:"street_address"`
	District       string `json:"district"`
	City           string `json:"city"`
	Province       string `json:"province"`
	PostalCode     string `json:"postal_code"`
	AdditionalInfo string `json:"additional_info"`
	IsDefault      bool   `json:"is_default"`
}

func (r *AddressRequest) validate() error {
	if r.AddressType == "" {
		r.AddressType = string(models.AddressShipping)
	}
	return validate.Fields(
		validate.Field{Name: "address_type", Value: r.AddressType, Checks: []validate.CheckFunc{
			validate.OneOf(string(models.AddressShipping), string(models.AddressBilling)),
		}},
		validate.Field{Name: "recipient_name", Value: r.RecipientName, Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "phone", Value: r.Phone, Checks: []validate.CheckFunc{validate.Required, validate.Phone}},
		validate.Field{Name: "street_address", Value: r.StreetAddress, Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "city", Value: r.City, Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "province", Value: r.Province, Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "postal_code", Value: r.PostalCode, Checks: []validate.CheckFunc{validate.Required, validate.PostalCode}},
	)
}

// CreateAddress adds an address. The first address of a type becomes
// the default; marking a later one default clears the previous default
// in the same transaction, keeping at most one per (user, type).
// POST /api/v1/user/addresses
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, validate.ErrInvalidJSON)
			return
		}
		if err := req.validate(); err != nil {
			respond.Err(c, err)
			return
		}

		sess := middleware.CurrentSession(c)
		var address models.Address

		err := db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND address_type = ?", sess.UserID, req.AddressType).
				Count(&count).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to count addresses", err)
			}

			isDefault := count == 0 || req.IsDefault
			if isDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ? AND address_type = ?", sess.UserID, req.AddressType).
					Update("is_default", false).Error; err != nil {
					return apperr.Wrap(apperr.Storage, "failed to clear default address", err)
				}
			}

			address = models.Address{
				UserID:         sess.UserID,
				AddressType:    models.AddressType(req.AddressType),
				RecipientName:  req.RecipientName,
				Phone:          req.Phone,
				StreetAddress:  req.StreetAddress,
				District:       req.District,
				City:           req.City,
				Province:       req.Province,
				PostalCode:     req.PostalCode,
				AdditionalInfo: req.AdditionalInfo,
				IsDefault:      isDefault,
			}
			if err := tx.Create(&address).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to create address", err)
			}
			return nil
		})
		if err != nil {
			respond.Err(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Address created successfully",
			"data":    address,
		})
	}
}

// UpdateAddress edits an owned address; the default invariant is kept
// the same way as on create.
// PUT /api/v1/user/addresses/update?id=
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Err(c, validate.ErrInvalidJSON)
			return
		}
		if err := req.validate(); err != nil {
			respond.Err(c, err)
			return
		}

		sess := middleware.CurrentSession(c)
		var address models.Address

		err := db.Transaction(func(tx *gorm.DB) error {
			found, err := ownedAddress(tx, c, sess.UserID)
			if err != nil {
				return err
			}
			address = *found

			// Clear the target type's current default. The row's own
			// default flag says nothing here: the request may move the
			// address to the other type, where a different row holds it.
			if req.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ? AND address_type = ? AND id <> ?", sess.UserID, req.AddressType, address.ID).
					Update("is_default", false).Error; err != nil {
					return apperr.Wrap(apperr.Storage, "failed to clear default address", err)
				}
			}

			address.AddressType = models.AddressType(req.AddressType)
			address.RecipientName = req.RecipientName
			address.Phone = req.Phone
			address.StreetAddress = req.StreetAddress
			address.District = req.District
			address.City = req.City
			address.Province = req.Province
			address.PostalCode = req.PostalCode
			address.AdditionalInfo = req.AdditionalInfo
			if req.IsDefault {
				address.IsDefault = true
			}

			if err := tx.Save(&address).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to update address", err)
			}
			return nil
		})
		if err != nil {
			respond.Err(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Address updated successfully",
			"data":    address,
		})
	}
}

// DeleteAddress removes an owned address.
// DELETE /api/v1/user/addresses/delete?id=
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)

		address, err := ownedAddress(db, c, sess.UserID)
		if err != nil {
			respond.Err(c, err)
			return
		}

		if err := db.Delete(address).Error; err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to delete address", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Address deleted successfully",
		})
	}
}

func ownedAddress(db *gorm.DB, c *gin.Context, userID uint) (*models.Address, error) {
	addressID, err := strconv.Atoi(c.Query("id"))
	if err != nil || addressID <= 0 {
		return nil, apperr.New(apperr.Validation, "Invalid address ID")
	}

	var address models.Address
	err = db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Address not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to fetch address", err)
	}
	return &address, nil
}
