package adminController

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/config"
	"github.com/bananina/storefront-api/media"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
	"github.com/bananina/storefront-api/slug"
	"github.com/bananina/storefront-api/validate"
)

const (
	galleryMaxDimension = 1200
	imagesRelDir        = "assets/images"
)

// galleryConstraints converts gallery uploads to lossy WebP, capped at
// 1200x1200 with aspect ratio preserved.
var galleryConstraints = media.Constraints{
	MaxWidth:    galleryMaxDimension,
	MaxHeight:   galleryMaxDimension,
	ConvertWebP: true,
}

type productForm struct {
	Name            string
	CategoryID      uint
	BrandID         uint
	Description     string
	Details         string
	Price           float64
	SalePrice       *float64
	Stock           int
	SKU             string
	ConditionStatus string
	IsActive        bool
}

func parseProductForm(c *gin.Context) (*productForm, error) {
	if err := validate.Fields(
		validate.Field{Name: "Product name", Value: c.PostForm("name"), Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "Category", Value: c.PostForm("category_id"), Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "Brand", Value: c.PostForm("brand_id"), Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "Price", Value: c.PostForm("price"), Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "Stock", Value: c.PostForm("stock"), Checks: []validate.CheckFunc{validate.Required}},
		validate.Field{Name: "SKU", Value: c.PostForm("sku"), Checks: []validate.CheckFunc{validate.Required}},
	); err != nil {
		return nil, err
	}

	categoryID, err := strconv.ParseUint(c.PostForm("category_id"), 10, 64)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid category")
	}
	brandID, err := strconv.ParseUint(c.PostForm("brand_id"), 10, 64)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid brand")
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		return nil, apperr.New(apperr.Validation, "Invalid price")
	}

	stock, err := strconv.Atoi(c.PostForm("stock"))
	if err != nil || stock < 0 {
		return nil, apperr.New(apperr.Validation, "Stock must be a whole number")
	}

	form := &productForm{
		Name:            c.PostForm("name"),
		CategoryID:      uint(categoryID),
		BrandID:         uint(brandID),
		Description:     c.PostForm("description"),
		Details:         c.PostForm("details"),
		Price:           price,
		Stock:           stock,
		SKU:             c.PostForm("sku"),
		ConditionStatus: c.DefaultPostForm("condition_status", "New With Tag"),
		IsActive:        c.DefaultPostForm("is_active", "1") == "1",
	}

	if raw := c.PostForm("sale_price"); raw != "" && raw != "null" {
		salePrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || salePrice < 0 {
			return nil, apperr.New(apperr.Validation, "Invalid sale price")
		}
		if salePrice >= price {
			return nil, apperr.New(apperr.Validation, "Sale price must be less than regular price")
		}
		form.SalePrice = &salePrice
	}
	return form, nil
}

// CreateProduct creates a product with its gallery. Slug uniqueness is
// resolved inside the insert transaction; gallery files are written in
// the transaction window and deleted again when it rolls back.
// POST /api/v1/admin/products  (multipart)
func CreateProduct(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseProductForm(c)
		if err != nil {
			respond.Err(c, err)
			return
		}

		mpForm, err := c.MultipartForm()
		if err != nil {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid multipart form"))
			return
		}
		images := mpForm.File["images"]

		var (
			product      models.Product
			writtenFiles []string
		)

		txErr := db.Transaction(func(tx *gorm.DB) error {
			var category models.Category
			if err := tx.First(&category, form.CategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.Validation, "Invalid category")
				}
				return apperr.Wrap(apperr.Storage, "failed to fetch category", err)
			}
			var brand models.Brand
			if err := tx.First(&brand, form.BrandID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.Validation, "Invalid brand")
				}
				return apperr.Wrap(apperr.Storage, "failed to fetch brand", err)
			}

			var skuCount int64
			if err := tx.Model(&models.Product{}).Where("sku = ?", form.SKU).Count(&skuCount).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to check sku", err)
			}
			if skuCount > 0 {
				return apperr.New(apperr.Conflict, "SKU already exists")
			}

			productSlug, err := slug.Unique(slug.Make(form.Name), func(candidate string) (bool, error) {
				var n int64
				if err := tx.Unscoped().Model(&models.Product{}).Where("slug = ?", candidate).Count(&n).Error; err != nil {
					return false, apperr.Wrap(apperr.Storage, "failed to check slug", err)
				}
				return n > 0, nil
			})
			if err != nil {
				return err
			}

			product = models.Product{
				CategoryID:      category.ID,
				BrandID:         brand.ID,
				Name:            form.Name,
				Slug:            productSlug,
				Description:     form.Description,
				Details:         form.Details,
				MetaTitle:       fmt.Sprintf("%s | %s Bags", form.Name, brand.Name),
				MetaDescription: metaDescription(brand.Name, form.Name, form.Description),
				Price:           form.Price,
				SalePrice:       form.SalePrice,
				Stock:           form.Stock,
				SKU:             form.SKU,
				ConditionStatus: form.ConditionStatus,
				IsActive:        form.IsActive,
			}
			if err := tx.Create(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.New(apperr.Conflict, "SKU already exists")
				}
				return apperr.Wrap(apperr.Storage, "failed to create product", err)
			}

			written, err := ingestGallery(tx, cfg, &product, category.Slug, images)
			writtenFiles = written
			return err
		})
		if txErr != nil {
			for _, path := range writtenFiles {
				media.Remove(path)
			}
			respond.Err(c, txErr)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": fmt.Sprintf("Product %q created successfully with SKU: %s and %d images",
				product.Name, product.SKU, len(images)),
			"data": gin.H{
				"id":   product.ID,
				"name": product.Name,
				"slug": product.Slug,
				"sku":  product.SKU,
			},
		})
	}
}

// UpdateProduct edits product fields and optionally appends gallery
// images. The slug never changes on update so existing links survive.
// PUT /api/v1/admin/products/update?id=  (multipart)
func UpdateProduct(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Query("id"))
		if err != nil || productID <= 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid product ID"))
			return
		}

		var writtenFiles []string
		var product models.Product

		txErr := db.Transaction(func(tx *gorm.DB) error {
			err := tx.Preload("Category").Preload("Gallery").First(&product, productID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Product not found")
			}
			if err != nil {
				return apperr.Wrap(apperr.Storage, "failed to fetch product", err)
			}

			if v := c.PostForm("name"); v != "" {
				product.Name = v
			}
			if v := c.PostForm("description"); v != "" {
				product.Description = v
			}
			if v := c.PostForm("details"); v != "" {
				product.Details = v
			}
			if v := c.PostForm("price"); v != "" {
				price, err := strconv.ParseFloat(v, 64)
				if err != nil || price < 0 {
					return apperr.New(apperr.Validation, "Invalid price")
				}
				product.Price = price
			}
			if v := c.PostForm("sale_price"); v != "" {
				if v == "null" {
					product.SalePrice = nil
				} else {
					salePrice, err := strconv.ParseFloat(v, 64)
					if err != nil || salePrice < 0 || salePrice >= product.Price {
						return apperr.New(apperr.Validation, "Invalid sale price")
					}
					product.SalePrice = &salePrice
				}
			}
			if v := c.PostForm("stock"); v != "" {
				stock, err := strconv.Atoi(v)
				if err != nil || stock < 0 {
					return apperr.New(apperr.Validation, "Stock must be a whole number")
				}
				product.Stock = stock
			}
			if v := c.PostForm("condition_status"); v != "" {
				product.ConditionStatus = v
			}
			if v := c.PostForm("is_active"); v != "" {
				product.IsActive = v == "1"
			}

			if err := tx.Save(&product).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to update product", err)
			}

			if mpForm, err := c.MultipartForm(); err == nil {
				written, err := ingestGallery(tx, cfg, &product, product.Category.Slug, mpForm.File["images"])
				writtenFiles = written
				if err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			for _, path := range writtenFiles {
				media.Remove(path)
			}
			respond.Err(c, txErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product updated successfully",
			"data":    product,
		})
	}
}

// DeleteProduct soft-deletes; gallery rows and files stay for the
// existing orders that reference them.
// DELETE /api/v1/admin/products/delete?id=
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Query("id"))
		if err != nil || productID <= 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid product ID"))
			return
		}

		result := db.Delete(&models.Product{}, productID)
		if result.Error != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to delete product", result.Error))
			return
		}
		if result.RowsAffected == 0 {
			respond.Err(c, apperr.New(apperr.NotFound, "Product not found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product deleted successfully",
		})
	}
}

// GetProduct returns one product for the editor, soft-deleted included.
// GET /api/v1/admin/products/get?id=
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Query("id"))
		if err != nil || productID <= 0 {
			respond.Err(c, apperr.New(apperr.Validation, "Invalid product ID"))
			return
		}

		var product models.Product
		err = db.Unscoped().Preload("Brand").Preload("Category").
			Preload("Gallery", func(db *gorm.DB) *gorm.DB {
				return db.Order("is_primary DESC, sort_order ASC")
			}).
			First(&product, productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond.Err(c, apperr.New(apperr.NotFound, "Product not found"))
			return
		}
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch product", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}

// GetProducts lists all products for the admin catalog, inactive ones
// included.
// GET /api/v1/admin/products?page=
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		const perPage = 20

		var total int64
		if err := db.Model(&models.Product{}).Count(&total).Error; err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to count products", err))
			return
		}

		var products []models.Product
		err := db.Preload("Brand").Preload("Category").Preload("Gallery").
			Order("created_at DESC").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&products).Error
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch products", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    products,
			"pagination": gin.H{
				"current_page": page,
				"per_page":     perPage,
				"total_items":  total,
			},
		})
	}
}

// ingestGallery stores uploaded gallery files and records their rows.
// The first file becomes the primary image, the rest the hover
// gallery. Returns every path written so the caller can delete them
// when the transaction aborts.
func ingestGallery(tx *gorm.DB, cfg config.Config, product *models.Product, categorySlug string, files []*multipart.FileHeader) ([]string, error) {
	var written []string
	for i, fh := range files {
		isPrimary := i == 0
		typeDir := "hover"
		if isPrimary {
			typeDir = "primary"
		}

		dir := filepath.Join(cfg.PublicDir, imagesRelDir, categorySlug, typeDir)
		base := fmt.Sprintf("%s-%s", product.Slug, uuid.NewString()[:8])

		filename, err := media.Ingest(fh, dir, base, galleryConstraints)
		if err != nil {
			return written, err
		}
		written = append(written, filepath.Join(dir, filename))

		entry := models.ProductGallery{
			ProductID: product.ID,
			ImageURL:  fmt.Sprintf("/%s/%s/%s/%s", imagesRelDir, categorySlug, typeDir, filename),
			IsPrimary: isPrimary,
			SortOrder: i,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return written, apperr.Wrap(apperr.Storage, "failed to create gallery entry", err)
		}
	}
	return written, nil
}

// metaDescription derives the search snippet: brand + name, then the
// first sentence of the description capped around 150 characters.
func metaDescription(brand, name, description string) string {
	meta := fmt.Sprintf("Shop %s %s", brand, name)
	if description == "" {
		return meta
	}
	firstSentence, _, _ := strings.Cut(description, ".")
	if len(firstSentence) > 150 {
		firstSentence = firstSentence[:147] + "..."
	}
	return meta + ". " + firstSentence
}
