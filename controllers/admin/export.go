package adminController

import (
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
)

// ExportProducts streams the full catalog as an xlsx workbook,
// soft-deleted products included so the export doubles as a backup.
// GET /api/v1/admin/products/export
func ExportProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		err := db.Unscoped().
			Preload("Brand").Preload("Category").Preload("Gallery").
			Order("id ASC").
			Find(&products).Error
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to fetch products", err))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to create sheet", err))
			return
		}

		headers := []string{
			"ID", "Name", "Slug", "SKU", "Category", "Brand",
			"Price", "SalePrice", "Stock", "Condition", "Active",
			"PrimaryImage", "HoverImage", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()

			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(p.SKU)
			row.AddCell().SetValue(p.Category.Name)
			row.AddCell().SetValue(p.Brand.Name)
			row.AddCell().SetValue(p.Price)
			if p.SalePrice != nil {
				row.AddCell().SetValue(*p.SalePrice)
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(p.ConditionStatus)
			row.AddCell().SetValue(p.IsActive)
			row.AddCell().SetValue(p.PrimaryImage())
			row.AddCell().SetValue(p.HoverImage())
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			respond.Err(c, apperr.Wrap(apperr.Storage, "failed to write excel file", err))
			return
		}
	}
}
