// Package importer loads product CSV exports into the catalog. One
// file per category; rows with missing columns are skipped and logged,
// but everything accepted commits in a single transaction.
package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/slug"
)

// defaultStock is assigned to every imported product; the source files
// carry no stock column.
const defaultStock = 10

// requiredColumns maps CSV column index to the field name used in skip
// logs. Rows missing any of these are skipped, not failed.
var requiredColumns = map[int]string{
	0:  "Brand",
	1:  "Name",
	2:  "Price",
	8:  "SKU",
	10: "Description",
	11: "Details",
	12: "Condition",
	13: "Primary Image",
	14: "Hover Image",
}

// Row is one parsed, validated CSV line.
type Row struct {
	Brand        string
	Name         string
	Price        float64
	SKU          string
	Description  string
	Details      string
	Condition    string
	PrimaryImage string
	HoverImage   string
}

// Stats counts the outcome for one category file.
type Stats struct {
	Category string
	Imported int
	Skipped  int
}

// ParsePrice normalizes a currency string like "IDR 2.450.000" to a
// numeric amount by stripping the currency code, separators and spaces.
func ParsePrice(raw string) (float64, error) {
	cleaned := strings.NewReplacer("IDR", "", ",", "", ".", "", " ", "").Replace(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price %q", raw)
	}
	var price float64
	if _, err := fmt.Sscanf(cleaned, "%f", &price); err != nil {
		return 0, fmt.Errorf("unparseable price %q", raw)
	}
	return price, nil
}

// ParseRow validates one CSV record and returns the parsed row, or a
// skip reason listing every missing column.
func ParseRow(record []string) (*Row, error) {
	var missing []string
	for idx, name := range requiredColumns {
		if idx >= len(record) || strings.TrimSpace(record[idx]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	price, err := ParsePrice(record[2])
	if err != nil {
		return nil, err
	}

	return &Row{
		Brand:        strings.TrimSpace(record[0]),
		Name:         strings.TrimSpace(record[1]),
		Price:        price,
		SKU:          strings.TrimSpace(record[8]),
		Description:  strings.TrimSpace(record[10]),
		Details:      strings.TrimSpace(record[11]),
		Condition:    strings.TrimSpace(record[12]),
		PrimaryImage: strings.TrimSpace(record[13]),
		HoverImage:   strings.TrimSpace(record[14]),
	}, nil
}

// Run imports every category file inside one transaction. The map key
// is the category slug, the value the CSV path. Returns per-category
// stats in no particular order.
func Run(db *gorm.DB, files map[string]string) ([]Stats, error) {
	var results []Stats

	err := db.Transaction(func(tx *gorm.DB) error {
		for categorySlug, filePath := range files {
			stats, err := importFile(tx, categorySlug, filePath)
			if err != nil {
				return err
			}
			results = append(results, stats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	totalImported, totalSkipped := 0, 0
	for _, s := range results {
		logrus.Infof("category %s: imported %d, skipped %d", s.Category, s.Imported, s.Skipped)
		totalImported += s.Imported
		totalSkipped += s.Skipped
	}
	logrus.Infof("import completed: %d imported, %d skipped", totalImported, totalSkipped)
	return results, nil
}

func importFile(tx *gorm.DB, categorySlug, filePath string) (Stats, error) {
	stats := Stats{Category: categorySlug}

	f, err := os.Open(filePath)
	if err != nil {
		return stats, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return stats, fmt.Errorf("read %s: %w", filePath, err)
	}
	if len(records) < 2 {
		return stats, nil
	}
	records = records[1:] // header

	category, err := getOrCreateCategory(tx, categorySlug)
	if err != nil {
		return stats, err
	}

	for i, record := range records {
		row, err := ParseRow(record)
		if err != nil {
			name := ""
			if len(record) > 1 {
				name = record[1]
			}
			logrus.Warnf("skipping row %d (%s): %v", i+2, name, err)
			stats.Skipped++
			continue
		}

		imported, err := importRow(tx, category, row)
		if err != nil {
			return stats, err
		}
		if imported {
			stats.Imported++
		} else {
			stats.Skipped++
		}
	}
	return stats, nil
}

// importRow inserts one product with its gallery rows. An existing slug
// means the product was imported before; the row is skipped.
func importRow(tx *gorm.DB, category *models.Category, row *Row) (bool, error) {
	productSlug := slug.Make(row.Name)

	var count int64
	if err := tx.Unscoped().Model(&models.Product{}).Where("slug = ?", productSlug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check slug %s: %w", productSlug, err)
	}
	if count > 0 {
		return false, nil
	}

	brand, err := getOrCreateBrand(tx, row.Brand)
	if err != nil {
		return false, err
	}

	product := models.Product{
		CategoryID:      category.ID,
		BrandID:         brand.ID,
		Name:            row.Name,
		Slug:            productSlug,
		Description:     row.Description,
		Details:         row.Details,
		MetaTitle:       fmt.Sprintf("%s | %s %s", row.Name, row.Brand, category.Name),
		MetaDescription: fmt.Sprintf("Shop %s %s. %s", row.Brand, row.Name, row.Description),
		Price:           row.Price,
		Stock:           defaultStock,
		SKU:             row.SKU,
		ConditionStatus: row.Condition,
		IsActive:        true,
	}
	// DoNothing keeps a duplicate SKU from aborting the batch
	// transaction; the row is counted as skipped instead.
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&product)
	if result.Error != nil {
		return false, fmt.Errorf("create product %s: %w", row.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		logrus.Warnf("skipping %s: duplicate SKU %s", row.Name, row.SKU)
		return false, nil
	}

	gallery := []models.ProductGallery{
		{ProductID: product.ID, ImageURL: imageURL(category.Slug, row.PrimaryImage), IsPrimary: true, SortOrder: 0},
		{ProductID: product.ID, ImageURL: imageURL(category.Slug, row.HoverImage), IsPrimary: false, SortOrder: 1},
	}
	if err := tx.Create(&gallery).Error; err != nil {
		return false, fmt.Errorf("create gallery for %s: %w", row.Name, err)
	}
	return true, nil
}

// imageURL rewrites a source image reference like
// "images\backpacks\foo.webp" to the public asset path.
func imageURL(categorySlug, source string) string {
	source = strings.ReplaceAll(source, "\\", "/")
	for _, prefix := range []string{"images/" + categorySlug + "/", "images/"} {
		source = strings.TrimPrefix(source, prefix)
	}
	return path.Join("/assets/images", categorySlug, source)
}

func getOrCreateCategory(tx *gorm.DB, categorySlug string) (*models.Category, error) {
	category := models.Category{Name: titleCase(strings.ReplaceAll(categorySlug, "-", " ")), Slug: categorySlug}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category %s: %w", categorySlug, err)
	}
	if err := tx.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		return nil, fmt.Errorf("fetch category %s: %w", categorySlug, err)
	}
	return &category, nil
}

func getOrCreateBrand(tx *gorm.DB, name string) (*models.Brand, error) {
	brandSlug := slug.Make(name)
	brand := models.Brand{Name: name, Slug: brandSlug}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&brand).Error; err != nil {
		return nil, fmt.Errorf("create brand %s: %w", name, err)
	}
	if err := tx.Where("slug = ?", brandSlug).First(&brand).Error; err != nil {
		return nil, fmt.Errorf("fetch brand %s: %w", name, err)
	}
	return &brand, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
