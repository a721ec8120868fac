package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalogbench/internal/models"

	"gorm.io/gorm"
)

// ErrUnsupportedTable is returned when a table is not one of the benchmark tables.
var ErrUnsupportedTable = errors.New("unsupported table")

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db         *gorm.DB
	softDelete bool
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// deleteMode is DeleteModeHard or DeleteModeSoft.
func NewGORMProductRepository(db *gorm.DB, deleteMode string) *GORMProductRepository {
	return &GORMProductRepository{
		db:         db,
		softDelete: deleteMode == DeleteModeSoft,
	}
}

// CreateWithChildren inserts a product and its rows in one transaction.
// Any failed insert rolls the whole product back.
func (r *GORMProductRepository) CreateWithChildren(ctx context.Context, product *models.Product, images []models.ProductImage, specs []models.ProductSpec) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		for i := range images {
			if err := tx.Create(&images[i]).Error; err != nil {
				return fmt.Errorf("failed to create product image: %w", err)
			}
		}
		for i := range specs {
			if err := tx.Create(&specs[i]).Error; err != nil {
				return fmt.Errorf("failed to create product spec: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert product %s: %w", product.ID, err)
	}
	return nil
}

// RandomID picks one live product id using the store's own random ordering.
func (r *GORMProductRepository) RandomID(ctx context.Context) (string, error) {
	var ids []string
	err := r.live(ctx).
		Order("RANDOM()").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", fmt.Errorf("failed to select random product id: %w", err)
	}
	if len(ids) == 0 {
		return "", ErrNoProducts
	}
	return ids[0], nil
}

// GetDetail loads a product with its images and specs.
func (r *GORMProductRepository) GetDetail(ctx context.Context, id string) (*models.ProductDetail, error) {
	db := r.db.WithContext(ctx)

	var detail models.ProductDetail
	if err := db.Take(&detail.Product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s not found: %w", id, ErrNoProducts)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	if err := db.Where("product_id = ?", id).Find(&detail.Images).Error; err != nil {
		return nil, fmt.Errorf("failed to get images for product %s: %w", id, err)
	}
	if err := db.Where("product_id = ?", id).Find(&detail.Specs).Error; err != nil {
		return nil, fmt.Errorf("failed to get specs for product %s: %w", id, err)
	}
	return &detail, nil
}

// Update applies an allow-listed set of column assignments to one product.
func (r *GORMProductRepository) Update(ctx context.Context, id string, update *FieldUpdate) (int64, error) {
	fields, err := update.Fields()
	if err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update product %s: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes the product row only. Image and spec rows are left in
// place. In soft mode the row is flagged instead.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (int64, error) {
	var res *gorm.DB
	if r.softDelete {
		res = r.live(ctx).Where("id = ?", id).Update("is_deleted", true)
	} else {
		res = r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	}
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// Count returns the number of live products.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.live(ctx).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// CountTable returns the raw row count of a benchmark table.
func (r *GORMProductRepository) CountTable(ctx context.Context, table string) (int64, error) {
	if !isBenchmarkTable(table) {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedTable, table)
	}
	var n int64
	if err := r.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// DumpTable selects every row of table, returning the store-reported column
// names and the raw values in that column order.
func (r *GORMProductRepository) DumpTable(ctx context.Context, table string) ([]string, [][]interface{}, error) {
	if !isBenchmarkTable(table) {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedTable, table)
	}
	rows, err := r.db.WithContext(ctx).Table(table).Rows()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to select from %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	var records [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		records = append(records, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return columns, records, nil
}

func (r *GORMProductRepository) live(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if r.softDelete {
		q = q.Where("is_deleted = ?", false)
	}
	return q
}

func isBenchmarkTable(table string) bool {
	for _, t := range models.RelationalTables {
		if t == table {
			return true
		}
	}
	return false
}
