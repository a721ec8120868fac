package models

import "time"

// Product represents a row in the relational products table.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required,uuid"`
	CategoryID  int       `json:"category_id" validate:"gte=1,lte=100"`
	Name        string    `json:"name" validate:"required"`
	Price       float64   `json:"price" gorm:"type:numeric(12,2)" validate:"gte=10,lte=10000"`
	Description string    `json:"description"`
	Stock       int       `json:"stock" validate:"gte=1,lte=100000"`
	ModifiedBy  int       `json:"modified_by" validate:"gte=1,lte=10000"`
	ModifiedAt  time.Time `json:"modified_at" validate:"required"`
	IsDeleted   bool      `json:"is_deleted" gorm:"not null;default:false"`
}

// ProductImage is an image row owned by a Product through ProductID.
type ProductImage struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required,uuid"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);index" validate:"required,uuid"`
	URL       string `json:"url" validate:"required,url"`
	IsDeleted bool   `json:"is_deleted" gorm:"not null;default:false"`
}

// ProductSpec is a spec row owned by a Product through ProductID.
type ProductSpec struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required,uuid"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);index" validate:"required,uuid"`
	SpecID    int    `json:"spec_id" validate:"gte=1,lte=100"`
	Value     string `json:"value" validate:"required"`
}

// ProductDetail is a product read back together with its child rows.
type ProductDetail struct {
	Product Product        `json:"product"`
	Images  []ProductImage `json:"images"`
	Specs   []ProductSpec  `json:"specs"`
}

// Table names used by the relational store and its exporters.
const (
	ProductsTable      = "products"
	ProductImagesTable = "product_images"
	ProductSpecsTable  = "product_specs"
)

// RelationalTables lists every exportable table in export order.
var RelationalTables = []string{ProductsTable, ProductImagesTable, ProductSpecsTable}

func (Product) TableName() string      { return ProductsTable }
func (ProductImage) TableName() string { return ProductImagesTable }
func (ProductSpec) TableName() string  { return ProductSpecsTable }
