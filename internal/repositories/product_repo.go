package repositories

import (
	"context"

	"catalogbench/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delete modes shared by both stores.
const (
	DeleteModeHard = "hard"
	DeleteModeSoft = "soft"
)

// ProductRepository defines relational data access for products and their
// image and spec rows.
type ProductRepository interface {
	CreateWithChildren(ctx context.Context, product *models.Product, images []models.ProductImage, specs []models.ProductSpec) error
	RandomID(ctx context.Context) (string, error)
	GetDetail(ctx context.Context, id string) (*models.ProductDetail, error)
	Update(ctx context.Context, id string, update *FieldUpdate) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountTable(ctx context.Context, table string) (int64, error)
	DumpTable(ctx context.Context, table string) ([]string, [][]interface{}, error)
}

// DocumentRepository defines document-store access for products.
type DocumentRepository interface {
	Insert(ctx context.Context, product *models.DocumentProduct) error
	FindAny(ctx context.Context) (*models.DocumentProduct, error)
	Update(ctx context.Context, id primitive.ObjectID, update *FieldUpdate) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
	FindAll(ctx context.Context) ([]bson.D, error)
}
