// Package generator produces random product catalog records for the
// document and relational stores.
package generator

import (
	"fmt"
	"time"

	"catalogbench/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ranges for generated values. Insert and reprice ranges differ on purpose:
// a reprice models a markdown on an existing record.
const (
	MinPrice = 100
	MaxPrice = 10000
	MinStock = 100
	MaxStock = 100000

	MinRepricePrice = 10
	MaxRepricePrice = 1000
	MinRestock      = 1
	MaxRestock      = 100

	MinImages = 1
	MaxImages = 10
	MinSpecs  = 2
	MaxSpecs  = 20

	MaxCategoryID = 100
	MaxSpecID     = 100
	MaxModifiedBy = 10000
)

// Reprice is the price/stock pair written by an update.
type Reprice struct {
	Price float64
	Stock int
}

// Generator wraps a faker source. It is not safe for concurrent use.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// New creates a Generator. A zero seed draws from a random source.
func New(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// DocumentProduct builds a product with embedded images and specs.
func (g *Generator) DocumentProduct() *models.DocumentProduct {
	category := models.Categories[g.faker.IntRange(0, len(models.Categories)-1)]

	images := make([]models.DocumentImage, g.faker.IntRange(MinImages, MaxImages))
	for i := range images {
		images[i] = models.DocumentImage{URL: g.imageURL()}
	}
	specs := make([]models.DocumentSpec, g.faker.IntRange(MinSpecs, MaxSpecs))
	for i := range specs {
		specs[i] = models.DocumentSpec{Name: g.faker.Word(), Value: g.faker.Word()}
	}

	return &models.DocumentProduct{
		ID:          primitive.NewObjectID(),
		Name:        g.faker.Word(),
		Category:    category,
		Price:       models.DocumentPrice(g.faker.IntRange(MinPrice, MaxPrice)),
		Description: g.faker.Word(),
		Stock:       g.faker.IntRange(MinStock, MaxStock),
		Images:      images,
		Specs:       specs,
		ModifiedAt:  g.now().UTC(),
		CreatedBy:   primitive.NewObjectID(),
		UpdatedBy:   primitive.NewObjectID(),
		IsDeleted:   false,
	}
}

// Product builds a relational product row with a fresh UUID.
func (g *Generator) Product() *models.Product {
	return &models.Product{
		ID:          uuid.New().String(),
		CategoryID:  g.faker.IntRange(1, MaxCategoryID),
		Name:        g.faker.Word(),
		Price:       float64(g.faker.IntRange(MinPrice, MaxPrice)),
		Description: g.faker.Word(),
		Stock:       g.faker.IntRange(MinStock, MaxStock),
		ModifiedBy:  g.faker.IntRange(1, MaxModifiedBy),
		ModifiedAt:  g.now().UTC(),
		IsDeleted:   false,
	}
}

// ProductImage builds one image row for productID. The parent is not checked.
func (g *Generator) ProductImage(productID string) models.ProductImage {
	return models.ProductImage{
		ID:        uuid.New().String(),
		ProductID: productID,
		URL:       g.imageURL(),
	}
}

// ProductSpec builds one spec row for productID. The parent is not checked.
func (g *Generator) ProductSpec(productID string) models.ProductSpec {
	return models.ProductSpec{
		ID:        uuid.New().String(),
		ProductID: productID,
		SpecID:    g.faker.IntRange(1, MaxSpecID),
		Value:     g.faker.Word(),
	}
}

// Images builds between MinImages and MaxImages image rows for productID.
func (g *Generator) Images(productID string) []models.ProductImage {
	images := make([]models.ProductImage, g.faker.IntRange(MinImages, MaxImages))
	for i := range images {
		images[i] = g.ProductImage(productID)
	}
	return images
}

// Specs builds between MinSpecs and MaxSpecs spec rows for productID.
func (g *Generator) Specs(productID string) []models.ProductSpec {
	specs := make([]models.ProductSpec, g.faker.IntRange(MinSpecs, MaxSpecs))
	for i := range specs {
		specs[i] = g.ProductSpec(productID)
	}
	return specs
}

// Reprice draws the values written by an update. Price is rounded to cents.
func (g *Generator) Reprice() Reprice {
	raw := g.faker.Float64Range(MinRepricePrice, MaxRepricePrice)
	price, _ := decimal.NewFromFloat(raw).Round(2).Float64()
	return Reprice{
		Price: price,
		Stock: g.faker.IntRange(MinRestock, MaxRestock),
	}
}

func (g *Generator) imageURL() string {
	return fmt.Sprintf("https://picsum.photos/%d/%d?image=%d",
		g.faker.IntRange(200, 1024), g.faker.IntRange(200, 1024), g.faker.IntRange(0, 1000))
}
