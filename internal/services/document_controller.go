package services

import (
	"context"
	"errors"
	"fmt"

	"catalogbench/internal/export"
	"catalogbench/internal/generator"
	"catalogbench/internal/models"
	"catalogbench/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DocumentController runs CRUD and export against the document store.
type DocumentController struct {
	repo     repositories.DocumentRepository
	gen      *generator.Generator
	validate *validator.Validate
	log      *zap.Logger
}

// NewDocumentController creates a new DocumentController.
func NewDocumentController(repo repositories.DocumentRepository, gen *generator.Generator, log *zap.Logger) *DocumentController {
	return &DocumentController{
		repo:     repo,
		gen:      gen,
		validate: validator.New(),
		log:      log,
	}
}

// InsertProduct generates one product and writes it as a document.
func (c *DocumentController) InsertProduct(ctx context.Context) (*models.DocumentProduct, error) {
	product := c.gen.DocumentProduct()
	if err := c.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("generated document product is invalid: %w", err)
	}
	if err := c.repo.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ReadProduct returns an arbitrary document, or nil when the collection is empty.
func (c *DocumentController) ReadProduct(ctx context.Context) (*models.DocumentProduct, error) {
	product, err := c.repo.FindAny(ctx)
	if errors.Is(err, repositories.ErrNoProducts) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct reprices an arbitrary document. It only writes price and
// stock and returns the number of matched documents.
func (c *DocumentController) UpdateProduct(ctx context.Context) (int64, error) {
	product, err := c.ReadProduct(ctx)
	if err != nil || product == nil {
		return 0, err
	}
	r := c.gen.Reprice()
	update := repositories.NewDocumentUpdate().
		Set("price", r.Price).
		Set("stock", r.Stock)
	return c.repo.Update(ctx, product.ID, update)
}

// DeleteProduct removes an arbitrary document by id.
func (c *DocumentController) DeleteProduct(ctx context.Context) (int64, error) {
	product, err := c.ReadProduct(ctx)
	if err != nil || product == nil {
		return 0, err
	}
	return c.repo.Delete(ctx, product.ID)
}

// CRUDAll runs insert, read, update and delete once, in that order. The
// steps are independent; the first failure stops the cycle.
func (c *DocumentController) CRUDAll(ctx context.Context) error {
	if _, err := c.InsertProduct(ctx); err != nil {
		return fmt.Errorf("document insert: %w", err)
	}
	if _, err := c.ReadProduct(ctx); err != nil {
		return fmt.Errorf("document read: %w", err)
	}
	if _, err := c.UpdateProduct(ctx); err != nil {
		return fmt.Errorf("document update: %w", err)
	}
	if _, err := c.DeleteProduct(ctx); err != nil {
		return fmt.Errorf("document delete: %w", err)
	}
	return nil
}

// ExportCollectionToJSON dumps the whole collection to path as a JSON array
// and returns the number of documents written.
func (c *DocumentController) ExportCollectionToJSON(ctx context.Context, path string) (int, error) {
	docs, err := c.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.WriteJSON(path, docs); err != nil {
		return 0, err
	}
	c.log.Info("Exported document collection",
		zap.String("file", path),
		zap.Int("documents", len(docs)),
	)
	return len(docs), nil
}
