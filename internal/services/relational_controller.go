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

// RelationalController runs CRUD and export against the relational store.
type RelationalController struct {
	repo     repositories.ProductRepository
	gen      *generator.Generator
	validate *validator.Validate
	log      *zap.Logger
}

// NewRelationalController creates a new RelationalController.
func NewRelationalController(repo repositories.ProductRepository, gen *generator.Generator, log *zap.Logger) *RelationalController {
	return &RelationalController{
		repo:     repo,
		gen:      gen,
		validate: validator.New(),
		log:      log,
	}
}

// InsertProduct writes one product with 1-10 images and 2-20 specs in a
// single transaction and returns what was written.
func (c *RelationalController) InsertProduct(ctx context.Context) (*models.ProductDetail, error) {
	product := c.gen.Product()
	detail := &models.ProductDetail{
		Images: c.gen.Images(product.ID),
		Specs:  c.gen.Specs(product.ID),
	}
	if err := c.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("generated product is invalid: %w", err)
	}
	for _, img := range detail.Images {
		if err := c.validate.Struct(img); err != nil {
			return nil, fmt.Errorf("generated product image is invalid: %w", err)
		}
	}
	for _, spec := range detail.Specs {
		if err := c.validate.Struct(spec); err != nil {
			return nil, fmt.Errorf("generated product spec is invalid: %w", err)
		}
	}

	if err := c.repo.CreateWithChildren(ctx, product, detail.Images, detail.Specs); err != nil {
		return nil, err
	}
	detail.Product = *product
	return detail, nil
}

// GetRandomProductID picks a product id uniformly at random. ok is false
// when there are no products.
func (c *RelationalController) GetRandomProductID(ctx context.Context) (id string, ok bool, err error) {
	id, err = c.repo.RandomID(ctx)
	if errors.Is(err, repositories.ErrNoProducts) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// ReadProduct loads a random product with its images and specs, or nil when
// there are no products.
func (c *RelationalController) ReadProduct(ctx context.Context) (*models.ProductDetail, error) {
	id, ok, err := c.GetRandomProductID(ctx)
	if err != nil || !ok {
		return nil, err
	}
	detail, err := c.repo.GetDetail(ctx, id)
	if errors.Is(err, repositories.ErrNoProducts) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateProduct reprices a random product and returns rows affected.
func (c *RelationalController) UpdateProduct(ctx context.Context) (int64, error) {
	id, ok, err := c.GetRandomProductID(ctx)
	if err != nil || !ok {
		return 0, err
	}
	r := c.gen.Reprice()
	update := repositories.NewProductUpdate().
		Set("price", r.Price).
		Set("stock", r.Stock)
	return c.repo.Update(ctx, id, update)
}

// DeleteProduct deletes a random product row and returns rows affected.
// Its image and spec rows are not touched.
func (c *RelationalController) DeleteProduct(ctx context.Context) (int64, error) {
	id, ok, err := c.GetRandomProductID(ctx)
	if err != nil || !ok {
		return 0, err
	}
	return c.repo.Delete(ctx, id)
}

// CRUDAll runs insert, read, update and delete once, in that order.
func (c *RelationalController) CRUDAll(ctx context.Context) error {
	if _, err := c.InsertProduct(ctx); err != nil {
		return fmt.Errorf("relational insert: %w", err)
	}
	if _, err := c.ReadProduct(ctx); err != nil {
		return fmt.Errorf("relational read: %w", err)
	}
	if _, err := c.UpdateProduct(ctx); err != nil {
		return fmt.Errorf("relational update: %w", err)
	}
	if _, err := c.DeleteProduct(ctx); err != nil {
		return fmt.Errorf("relational delete: %w", err)
	}
	return nil
}

// ExportTableToCSV writes table to path and returns the number of data rows.
func (c *RelationalController) ExportTableToCSV(ctx context.Context, table, path string) (int, error) {
	columns, rows, err := c.repo.DumpTable(ctx, table)
	if err != nil {
		return 0, err
	}
	if err := export.WriteCSV(path, columns, rows); err != nil {
		return 0, err
	}
	c.log.Info("Exported table",
		zap.String("table", table),
		zap.String("file", path),
		zap.Int("rows", len(rows)),
	)
	return len(rows), nil
}

// ExportTablesToXLSX writes one sheet per table into a workbook at path.
func (c *RelationalController) ExportTablesToXLSX(ctx context.Context, path string, tables ...string) error {
	sheets := make([]export.Sheet, 0, len(tables))
	for _, table := range tables {
		columns, rows, err := c.repo.DumpTable(ctx, table)
		if err != nil {
			return err
		}
		sheets = append(sheets, export.Sheet{Name: table, Columns: columns, Rows: rows})
	}
	if err := export.WriteXLSX(path, sheets); err != nil {
		return err
	}
	c.log.Info("Exported workbook", zap.String("file", path), zap.Strings("tables", tables))
	return nil
}
