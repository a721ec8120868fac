package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalogbench/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockDocumentRepository is an in-memory implementation of DocumentRepository.
// FindAny yields documents in insertion order, like a collection scan.
type MockDocumentRepository struct {
	products   map[primitive.ObjectID]models.DocumentProduct
	order      []primitive.ObjectID
	softDelete bool
	mu         sync.RWMutex
}

// NewMockDocumentRepository creates a new instance of MockDocumentRepository.
func NewMockDocumentRepository(deleteMode string) *MockDocumentRepository {
	return &MockDocumentRepository{
		products:   make(map[primitive.ObjectID]models.DocumentProduct),
		softDelete: deleteMode == DeleteModeSoft,
	}
}

// Insert stores a copy of the product.
func (r *MockDocumentRepository) Insert(_ context.Context, product *models.DocumentProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("failed to insert product document: duplicate _id %s", product.ID.Hex())
	}
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// FindAny returns the oldest live document.
func (r *MockDocumentRepository) FindAny(_ context.Context) (*models.DocumentProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		p := r.products[id]
		if r.softDelete && p.IsDeleted {
			continue
		}
		return &p, nil
	}
	return nil, ErrNoProducts
}

// Update applies the assignments that map onto DocumentProduct fields.
func (r *MockDocumentRepository) Update(_ context.Context, id primitive.ObjectID, update *FieldUpdate) (int64, error) {
	fields, err := update.Fields()
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	for name, value := range fields {
		if err := setDocumentField(&p, name, value); err != nil {
			return 0, err
		}
	}
	r.products[id] = p
	return 1, nil
}

// Delete removes the document, or flags it in soft mode.
func (r *MockDocumentRepository) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	if r.softDelete {
		if p.IsDeleted {
			return 0, nil
		}
		p.IsDeleted = true
		r.products[id] = p
		return 1, nil
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

// Count returns the number of live documents.
func (r *MockDocumentRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.products {
		if r.softDelete && p.IsDeleted {
			continue
		}
		n++
	}
	return n, nil
}

// FindAll returns every document decoded the way the driver decodes them.
func (r *MockDocumentRepository) FindAll(_ context.Context) ([]bson.D, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]bson.D, 0, len(r.order))
	for _, id := range r.order {
		raw, err := bson.Marshal(r.products[id])
		if err != nil {
			return nil, fmt.Errorf("failed to encode product document: %w", err)
		}
		var doc bson.D
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode product document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Get returns a stored document by id, flagged ones included.
func (r *MockDocumentRepository) Get(id primitive.ObjectID) (models.DocumentProduct, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	return p, ok
}

func setDocumentField(p *models.DocumentProduct, name string, value interface{}) error {
	var ok bool
	switch name {
	case "name":
		p.Name, ok = value.(string)
	case "description":
		p.Description, ok = value.(string)
	case "price":
		var price float64
		price, ok = value.(float64)
		p.Price = models.DocumentPrice(price)
	case "stock":
		p.Stock, ok = value.(int)
	case "category":
		p.Category, ok = value.(models.Category)
	case "modifiedAt":
		p.ModifiedAt, ok = value.(time.Time)
	case "isDeleted":
		p.IsDeleted, ok = value.(bool)
	case "updated_by":
		p.UpdatedBy, ok = value.(primitive.ObjectID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if !ok {
		return fmt.Errorf("invalid value %v for field %q", value, name)
	}
	return nil
}
