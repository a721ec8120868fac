package repositories

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoProducts is returned when an operation needs an existing product
	// and the store holds none.
	ErrNoProducts = errors.New("no products in store")
	// ErrUnknownField is returned when an update names a field outside the
	// allow-list of its store.
	ErrUnknownField = errors.New("unknown update field")
	// ErrEmptyUpdate is returned when an update names no fields.
	ErrEmptyUpdate = errors.New("update has no fields")
)

var productUpdateFields = map[string]bool{
	"category_id": true,
	"name":        true,
	"price":       true,
	"description": true,
	"stock":       true,
	"modified_by": true,
	"modified_at": true,
	"is_deleted":  true,
}

var documentUpdateFields = map[string]bool{
	"name":        true,
	"description": true,
	"price":       true,
	"stock":       true,
	"category":    true,
	"modifiedAt":  true,
	"updated_by":  true,
	"isDeleted":   true,
}

// FieldUpdate is a set of field assignments checked against a fixed
// allow-list. Field names never reach a statement unless they are allowed,
// and values are always bound as parameters.
type FieldUpdate struct {
	allowed map[string]bool
	fields  map[string]interface{}
	err     error
}

// NewProductUpdate starts an update of relational product columns.
func NewProductUpdate() *FieldUpdate {
	return &FieldUpdate{allowed: productUpdateFields, fields: make(map[string]interface{})}
}

// NewDocumentUpdate starts an update of document product fields.
func NewDocumentUpdate() *FieldUpdate {
	return &FieldUpdate{allowed: documentUpdateFields, fields: make(map[string]interface{})}
}

// Set assigns value to field. The first disallowed field is remembered and
// reported by Fields.
func (u *FieldUpdate) Set(field string, value interface{}) *FieldUpdate {
	if u.err != nil {
		return u
	}
	if !u.allowed[field] {
		u.err = fmt.Errorf("%w: %q", ErrUnknownField, field)
		return u
	}
	u.fields[field] = value
	return u
}

// Fields returns a copy of the validated assignments.
func (u *FieldUpdate) Fields() (map[string]interface{}, error) {
	if u.err != nil {
		return nil, u.err
	}
	if len(u.fields) == 0 {
		return nil, ErrEmptyUpdate
	}
	out := make(map[string]interface{}, len(u.fields))
	for k, v := range u.fields {
		out[k] = v
	}
	return out, nil
}

// Names returns the assigned field names in sorted order.
func (u *FieldUpdate) Names() []string {
	names := make([]string, 0, len(u.fields))
	for k := range u.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
