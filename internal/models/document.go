package models

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the category embedded in a DocumentProduct.
type Category struct {
	ID   int    `json:"id" bson:"id" validate:"gte=1,lte=5"`
	Name string `json:"name" bson:"name" validate:"required"`
}

// Categories is the fixed set a document product is assigned from.
var Categories = []Category{
	{ID: 1, Name: "Laptops"},
	{ID: 2, Name: "Graphics Cards"},
	{ID: 3, Name: "CPU"},
	{ID: 4, Name: "Motherboards"},
	{ID: 5, Name: "Storage Devices"},
}

type DocumentImage struct {
	URL string `json:"url" bson:"url" validate:"required,url"`
}

type DocumentSpec struct {
	Name  string `json:"name" bson:"name" validate:"required"`
	Value string `json:"value" bson:"value" validate:"required"`
}

// DocumentProduct is a product stored as one self-contained document with
// its images and specs embedded.
type DocumentProduct struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Category    Category           `json:"category" bson:"category"`
	Price       DocumentPrice      `json:"price" bson:"price" validate:"gte=10,lte=10000"`
	Description string             `json:"description" bson:"description"`
	Stock       int                `json:"stock" bson:"stock" validate:"gte=1,lte=100000"`
	Images      []DocumentImage    `json:"images" bson:"images" validate:"min=1,max=10,dive"`
	Specs       []DocumentSpec     `json:"specs" bson:"specs" validate:"min=2,max=20,dive"`
	ModifiedAt  time.Time          `json:"modifiedAt" bson:"modifiedAt" validate:"required"`
	CreatedBy   primitive.ObjectID `json:"created_by" bson:"created_by"`
	UpdatedBy   primitive.ObjectID `json:"updated_by" bson:"updated_by"`
	IsDeleted   bool               `json:"isDeleted" bson:"isDeleted"`
}

// DocumentPrice is stored as an int32 while it is a whole number and as a
// double once it carries cents.
type DocumentPrice float64

func (p DocumentPrice) MarshalBSONValue() (bsontype.Type, []byte, error) {
	f := float64(p)
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		return bson.MarshalValue(int32(f))
	}
	return bson.MarshalValue(f)
}

func (p *DocumentPrice) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		*p = DocumentPrice(rv.Int32())
	case bsontype.Int64:
		*p = DocumentPrice(rv.Int64())
	case bsontype.Double:
		*p = DocumentPrice(rv.Double())
	case bsontype.Null:
		*p = 0
	default:
		return fmt.Errorf("cannot decode BSON %s into price", t)
	}
	return nil
}
