package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalogbench/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProductRepository is a MongoDB implementation of DocumentRepository.
type MongoProductRepository struct {
	collection *mongo.Collection
	softDelete bool
}

// NewMongoProductRepository creates a repository over the given collection.
func NewMongoProductRepository(collection *mongo.Collection, deleteMode string) *MongoProductRepository {
	return &MongoProductRepository{
		collection: collection,
		softDelete: deleteMode == DeleteModeSoft,
	}
}

// Insert writes the product as a single document.
func (r *MongoProductRepository) Insert(ctx context.Context, product *models.DocumentProduct) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product document: %w", err)
	}
	return nil
}

// FindAny returns whichever live document the server yields first.
func (r *MongoProductRepository) FindAny(ctx context.Context) (*models.DocumentProduct, error) {
	var product models.DocumentProduct
	err := r.collection.FindOne(ctx, r.liveFilter()).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoProducts
		}
		return nil, fmt.Errorf("failed to find product document: %w", err)
	}
	return &product, nil
}

// Update applies an allow-listed $set to one document and returns the
// number of matched documents.
func (r *MongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, update *FieldUpdate) (int64, error) {
	fields, err := update.Fields()
	if err != nil {
		return 0, err
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return 0, fmt.Errorf("failed to update product document %s: %w", id.Hex(), err)
	}
	return res.MatchedCount, nil
}

// Delete removes one document by id, or flags it in soft mode.
func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if r.softDelete {
		res, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": id, "isDeleted": false},
			bson.M{"$set": bson.M{"isDeleted": true}})
		if err != nil {
			return 0, fmt.Errorf("failed to flag product document %s: %w", id.Hex(), err)
		}
		return res.ModifiedCount, nil
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete product document %s: %w", id.Hex(), err)
	}
	return res.DeletedCount, nil
}

// Count returns the number of live documents.
func (r *MongoProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, r.liveFilter())
	if err != nil {
		return 0, fmt.Errorf("failed to count product documents: %w", err)
	}
	return n, nil
}

// FindAll loads every document in the collection, flagged ones included,
// with fields in stored order.
func (r *MongoProductRepository) FindAll(ctx context.Context) ([]bson.D, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query product documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []bson.D{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode product documents: %w", err)
	}
	return docs, nil
}

func (r *MongoProductRepository) liveFilter() bson.M {
	if r.softDelete {
		return bson.M{"isDeleted": false}
	}
	return bson.M{}
}
