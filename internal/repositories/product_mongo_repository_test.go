package repositories_test

import (
	"context"
	"testing"

	"catalogbench/internal/generator"
	"catalogbench/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert assigns id", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		product := generator.New(1).DocumentProduct()
		product.ID = primitive.NilObjectID
		require.NoError(mt, repo.Insert(ctx, product))
		assert.False(mt, product.ID.IsZero())
	})

	mt.Run("insert propagates write errors", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Insert(ctx, generator.New(1).DocumentProduct())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to insert product document")
	})

	mt.Run("find any decodes document", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "widget"},
			{Key: "price", Value: 250.0},
			{Key: "stock", Value: 12},
			{Key: "category", Value: bson.D{{Key: "id", Value: 3}, {Key: "name", Value: "CPU"}}},
		}))

		product, err := repo.FindAny(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, id, product.ID)
		assert.Equal(mt, "widget", product.Name)
		assert.Equal(mt, 12, product.Stock)
		assert.Equal(mt, "CPU", product.Category.Name)
	})

	mt.Run("find any on empty collection", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.FindAny(ctx)
		assert.ErrorIs(mt, err, repositories.ErrNoProducts)
	})

	mt.Run("update reports matched count", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		n, err := repo.Update(ctx, primitive.NewObjectID(), repositories.NewDocumentUpdate().Set("price", 12.34).Set("stock", 4))
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), n)
	})

	mt.Run("update rejects unknown field before reaching server", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)

		_, err := repo.Update(ctx, primitive.NewObjectID(), repositories.NewDocumentUpdate().Set("$where", "1"))
		assert.ErrorIs(mt, err, repositories.ErrUnknownField)
	})

	mt.Run("hard delete", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		n, err := repo.Delete(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), n)
	})

	mt.Run("soft delete flags document", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeSoft)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		n, err := repo.Delete(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), n)
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "n", Value: int32(3)},
		}))

		n, err := repo.Count(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})

	mt.Run("find all", func(mt *mtest.T) {
		repo := repositories.NewMongoProductRepository(mt.Coll, repositories.DeleteModeHard)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "a"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "b"}},
		))

		docs, err := repo.FindAll(ctx)
		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		assert.Equal(mt, bson.E{Key: "name", Value: "a"}, docs[0][1])
		assert.Equal(mt, bson.E{Key: "name", Value: "b"}, docs[1][1])
	})
}
