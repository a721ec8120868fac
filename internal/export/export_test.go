package export_test

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"catalogbench/internal/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWriteJSON_RendersNonNativeTypesAsStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mongo_export.json")
	id := primitive.NewObjectID()
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	docs := []bson.D{
		{
			{Key: "_id", Value: id},
			{Key: "name", Value: "widget"},
			{Key: "modifiedAt", Value: primitive.NewDateTimeFromTime(at)},
			{Key: "category", Value: primitive.D{{Key: "id", Value: int32(2)}, {Key: "name", Value: "Graphics Cards"}}},
			{Key: "images", Value: primitive.A{bson.M{"url": "https://example.com/a.png"}}},
		},
		{{Key: "_id", Value: primitive.NewObjectID()}},
	}
	require.NoError(t, export.WriteJSON(path, docs))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))

	require.Len(t, parsed, 2)
	assert.Equal(t, id.Hex(), parsed[0]["_id"])
	assert.Equal(t, "2024-03-01 12:30:00.000000", parsed[0]["modifiedAt"])
	assert.Equal(t, map[string]interface{}{"id": float64(2), "name": "Graphics Cards"}, parsed[0]["category"])
	assert.Equal(t, []interface{}{map[string]interface{}{"url": "https://example.com/a.png"}}, parsed[0]["images"])
}

func TestWriteJSON_KeepsStoredFieldOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mongo_export.json")
	id := primitive.NewObjectID()

	docs := []bson.D{{
		{Key: "_id", Value: id},
		{Key: "name", Value: "widget"},
		{Key: "category", Value: bson.D{{Key: "name", Value: "CPU"}, {Key: "id", Value: int32(3)}}},
		{Key: "price", Value: int32(6826)},
	}}
	require.NoError(t, export.WriteJSON(path, docs))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"_id":"`+id.Hex()+`","name":"widget","category":{"name":"CPU","id":3},"price":6826}]`+"\n",
		string(raw))
}

func TestWriteJSON_EmptyCollectionIsEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, export.WriteJSON(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestWriteJSON_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("this is a much longer stale file body"), 0o644))

	require.NoError(t, export.WriteJSON(path, []bson.D{{{Key: "a", Value: "b"}}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":"b"}]`, string(raw))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	columns := []string{"id", "name", "price", "modified_at", "note", "raw"}
	rows := [][]interface{}{
		{"a1", "desk, oak", 19.99, at, nil, []byte("bytes")},
		{"a2", "lamp", int64(100), at, "x", []byte{}},
	}
	require.NoError(t, export.WriteCSV(path, columns, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, columns, records[0])
	assert.Equal(t, []string{"a1", "desk, oak", "19.99", "2024-03-01T12:30:00Z", "", "bytes"}, records[1])
	assert.Equal(t, "100", records[2][2])
}

func TestWriteCSV_HeaderOnlyForEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, export.WriteCSV(path, []string{"id", "value"}, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,value\n", string(raw))
}

func TestWriteCSV_RejectsRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	err := export.WriteCSV(path, []string{"id", "value"}, [][]interface{}{{"only-one"}})
	assert.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postgres_export.xlsx")
	sheets := []export.Sheet{
		{Name: "products", Columns: []string{"id", "stock"}, Rows: [][]interface{}{{"p1", int64(5)}, {"p2", nil}}},
		{Name: "product_specs", Columns: []string{"id", "value"}},
	}
	require.NoError(t, export.WriteXLSX(path, sheets))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 2)

	products := file.Sheet["products"]
	require.NotNil(t, products)
	assert.Equal(t, "id", products.Cell(0, 0).String())
	assert.Equal(t, "p1", products.Cell(1, 0).String())
	assert.Equal(t, "5", products.Cell(1, 1).String())
	assert.Equal(t, "", products.Cell(2, 1).String())
	assert.Len(t, products.Rows, 3)
}
