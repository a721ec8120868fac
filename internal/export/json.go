// Package export writes store contents to flat files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentTimeLayout is used for dates inside exported documents.
const DocumentTimeLayout = "2006-01-02 15:04:05.000000"

// WriteJSON writes docs to path as one JSON array, replacing any existing
// file. Fields keep their stored order. Values without a JSON form are
// rendered as strings.
func WriteJSON(path string, docs []bson.D) error {
	out := make([]interface{}, len(docs))
	for i, doc := range docs {
		out[i] = NormalizeDocument(doc)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := json.NewEncoder(f).Encode(out); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// NormalizeDocument converts a decoded BSON value into plain JSON values.
func NormalizeDocument(v interface{}) interface{} {
	switch val := v.(type) {
	case nil, bool, string, int32, int64, int, float64:
		return val
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(DocumentTimeLayout)
	case time.Time:
		return val.UTC().Format(DocumentTimeLayout)
	case primitive.Decimal128:
		return val.String()
	case primitive.M:
		return normalizeMap(val)
	case map[string]interface{}:
		return normalizeMap(val)
	case primitive.D:
		doc := make(orderedDocument, len(val))
		for i, e := range val {
			doc[i] = orderedField{Key: e.Key, Value: NormalizeDocument(e.Value)}
		}
		return doc
	case primitive.A:
		return normalizeSlice(val)
	case []interface{}:
		return normalizeSlice(val)
	default:
		return fmt.Sprint(val)
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = NormalizeDocument(v)
	}
	return out
}

func normalizeSlice(s []interface{}) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = NormalizeDocument(v)
	}
	return out
}

type orderedField struct {
	Key   string
	Value interface{}
}

// orderedDocument encodes as a JSON object with its fields in slice order.
type orderedDocument []orderedField

func (d orderedDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
