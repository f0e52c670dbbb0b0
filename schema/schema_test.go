package schema_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/jsonrest/schema"
	"github.com/stevemurr/jsonrest/store"
)

func TestValidateNilSchema(t *testing.T) {
	assert.NoError(t, schema.Validate(nil, map[string]any{"anything": "goes"}))
}

func TestValidate(t *testing.T) {
	user := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string", "minLength": float64(2), "maxLength": float64(5)},
			"age":   map[string]any{"type": "integer", "minimum": json.Number("0"), "maximum": float64(150)},
			"score": map[string]any{"type": "number", "exclusiveMinimum": float64(0), "exclusiveMaximum": float64(1)},
			"role":  map[string]any{"type": "string", "enum": []any{"admin", "user"}},
			"level": map[string]any{"enum": []any{json.Number("1"), json.Number("2")}},
			"tags": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": float64(1),
				"maxItems": float64(2),
			},
			"address": map[string]any{
				"type":       "object",
				"properties": map[string]any{"city": map[string]any{"type": "string"}},
				"required":   []any{"city"},
			},
		},
		"required": []any{"name"},
	}
	strict := map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"name": map[string]any{"type": "string"}},
		"additionalProperties": false,
	}

	tests := []struct {
		name   string
		schema map[string]any
		entity map[string]any
		path   string
	}{
		{"valid", user, map[string]any{"name": "Bob", "age": json.Number("30")}, ""},
		{"missing required", user, map[string]any{"age": json.Number("30")}, "$"},
		{"wrong type", user, map[string]any{"name": json.Number("123")}, "$.name"},
		{"too short", user, map[string]any{"name": "A"}, "$.name"},
		{"too long", user, map[string]any{"name": "ABCDEF"}, "$.name"},
		{"runes counted", user, map[string]any{"name": "éé"}, ""},
		{"integer as float", user, map[string]any{"name": "Bob", "age": float64(5)}, ""},
		{"fractional integer", user, map[string]any{"name": "Bob", "age": json.Number("5.5")}, "$.age"},
		{"below minimum", user, map[string]any{"name": "Bob", "age": json.Number("-1")}, "$.age"},
		{"above maximum", user, map[string]any{"name": "Bob", "age": json.Number("151")}, "$.age"},
		{"exclusive bound", user, map[string]any{"name": "Bob", "score": json.Number("1")}, "$.score"},
		{"in exclusive range", user, map[string]any{"name": "Bob", "score": json.Number("0.5")}, ""},
		{"enum", user, map[string]any{"name": "Bob", "role": "admin"}, ""},
		{"not in enum", user, map[string]any{"name": "Bob", "role": "root"}, "$.role"},
		{"numeric enum", user, map[string]any{"name": "Bob", "level": float64(2)}, ""},
		{"empty array", user, map[string]any{"name": "Bob", "tags": []any{}}, "$.tags"},
		{"too many items", user, map[string]any{"name": "Bob", "tags": []any{"a", "b", "c"}}, "$.tags"},
		{"wrong item type", user, map[string]any{"name": "Bob", "tags": []any{"a", json.Number("1")}}, "$.tags[1]"},
		{"nested required", user, map[string]any{"name": "Bob", "address": map[string]any{}}, "$.address"},
		{"nested valid", user, map[string]any{"name": "Bob", "address": map[string]any{"city": "NY"}}, ""},
		{"additional properties", strict, map[string]any{"name": "ok", "extra": "bad"}, "$"},
		{"no additional properties", strict, map[string]any{"name": "ok"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := schema.Validate(tc.schema, tc.entity)
			if tc.path == "" {
				assert.NoError(t, err)
				return
			}
			var verr *schema.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tc.path, verr.Path)
		})
	}
}

func TestRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"users": {"type": "object", "required": ["name"], "properties": {"age": {"type": "integer", "minimum": 0}}}
	}`), 0o644))

	r, err := schema.LoadRegistry(path)
	require.NoError(t, err)

	assert.NoError(t, r.Check("users", store.Entity{"name": "a", "age": json.Number("3")}))
	assert.Error(t, r.Check("users", store.Entity{"age": json.Number("3")}))
	assert.Error(t, r.Check("users", store.Entity{"name": "a", "age": json.Number("-3")}))
	assert.NoError(t, r.Check("tasks", store.Entity{}), "collections without schema accept anything")

	var fn store.ValidateFunc = r.Check
	assert.NotNil(t, fn)
}

func TestLoadRegistryErrors(t *testing.T) {
	_, err := schema.LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0o644))
	_, err = schema.LoadRegistry(path)
	assert.Error(t, err)
}

func TestDocumentSchema(t *testing.T) {
	s := schema.DocumentSchema()
	assert.Equal(t, "object", s.Type)
	require.NotNil(t, s.AdditionalProperties)
	_, ok := s.AdditionalProperties.Properties.Get("data")
	assert.True(t, ok)
	_, ok = s.AdditionalProperties.Properties.Get("metadata")
	assert.True(t, ok)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), "lastId")
}
