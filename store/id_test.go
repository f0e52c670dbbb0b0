package store_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stevemurr/jsonrest/store"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		raw   string
		isNum bool
		value any
	}{
		{"1", true, json.Number("1")},
		{"042", true, json.Number("42")},
		{"1.5", true, json.Number("1.5")},
		{"-3", true, json.Number("-3")},
		{"1e3", true, json.Number("1000")},
		{"abc", false, "abc"},
		{"12abc", false, "12abc"},
		{"", false, ""},
		{"Inf", false, "Inf"},
		{"NaN", false, "NaN"},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			id := store.ParseID(tc.raw)
			assert.Equal(t, tc.isNum, id.IsNumber())
			assert.Equal(t, tc.value, id.Value())
		})
	}
}

func TestIDEqual(t *testing.T) {
	assert.True(t, store.ParseID("1").Equal(store.NumberID(1)))
	assert.True(t, store.ParseID("1.0").Equal(store.ParseID("1")))
	assert.True(t, store.ParseID("a").Equal(store.ParseID("a")))
	assert.False(t, store.ParseID("a").Equal(store.ParseID("b")))
	assert.False(t, store.ParseID("1").Equal(store.ParseID("2")))
}

func TestIDOf(t *testing.T) {
	for _, e := range []store.Entity{
		{"id": json.Number("7")},
		{"id": "7"},
		{"id": float64(7)},
		{"id": 7},
		{"id": int64(7)},
	} {
		id, ok := store.IDOf(e)
		assert.True(t, ok, "%#v", e)
		assert.True(t, id.Equal(store.NumberID(7)), "%#v", e)
	}

	_, ok := store.IDOf(store.Entity{"name": "x"})
	assert.False(t, ok)
	_, ok = store.IDOf(store.Entity{"id": []any{1}})
	assert.False(t, ok)

	id, ok := store.IDOf(store.Entity{"id": "abc"})
	assert.True(t, ok)
	assert.Equal(t, "abc", id.String())
}
