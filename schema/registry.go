package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/stevemurr/jsonrest/store"
)

// Registry maps a collection name to the JSON Schema its entities must
// satisfy. Collections without a schema accept anything.
type Registry map[string]map[string]any

// LoadRegistry reads a JSON file of the form {"<collection>": <schema>, ...}.
func LoadRegistry(path string) (Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	var r Registry
	if err := d.Decode(&r); err != nil {
		return nil, fmt.Errorf("invalid schema file %s: %w", path, err)
	}
	return r, nil
}

// Check validates e against the schema registered for collection. It has the
// signature of store.ValidateFunc.
func (r Registry) Check(collection string, e store.Entity) error {
	return Validate(r[collection], e)
}
