package schema

import (
	"github.com/invopop/jsonschema"

	"github.com/stevemurr/jsonrest/store"
)

// collectionLayout mirrors store.Collection with documentation for the
// reflected schema.
type collectionLayout struct {
	Data     []map[string]any `json:"data" jsonschema:"description=Entities in insertion order. Each one carries an id (string or number)."`
	Metadata store.Metadata   `json:"metadata" jsonschema:"description=Collection bookkeeping."`
}

// DocumentSchema returns the JSON Schema of the file written by the file
// adapter: an object mapping collection names to collections.
func DocumentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	s := r.Reflect(map[string]collectionLayout{})
	s.Title = "jsonrest document"
	return s
}
