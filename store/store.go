// Package store holds the JSON document behind the REST router and the
// adapters that persist it.
package store

import (
	"bytes"
	"encoding/json"
	"maps"
)

// Entity is one schema-less record inside a collection. Values are whatever
// encoding/json produces with UseNumber: nil, bool, json.Number, string,
// []any and map[string]any.
type Entity map[string]any

// IDField is the field every entity is addressed by.
const IDField = "id"

// Metadata is the bookkeeping stored next to a collection's data.
type Metadata struct {
	// LastID is the last auto-assigned id. Zero means none was assigned yet.
	LastID int64 `json:"lastId,omitempty"`
}

// Collection is a named group of entities plus its metadata.
type Collection struct {
	Data     []Entity `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Document is the whole backing store: collection name -> collection.
type Document map[string]*Collection

// Adapter loads and saves a Document.
//
// Read is called once when a DB is opened; Write after every mutation.
type Adapter interface {
	// Read returns the persisted document, or an empty one if nothing was
	// persisted yet.
	Read() (Document, error)

	// Write replaces the persisted document.
	Write(doc Document) error

	// Close releases any resource held by the adapter.
	Close() error
}

func (e Entity) clone() Entity {
	if e == nil {
		return nil
	}
	return maps.Clone(e)
}

// decodeDocument parses a serialized document, keeping numbers as json.Number.
// Empty input is an empty document.
func decodeDocument(b []byte) (Document, error) {
	doc := Document{}
	if len(bytes.TrimSpace(b)) == 0 {
		return doc, nil
	}
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	if err := d.Decode(&doc); err != nil {
		return nil, err
	}
	for name, c := range doc {
		if c == nil {
			doc[name] = &Collection{Data: []Entity{}}
			continue
		}
		if c.Data == nil {
			c.Data = []Entity{}
		}
	}
	return doc, nil
}

// deepCopy returns a deep copy of a document by round-tripping through JSON.
func deepCopy(src Document) (Document, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	return decodeDocument(b)
}
