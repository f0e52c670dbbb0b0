package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/stevemurr/jsonrest/store"
)

// maxBodyBytes bounds the size of a POST or PUT body.
const maxBodyBytes = 10 << 20

var errNotObject = errors.New("request body must be a JSON object")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the structured error body with the given status.
func WriteError(w http.ResponseWriter, status int, code ErrorCode, msg string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetails{Code: code, Message: msg}})
}

func notFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, ErrorCodeNotFound, "Not found")
}

// readEntity decodes a JSON object body, keeping numbers as json.Number.
func readEntity(w http.ResponseWriter, r *http.Request) (store.Entity, error) {
	defer r.Body.Close()
	d := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	d.UseNumber()
	var e store.Entity
	if err := d.Decode(&e); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNotObject
		}
		return nil, err
	}
	if e == nil {
		return nil, errNotObject
	}
	if d.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	return e, nil
}
