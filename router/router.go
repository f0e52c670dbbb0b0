// Package router exposes the collections of a JSON document as REST
// resources.
//
// Supported requests:
//
//	GET    /<collection>       list entities
//	GET    /<collection>/<id>  get one entity
//	POST   /<collection>       insert an entity, assigning an id if missing
//	PUT    /<collection>/<id>  merge fields into an entity
//	DELETE /<collection>/<id>  remove an entity
package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/stevemurr/jsonrest/schema"
	"github.com/stevemurr/jsonrest/store"
)

// Config holds the optional router settings.
type Config struct {
	// Prefix is stripped from request paths that start with it. A trailing
	// separator is added when missing.
	Prefix string
	// Adapter selects how the document is persisted: "file" (default),
	// "memory" or "sqlite".
	Adapter string
	// Schemas validates inserted and merged entities per collection.
	Schemas schema.Registry
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Router serves one document.
type Router struct {
	db     *store.DB
	prefix string
	logger *slog.Logger
}

// New opens the document at filePath and returns a Router serving it.
func New(filePath string, cfg Config) (*Router, error) {
	if filePath == "" {
		return nil, &ConfigurationError{Field: "file", Reason: "file path required"}
	}
	db, err := store.Open(cfg.Adapter, filePath)
	if err != nil {
		if errors.Is(err, store.ErrUnknownAdapter) {
			return nil, &ConfigurationError{Field: "adapter", Err: err}
		}
		return nil, err
	}
	return NewWithDB(db, cfg), nil
}

// NewWithDB returns a Router serving an already opened document.
// cfg.Adapter is ignored.
func NewWithDB(db *store.DB, cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Schemas) > 0 {
		db.SetValidator(cfg.Schemas.Check)
	}
	return &Router{db: db, prefix: normalizePrefix(cfg.Prefix), logger: logger}
}

// DB returns the document served by the router.
func (rt *Router) DB() *store.DB {
	return rt.db
}

// Close closes the underlying document store.
func (rt *Router) Close() error {
	return rt.db.Close()
}

// ServeHTTP makes Router an http.Handler. Errors returned by Handle are
// logged and answered with a 500.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := rt.Handle(w, r)
	if err == nil {
		return
	}
	var upe *UnsupportedPathError
	if errors.As(err, &upe) {
		rt.logger.WarnContext(r.Context(), "Unsupported request", "method", upe.Method, "path", upe.Path)
	} else {
		rt.logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	WriteError(w, http.StatusInternalServerError, ErrorCodeInternal, err.Error())
}

// Handle serves one request. Nothing is written to w when an error is
// returned: either *UnsupportedPathError or a storage failure.
func (rt *Router) Handle(w http.ResponseWriter, r *http.Request) error {
	path, segments := splitPath(r.URL.EscapedPath(), rt.prefix)
	collection := segments[0]
	var id store.ID
	if len(segments) > 1 {
		id = store.ParseID(segments[1])
	}

	switch {
	case r.Method == http.MethodGet && len(segments) == 1:
		writeJSON(w, http.StatusOK, rt.db.List(collection))
		return nil
	case r.Method == http.MethodGet && len(segments) == 2:
		e := rt.db.Get(collection, id)
		if e == nil {
			notFound(w)
			return nil
		}
		writeJSON(w, http.StatusOK, e)
		return nil
	case r.Method == http.MethodPost && len(segments) == 1:
		return rt.insert(w, r, collection)
	case r.Method == http.MethodPut && len(segments) == 2:
		return rt.update(w, r, collection, id)
	case r.Method == http.MethodDelete && len(segments) == 2:
		return rt.remove(w, r, collection, id)
	}
	return &UnsupportedPathError{Method: r.Method, Path: path}
}

func (rt *Router) insert(w http.ResponseWriter, r *http.Request, collection string) error {
	body, err := readEntity(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid JSON: "+err.Error())
		return nil
	}
	e, err := rt.db.Insert(collection, body)
	if err != nil {
		return rt.mutationError(w, err)
	}
	rt.logger.DebugContext(r.Context(), "Inserted entity", "collection", collection, "id", e[store.IDField])
	writeJSON(w, http.StatusCreated, e)
	return nil
}

func (rt *Router) update(w http.ResponseWriter, r *http.Request, collection string, id store.ID) error {
	body, err := readEntity(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid JSON: "+err.Error())
		return nil
	}
	e, err := rt.db.Update(collection, id, body)
	if err != nil {
		return rt.mutationError(w, err)
	}
	if e == nil {
		notFound(w)
		return nil
	}
	rt.logger.DebugContext(r.Context(), "Updated entity", "collection", collection, "id", id.String())
	writeJSON(w, http.StatusOK, e)
	return nil
}

func (rt *Router) remove(w http.ResponseWriter, r *http.Request, collection string, id store.ID) error {
	e, err := rt.db.Remove(collection, id)
	if err != nil {
		return err
	}
	if e == nil {
		notFound(w)
		return nil
	}
	rt.logger.DebugContext(r.Context(), "Removed entity", "collection", collection, "id", id.String())
	writeJSON(w, http.StatusOK, e)
	return nil
}

// mutationError answers schema violations with a 422 and hands anything else
// back to the caller.
func (rt *Router) mutationError(w http.ResponseWriter, err error) error {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		WriteError(w, http.StatusUnprocessableEntity, ErrorCodeValidationFailed, "schema validation failed: "+verr.Error())
		return nil
	}
	return err
}
