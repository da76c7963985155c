// Package api exposes the objectstore facade over HTTP using chi.
//
// Containers live under /containers/{container}; objects under
// /containers/{container}/objects/*, where the wildcard keeps slashes
// in object names. Object metadata travels in X-Meta-* headers,
// checksums in ETag.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// metaHeaderPrefix marks request/response headers carrying metadata
// entries.
const metaHeaderPrefix = "X-Meta-"

// Router assembles the full API router over the given store.
func Router(store objectstore.Store) chi.Router {
	r := chi.NewRouter()
	r.Mount("/containers", NewContainerHandler(store).Routes())
	return r
}

type errResponse struct {
	Error string `json:"error"`
}

// writeError maps facade errors onto HTTP status codes. Driver errors
// surface as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, objectstore.ErrInvalidContainerRef):
		status = http.StatusBadRequest
	case errors.Is(err, objectstore.ErrContainerExists):
		status = http.StatusConflict
	case errors.Is(err, objectstore.ErrContainerNotFound),
		errors.Is(err, objectstore.ErrObjectNotFound):
		status = http.StatusNotFound
	}

	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: err.Error()})
}

// metadataFromHeaders collects X-Meta-* request headers into a
// metadata mapping. Keys are lowercased.
func metadataFromHeaders(h http.Header) objectstore.Metadata {
	md := objectstore.Metadata{}
	for key, values := range h {
		if !strings.HasPrefix(key, metaHeaderPrefix) || len(values) == 0 {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, metaHeaderPrefix))
		md[name] = values[0]
	}
	return md
}

// metadataToHeaders writes metadata entries as X-Meta-* response
// headers.
func metadataToHeaders(w http.ResponseWriter, md objectstore.Metadata) {
	for k, v := range md {
		w.Header().Set(metaHeaderPrefix+k, v)
	}
}
