package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// ObjectHandler handles object-level API endpoints under a container.
type ObjectHandler struct {
	store objectstore.Store
}

// NewObjectHandler creates an object handler over the store.
func NewObjectHandler(store objectstore.Store) *ObjectHandler {
	return &ObjectHandler{store: store}
}

// objectName extracts the object name from the route wildcard, which
// keeps slashes in object names.
func objectName(r *http.Request) string {
	return chi.URLParam(r, "*")
}

// HeadObject reports object existence, with metadata and checksum
// headers when present.
func (h *ObjectHandler) HeadObject(w http.ResponseWriter, r *http.Request) {
	container := chi.URLParam(r, "container")

	object, err := h.store.GetObject(r.Context(), objectstore.ByName(container), objectName(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if object == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	metadataToHeaders(w, object.Metadata)
	if checksum, err := h.store.ObjectChecksum(r.Context(), object); err == nil && checksum != "" {
		w.Header().Set("ETag", `"`+checksum+`"`)
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetObject streams the object content with metadata headers and the
// driver checksum as ETag.
func (h *ObjectHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	container := chi.URLParam(r, "container")

	object, err := h.store.GetObject(r.Context(), objectstore.ByName(container), objectName(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if object == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errResponse{Error: "object not found"})
		return
	}

	file, err := h.store.ObjectFile(r.Context(), object)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	metadataToHeaders(w, object.Metadata)
	if checksum, err := h.store.ObjectChecksum(r.Context(), object); err == nil && checksum != "" {
		w.Header().Set("ETag", `"`+checksum+`"`)
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, file)
}

// PutObject writes or copies an object.
//
// With an X-Copy-From header of the form "container/object" the source
// is copied server-side and the request body is ignored. Otherwise the
// body becomes the object content; an empty body updates metadata
// only. Metadata comes from X-Meta-* headers, the expected checksum
// from X-Checksum.
func (h *ObjectHandler) PutObject(w http.ResponseWriter, r *http.Request) {
	container := objectstore.NewContainer(chi.URLParam(r, "container"))
	name := objectName(r)

	if copyFrom := r.Header.Get("X-Copy-From"); copyFrom != "" {
		h.copyObject(w, r, container, name, copyFrom)
		return
	}

	object := objectstore.NewObject(container, name)
	object.Metadata = metadataFromHeaders(r.Header)

	var content io.Reader
	if r.ContentLength != 0 {
		content = r.Body
	}

	if err := h.store.UpdateObject(r.Context(), object, content, r.Header.Get("X-Checksum")); err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ObjectResponse{Name: object.Name, Metadata: object.Metadata})
}

func (h *ObjectHandler) copyObject(w http.ResponseWriter, r *http.Request, dst *objectstore.Container, name, copyFrom string) {
	srcContainer, srcName, ok := strings.Cut(strings.TrimPrefix(copyFrom, "/"), "/")
	if !ok || srcContainer == "" || srcName == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResponse{Error: "invalid X-Copy-From, want container/object"})
		return
	}

	src := objectstore.NewObject(objectstore.NewContainer(srcContainer), srcName)
	object, err := h.store.CopyObject(r.Context(), src, dst, name, metadataFromHeaders(r.Header))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ObjectResponse{Name: object.Name, Metadata: object.Metadata})
}

// TouchObject refreshes the object's backend timestamp.
func (h *ObjectHandler) TouchObject(w http.ResponseWriter, r *http.Request) {
	container := objectstore.NewContainer(chi.URLParam(r, "container"))
	object := objectstore.NewObject(container, objectName(r))

	if err := h.store.TouchObject(r.Context(), object); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveObject removes the object.
func (h *ObjectHandler) RemoveObject(w http.ResponseWriter, r *http.Request) {
	container := objectstore.NewContainer(chi.URLParam(r, "container"))
	object := objectstore.NewObject(container, objectName(r))

	if err := h.store.RemoveObject(r.Context(), object); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
