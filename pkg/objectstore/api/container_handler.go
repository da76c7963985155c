package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// ContainerHandler handles container-level API endpoints.
type ContainerHandler struct {
	store objectstore.Store
}

// NewContainerHandler creates a container handler over the store.
func NewContainerHandler(store objectstore.Store) *ContainerHandler {
	return &ContainerHandler{store: store}
}

// Routes returns the router for container endpoints.
func (h *ContainerHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/{container}", func(r chi.Router) {
		r.Head("/", h.HeadContainer)
		r.Get("/", h.GetContainer)
		r.Put("/", h.CreateContainer)
		r.Post("/", h.UpdateContainer)
		r.Delete("/", h.RemoveContainer)
		r.Route("/objects", func(r chi.Router) {
			obj := NewObjectHandler(h.store)
			r.Get("/", h.ListContainer)
			r.Head("/*", obj.HeadObject)
			r.Get("/*", obj.GetObject)
			r.Put("/*", obj.PutObject)
			r.Post("/*", obj.TouchObject)
			r.Delete("/*", obj.RemoveObject)
		})
	})
	return r
}

// ContainerResponse represents a container in API responses.
type ContainerResponse struct {
	Name     string               `json:"name"`
	Metadata objectstore.Metadata `json:"metadata"`
}

// ObjectResponse represents a listed object in API responses.
type ObjectResponse struct {
	Name     string               `json:"name"`
	Metadata objectstore.Metadata `json:"metadata"`
}

// HeadContainer reports container existence.
func (h *ContainerHandler) HeadContainer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "container")

	exists, err := h.store.ContainerExists(r.Context(), objectstore.ByName(name))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetContainer returns the container with its metadata.
func (h *ContainerHandler) GetContainer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "container")

	container, err := h.store.GetContainer(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if container == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errResponse{Error: "container not found"})
		return
	}

	render.JSON(w, r, ContainerResponse{Name: container.Name, Metadata: container.Metadata})
}

// CreateContainer creates the container; metadata comes from X-Meta-*
// headers.
func (h *ContainerHandler) CreateContainer(w http.ResponseWriter, r *http.Request) {
	container := objectstore.NewContainer(chi.URLParam(r, "container"))
	container.Metadata = metadataFromHeaders(r.Header)

	if err := h.store.CreateContainer(r.Context(), container); err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ContainerResponse{Name: container.Name, Metadata: container.Metadata})
}

// UpdateContainer overwrites the container metadata.
func (h *ContainerHandler) UpdateContainer(w http.ResponseWriter, r *http.Request) {
	container := objectstore.NewContainer(chi.URLParam(r, "container"))
	container.Metadata = metadataFromHeaders(r.Header)

	if err := h.store.UpdateContainer(r.Context(), container); err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ContainerResponse{Name: container.Name, Metadata: container.Metadata})
}

// RemoveContainer removes the container.
func (h *ContainerHandler) RemoveContainer(w http.ResponseWriter, r *http.Request) {
	container := objectstore.NewContainer(chi.URLParam(r, "container"))

	if err := h.store.RemoveContainer(r.Context(), container); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListContainer lists objects in the container. Supports prefix,
// delimiter, marker, end_marker and limit query parameters.
func (h *ContainerHandler) ListContainer(w http.ResponseWriter, r *http.Request) {
	container := objectstore.NewContainer(chi.URLParam(r, "container"))

	q := r.URL.Query()
	opts := objectstore.ListOptions{
		Prefix:    q.Get("prefix"),
		Delimiter: q.Get("delimiter"),
		Marker:    q.Get("marker"),
		EndMarker: q.Get("end_marker"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errResponse{Error: "invalid limit"})
			return
		}
		opts.Limit = limit
	}

	objects, err := h.store.ListContainer(r.Context(), container, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]ObjectResponse, 0, len(objects))
	for _, object := range objects {
		out = append(out, ObjectResponse{Name: object.Name, Metadata: object.Metadata})
	}
	render.JSON(w, r, out)
}
