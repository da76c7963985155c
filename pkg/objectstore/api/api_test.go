package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
	memoryrepo "github.com/quartzlabs/objectstore/pkg/objectstore/repo/memory"
	memorystorage "github.com/quartzlabs/objectstore/pkg/objectstore/storage/memory"
)

func setupTestServer(t *testing.T) (*httptest.Server, objectstore.Store) {
	t.Helper()

	store, err := objectstore.New(
		objectstore.WithStoreDriver(memorystorage.New()),
		objectstore.WithMetadataDriver(memoryrepo.New()),
	)
	require.NoError(t, err)

	server := httptest.NewServer(Router(store))
	t.Cleanup(server.Close)
	return server, store
}

func doRequest(t *testing.T, method, url string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestContainerEndpoints(t *testing.T) {
	server, _ := setupTestServer(t)

	t.Run("HeadAbsent", func(t *testing.T) {
		resp := doRequest(t, http.MethodHead, server.URL+"/containers/photos", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Create", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, server.URL+"/containers/photos", nil,
			map[string]string{"X-Meta-Owner": "alice"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body ContainerResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "photos", body.Name)
		assert.Equal(t, "alice", body.Metadata["owner"])
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, server.URL+"/containers/photos", nil, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Head", func(t *testing.T) {
		resp := doRequest(t, http.MethodHead, server.URL+"/containers/photos", nil, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Get", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/containers/photos", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ContainerResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "photos", body.Name)
		assert.Equal(t, "alice", body.Metadata["owner"])
	})

	t.Run("GetAbsent", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/containers/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Update", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, server.URL+"/containers/photos", nil,
			map[string]string{"X-Meta-Owner": "bob"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doRequest(t, http.MethodGet, server.URL+"/containers/photos", nil, nil)
		var body ContainerResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "bob", body.Metadata["owner"])
	})

	t.Run("UpdateAbsent", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, server.URL+"/containers/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Remove", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, server.URL+"/containers/photos", nil, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doRequest(t, http.MethodHead, server.URL+"/containers/photos", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("RemoveAbsent", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, server.URL+"/containers/photos", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestObjectEndpoints(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodPut, server.URL+"/containers/photos", nil, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("Put", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, server.URL+"/containers/photos/objects/2024/a.jpg",
			strings.NewReader("image-bytes"),
			map[string]string{"X-Meta-Camera": "x100", "X-Checksum": "abc"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body ObjectResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "2024/a.jpg", body.Name)
		assert.Equal(t, "x100", body.Metadata["camera"])
	})

	t.Run("Get", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/containers/photos/objects/2024/a.jpg", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(data))
		assert.Equal(t, "x100", resp.Header.Get("X-Meta-Camera"))
		assert.Equal(t, `"abc"`, resp.Header.Get("ETag"))
	})

	t.Run("Head", func(t *testing.T) {
		resp := doRequest(t, http.MethodHead, server.URL+"/containers/photos/objects/2024/a.jpg", nil, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "x100", resp.Header.Get("X-Meta-Camera"))
	})

	t.Run("GetAbsent", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/containers/photos/objects/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("List", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/containers/photos/objects/?prefix=2024/", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []ObjectResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "2024/a.jpg", body[0].Name)
		assert.Equal(t, "x100", body[0].Metadata["camera"])
	})

	t.Run("ListBadLimit", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/containers/photos/objects/?limit=nope", nil, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("ListAbsentContainer", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/containers/missing/objects/", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Copy", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, server.URL+"/containers/backup", nil, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doRequest(t, http.MethodPut, server.URL+"/containers/backup/objects/copy.jpg", nil,
			map[string]string{"X-Copy-From": "photos/2024/a.jpg", "X-Meta-Note": "backup"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body ObjectResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "copy.jpg", body.Name)
		assert.Equal(t, "x100", body.Metadata["camera"])
		assert.Equal(t, "backup", body.Metadata["note"])

		resp = doRequest(t, http.MethodGet, server.URL+"/containers/backup/objects/copy.jpg", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(data))
	})

	t.Run("CopyBadHeader", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, server.URL+"/containers/backup/objects/x", nil,
			map[string]string{"X-Copy-From": "no-slash"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("CopyAbsentSource", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, server.URL+"/containers/backup/objects/x", nil,
			map[string]string{"X-Copy-From": "photos/missing"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Touch", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, server.URL+"/containers/photos/objects/2024/a.jpg", nil, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("TouchAbsent", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, server.URL+"/containers/photos/objects/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("MetadataOnlyPut", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, server.URL+"/containers/photos/objects/2024/a.jpg", nil,
			map[string]string{"X-Meta-Camera": "x200"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		// Content survives a metadata-only update.
		resp = doRequest(t, http.MethodGet, server.URL+"/containers/photos/objects/2024/a.jpg", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(data))
		assert.Equal(t, "x200", resp.Header.Get("X-Meta-Camera"))
	})

	t.Run("Remove", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, server.URL+"/containers/photos/objects/2024/a.jpg", nil, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doRequest(t, http.MethodDelete, server.URL+"/containers/photos/objects/2024/a.jpg", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
