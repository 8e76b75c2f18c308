package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded
}

func TestCreateProjectHandler(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	w := performRequest(r, http.MethodPost, "/projects/",
		`{"name": "proj1", "comment": "a comment"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "proj1", body["name"])
	assert.Equal(t, "a comment", body["comment"])
	assert.NotEmpty(t, body["created_at"])
}

func TestCreateProjectHandler_MissingName(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	w := performRequest(r, http.MethodPost, "/projects/", `{"comment": "no name"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProjectHandler_DuplicateName(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	w := performRequest(r, http.MethodPost, "/projects/", `{"name": "proj1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(r, http.MethodPost, "/projects/", `{"name": "proj1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t,
		"Project name 'proj1' already exists. Please select a unique"+
			" project name and try again.",
		body["error"])

	// The existing project is unchanged.
	projects, err := s.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "proj1", projects[0].Name)
}

func TestListProjectsHandler(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	performRequest(r, http.MethodPost, "/projects/", `{"name": "proj1"}`)
	performRequest(r, http.MethodPost, "/projects/", `{"name": "proj2"}`)

	w := performRequest(r, http.MethodGet, "/projects/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var projects []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 2)
	assert.Equal(t, "proj1", projects[0]["name"])
	assert.Equal(t, "proj2", projects[1]["name"])
}

func TestGetProjectHandler(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	performRequest(r, http.MethodPost, "/projects/", `{"name": "proj1"}`)

	w := performRequest(r, http.MethodGet, "/projects/1/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "proj1", body["name"])
}

func TestGetProjectHandler_NotFound(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	w := performRequest(r, http.MethodGet, "/projects/999/", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "Project id not found", body["error"])
}

func TestGetProjectHandler_InvalidID(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	w := performRequest(r, http.MethodGet, "/projects/abc/", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "invalid project ID", body["error"])
}

func TestPatchProjectHandler_SparseComment(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	performRequest(r, http.MethodPost, "/projects/", `{"name": "proj1"}`)

	w := performRequest(r, http.MethodPatch, "/projects/1/", `{"comment": "added later"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "proj1", body["name"])
	assert.Equal(t, "added later", body["comment"])
}

func TestPatchProjectHandler_RenameConflict(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	performRequest(r, http.MethodPost, "/projects/", `{"name": "proj1"}`)
	performRequest(r, http.MethodPost, "/projects/", `{"name": "proj2"}`)

	w := performRequest(r, http.MethodPatch, "/projects/2/", `{"name": "proj1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t,
		"Project name 'proj1' already exists. Please select a unique"+
			" project name and try again.",
		body["error"])
}

func TestPatchProjectHandler_RenameToSameNameAllowed(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	performRequest(r, http.MethodPost, "/projects/", `{"name": "proj1"}`)

	w := performRequest(r, http.MethodPatch, "/projects/1/",
		`{"name": "proj1", "comment": "still proj1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "proj1", body["name"])
	assert.Equal(t, "still proj1", body["comment"])
}

func TestPatchProjectHandler_NotFound(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	w := performRequest(r, http.MethodPatch, "/projects/999/", `{"name": "proj1"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "Project id not found", body["error"])
}

func TestDeleteProjectHandler(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	performRequest(r, http.MethodPost, "/projects/", `{"name": "proj1"}`)

	w := performRequest(r, http.MethodDelete, "/projects/1/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "Project deleted", body["message"])

	w = performRequest(r, http.MethodGet, "/projects/1/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProjectHandler_NotFound(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s)

	w := performRequest(r, http.MethodDelete, "/projects/999/", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "Project id not found", body["error"])
}
