package server_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityMeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token, userID := ts.register(t, "user@example.com")
	ts.linkEntity(t, userID, "ent_abc123")

	ts.agg = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entities/ent_abc123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "ent_abc123",
			"type":   "individual",
			"status": "active",
		})
	}

	res := ts.request(t, http.MethodGet, "/api/entities/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, "ent_abc123", body["id"])
	assert.Equal(t, "individual", body["type"])
}

func TestEntityListEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t, "user@example.com")

	ts.agg = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entities", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"id": "ent_1"}, {"id": "ent_2"}},
			"total": 2,
		})
	}

	res := ts.request(t, http.MethodGet, "/api/entities?page=2&page_limit=10", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, float64(2), body["total"])

	data, _ := body["data"].([]any)
	assert.Len(t, data, 2)
}
