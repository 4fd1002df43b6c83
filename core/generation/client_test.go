package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "research-v1", req.Model)
		json.NewEncoder(w).Encode(generateResponse{Text: "a report about " + req.Prompt})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "test-key", "research-v1", 0)
	text, err := client.Generate(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "a report about Acme", text)
}

func TestGenerateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Error: "model overloaded"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", "", 0)
	_, err := client.Generate(context.Background(), "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", "", 0)
	_, err := client.Generate(context.Background(), "Acme")
	require.Error(t, err)
}
