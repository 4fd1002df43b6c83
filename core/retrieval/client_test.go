package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-orchestrator/core/models"
)

func TestCollectSearchesEveryCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "Acme")
		json.NewEncoder(w).Encode(searchResponse{Documents: []models.Document{
			{URL: "https://example.com/" + req.Category, Title: req.Category, Content: "text"},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", 0, nil)
	docs, err := client.Collect(context.Background(), models.ResearchRequest{Company: "Acme", Industry: "Aerospace"})
	require.NoError(t, err)
	require.Len(t, docs, len(models.Categories))
	for _, cat := range models.Categories {
		require.Len(t, docs[cat], 1)
		assert.Equal(t, string(cat), docs[cat][0].Title)
	}
}

func TestCollectToleratesPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Category == string(models.CategoryFinancial) {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(searchResponse{Documents: []models.Document{{Title: req.Category}}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, nil)
	docs, err := client.Collect(context.Background(), models.ResearchRequest{Company: "Acme"})
	require.NoError(t, err)
	assert.Empty(t, docs[models.CategoryFinancial])
	assert.Len(t, docs[models.CategoryCompany], 1)
}

func TestCollectFailsWhenAllCategoriesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, nil)
	_, err := client.Collect(context.Background(), models.ResearchRequest{Company: "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all category searches failed")
}

func TestCollectRequiresEndpoint(t *testing.T) {
	client := NewClient("", "", 0, nil)
	_, err := client.Collect(context.Background(), models.ResearchRequest{Company: "Acme"})
	require.Error(t, err)
}

func TestCategoryQueryIncludesIndustry(t *testing.T) {
	q := categoryQuery(models.CategoryIndustry, models.ResearchRequest{Company: "Acme", Industry: "Aerospace"})
	assert.Contains(t, q, "Aerospace")
}
