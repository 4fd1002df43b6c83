// Package retrieval implements the document-search collaborator used by the
// collect stage.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"research-orchestrator/core/models"
)

// Client searches an HTTP document-search endpoint once per category. A
// single category's search failure yields an empty document set for that
// category; the collect call fails only when every category fails.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *zap.Logger
}

// NewClient creates a retrieval client for the given search endpoint
func NewClient(endpoint, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

type searchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

type searchResponse struct {
	Documents []models.Document `json:"documents"`
}

// categoryQuery builds the search query for one category
func categoryQuery(cat models.Category, req models.ResearchRequest) string {
	terms := []string{req.Company}
	switch cat {
	case models.CategoryFinancial:
		terms = append(terms, "funding revenue financials valuation")
	case models.CategoryNews:
		terms = append(terms, "news announcements press releases")
	case models.CategoryIndustry:
		terms = append(terms, req.Industry, "industry market competitors")
	case models.CategoryCompany:
		terms = append(terms, "company products leadership about")
	}
	return strings.TrimSpace(strings.Join(terms, " "))
}

// Collect runs one search per category concurrently and returns the
// documents keyed by category
func (c *Client) Collect(ctx context.Context, req models.ResearchRequest) (map[models.Category][]models.Document, error) {
	if c.endpoint == "" {
		return nil, eris.New("retrieval: no search endpoint configured")
	}

	results := make(map[models.Category][]models.Document, len(models.Categories))
	errsByCat := make(map[models.Category]error, len(models.Categories))
	var mu sync.Mutex

	g := new(errgroup.Group)
	for _, cat := range models.Categories {
		cat := cat
		g.Go(func() error {
			docs, err := c.search(ctx, cat, categoryQuery(cat, req))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.log.Warn("category search failed",
					zap.String("category", string(cat)),
					zap.Error(err),
				)
				errsByCat[cat] = err
				results[cat] = nil
				return nil
			}
			results[cat] = docs
			return nil
		})
	}
	_ = g.Wait()

	if len(errsByCat) == len(models.Categories) {
		var names []string
		for cat := range errsByCat {
			names = append(names, string(cat))
		}
		return nil, eris.Errorf("retrieval: all category searches failed (%s)", strings.Join(names, ", "))
	}
	return results, nil
}

// search performs one search call
func (c *Client) search(ctx context.Context, cat models.Category, query string) ([]models.Document, error) {
	body, err := json.Marshal(searchRequest{Query: query, Category: string(cat)})
	if err != nil {
		return nil, eris.Wrap(err, "retrieval: encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "retrieval: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "retrieval: call search service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, eris.New(fmt.Sprintf("retrieval: search returned %d: %s", resp.StatusCode, string(payload)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, eris.Wrap(err, "retrieval: decode response")
	}
	return out.Documents, nil
}
