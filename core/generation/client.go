// Package generation wraps the external text-generation service. The service
// is slow and unreliable; callers treat failure as an empty result.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Client produces text from a prompt. May fail or return empty; no retry or
// backoff is guaranteed.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HTTPClient calls an HTTP completion endpoint
type HTTPClient struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

// NewHTTPClient creates a generation client for the given endpoint
func NewHTTPClient(endpoint, apiKey, model string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Generate sends the prompt to the completion endpoint and returns its text
func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", eris.Wrap(err, "generation: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "generation: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "generation: call service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", eris.Errorf("generation: service returned %d: %s", resp.StatusCode, string(payload))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", eris.Wrap(err, "generation: decode response")
	}
	if out.Error != "" {
		return "", eris.Errorf("generation: %s", out.Error)
	}
	return out.Text, nil
}
