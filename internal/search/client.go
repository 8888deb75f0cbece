// Package search defines the external search capability consumed by
// Challenger B, a default HTTP-backed implementation against a
// Tavily-compatible endpoint, and the RelevanceScorer that turns raw
// results into a verified/unverified judgment per citation.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is one search hit returned for a query.
type Result struct {
	Title   string
	Content string
	URL     string
}

// Client is the external search capability consumed by Challenger B.
// Implementations may fail; callers treat failure as "no results" for
// that citation rather than aborting the run.
type Client interface {
	Query(ctx context.Context, text string) ([]Result, error)
}

// HTTPClient is the default Client implementation, issuing a JSON POST to
// a Tavily-compatible search endpoint. No third-party search SDK appears
// anywhere in this module's reference corpus, so this is built directly
// on net/http (see DESIGN.md for the stdlib justification).
type HTTPClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewHTTPClient builds an HTTPClient with a sane default *http.Client.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	Query  string `json:"query"`
	APIKey string `json:"api_key"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
	} `json:"results"`
}

// Query issues the search request, respecting ctx's deadline.
func (c *HTTPClient) Query(ctx context.Context, text string) ([]Result, error) {
	body, err := json.Marshal(searchRequest{Query: text, APIKey: c.APIKey})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search request returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		out = append(out, Result{Title: r.Title, Content: r.Content, URL: r.URL})
	}
	return out, nil
}
