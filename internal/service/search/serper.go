package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultSerperURL = "https://google.serper.dev/search"

// Serper is the primary provider (POST with an X-API-KEY header).
type Serper struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewSerper returns a Serper client for the production endpoint.
func NewSerper(apiKey string) *Serper {
	return NewSerperWithBaseURL(apiKey, defaultSerperURL)
}

// NewSerperWithBaseURL allows pointing the client at a test server.
func NewSerperWithBaseURL(apiKey, baseURL string) *Serper {
	return &Serper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (s *Serper) Name() string { return "serper" }

// Search runs the query and normalizes the organic results.
func (s *Serper) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return nil, fmt.Errorf("marshal serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build serper request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call serper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned status %d", resp.StatusCode)
	}

	var payload struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode serper response: %w", err)
	}

	results := make([]Result, 0, len(payload.Organic))
	for _, item := range payload.Organic {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
