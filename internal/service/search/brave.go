package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBraveURL = "https://api.search.brave.com/res/v1/web/search"

// Brave is the fallback provider (GET with an X-Subscription-Token
// header).
type Brave struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewBrave returns a Brave client for the production endpoint.
func NewBrave(apiKey string) *Brave {
	return NewBraveWithBaseURL(apiKey, defaultBraveURL)
}

// NewBraveWithBaseURL allows pointing the client at a test server.
func NewBraveWithBaseURL(apiKey, baseURL string) *Brave {
	return &Brave{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (b *Brave) Name() string { return "brave" }

// Search runs the query and normalizes the web results.
func (b *Brave) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint := b.baseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build brave request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call brave: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave returned status %d", resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	results := make([]Result, 0, len(payload.Web.Results))
	for _, item := range payload.Web.Results {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.URL,
			Snippet: item.Description,
		})
	}
	return results, nil
}
