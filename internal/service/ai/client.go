// Package ai is the client for the OpenRouter-compatible completion
// provider: key verification, model listing and streaming chat
// completions.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ChatMessage is one entry of the request message list.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model is one entry of the provider's model catalog.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.Code)
}

// Client talks to the completion provider. Credentials are per user,
// so every call takes the key explicitly.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a client for the given provider base URL
// (e.g. https://openrouter.ai/api/v1).
func NewClient(baseURL string) *Client {
	return &Client{
		// No overall timeout: completions stream longer than any sane
		// request deadline. Dial/TLS limits still apply via transport.
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// VerifyKey checks a credential against GET /auth/key.
func (c *Client) VerifyKey(ctx context.Context, key string) error {
	resp, err := c.get(ctx, key, "/auth/key")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// ListModels fetches the model catalog.
func (c *Client) ListModels(ctx context.Context, key string) ([]Model, error) {
	resp, err := c.get(ctx, key, "/models")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var payload struct {
		Data []Model `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}
	return payload.Data, nil
}

// CheckModel verifies a model id exists for this key.
func (c *Client) CheckModel(ctx context.Context, key, modelID string) error {
	resp, err := c.get(ctx, key, "/models/"+url.PathEscape(modelID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// StreamChat opens a streaming completion. The caller owns the
// returned stream and must Close it.
func (c *Client) StreamChat(ctx context.Context, key, model string, messages []ChatMessage) (*ChatStream, error) {
	body, err := json.Marshal(map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open chat stream: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	return newChatStream(resp.Body), nil
}

func (c *Client) get(ctx context.Context, key, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+key)

	client := c.httpClient
	if client.Timeout == 0 {
		shortClient := *client
		shortClient.Timeout = 15 * time.Second
		client = &shortClient
	}
	return client.Do(req)
}
