package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.telegram.org"

// APIError is a Bot API level failure (ok:false in the envelope).
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

// IsNotModified reports whether err is the Bot API complaint about
// editing a message with identical text. The engine's unconditional
// final edit can legitimately hit it.
func IsNotModified(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && strings.Contains(apiErr.Description, "message is not modified")
}

// Client talks to the Bot API. All calls share one rate limiter so
// bursts of edits stay under the transport's global limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
}

// NewClient returns a client for the production Bot API.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, defaultBaseURL)
}

// NewClientWithBaseURL allows pointing the client at a test server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		// Bot API allows ~30 messages/second overall.
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
}

// SendOptions carries optional sendMessage parameters.
type SendOptions struct {
	ReplyMarkup *InlineKeyboardMarkup
}

// SendMessage posts text to a chat and returns the created message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (Message, error) {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if opts != nil && opts.ReplyMarkup != nil {
		payload["reply_markup"] = opts.ReplyMarkup
	}

	var message Message
	if err := c.call(ctx, "sendMessage", payload, &message); err != nil {
		return Message{}, err
	}
	return message, nil
}

// EditMessageText replaces the text (and markup) of a sent message.
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, markup *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "editMessageText", payload, nil)
}

// AnswerCallbackQuery acknowledges a keyboard button press.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	payload := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// DeleteMessage removes a message, e.g. the one carrying a user's API key.
func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}
	return c.call(ctx, "deleteMessage", payload, nil)
}

func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		OK          bool            `json:"ok"`
		Result      json.RawMessage `json:"result"`
		ErrorCode   int             `json:"error_code"`
		Description string          `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}

	if !envelope.OK {
		return &APIError{Code: envelope.ErrorCode, Description: envelope.Description}
	}

	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}
