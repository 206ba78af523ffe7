// Package session defines the persisted per-user conversation state.
package session

import (
	"encoding/json"
	"time"
)

// Message roles as sent to the completion provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry is one turn of the conversation history.
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserSession captures everything the bot remembers about one user.
type UserSession struct {
	APIKey          string  `json:"api_key,omitempty"`
	Model           string  `json:"model"`
	SystemPrompt    string  `json:"system_prompt"`
	Language        string  `json:"language"`
	History         []Entry `json:"history"`
	SearchEnabled   bool    `json:"search_enabled"`
	LastSearchQuery string  `json:"last_search_query,omitempty"`
	LastSearchAt    int64   `json:"last_search_at,omitempty"`
}

// Defaults holds the configuration-derived values a fresh or partially
// stored session is filled from.
type Defaults struct {
	Model        string
	SystemPrompt string
	Language     string
}

// New returns a fully populated session built from defaults.
func New(d Defaults) UserSession {
	return UserSession{
		Model:         d.Model,
		SystemPrompt:  d.SystemPrompt,
		Language:      d.Language,
		History:       []Entry{},
		SearchEnabled: true,
	}
}

// Decode merges stored JSON over defaults. Absent fields keep their
// default value; a corrupt or non-array history is replaced with an
// empty one so legacy records never poison a session read.
func Decode(data []byte, d Defaults) (UserSession, error) {
	var stored struct {
		APIKey          *string         `json:"api_key"`
		Model           *string         `json:"model"`
		SystemPrompt    *string         `json:"system_prompt"`
		Language        *string         `json:"language"`
		History         json.RawMessage `json:"history"`
		SearchEnabled   *bool           `json:"search_enabled"`
		LastSearchQuery *string         `json:"last_search_query"`
		LastSearchAt    *int64          `json:"last_search_at"`
	}

	s := New(d)
	if err := json.Unmarshal(data, &stored); err != nil {
		return s, err
	}

	if stored.APIKey != nil {
		s.APIKey = *stored.APIKey
	}
	if stored.Model != nil && *stored.Model != "" {
		s.Model = *stored.Model
	}
	if stored.SystemPrompt != nil && *stored.SystemPrompt != "" {
		s.SystemPrompt = *stored.SystemPrompt
	}
	if stored.Language != nil && *stored.Language != "" {
		s.Language = *stored.Language
	}
	if stored.SearchEnabled != nil {
		s.SearchEnabled = *stored.SearchEnabled
	}
	if stored.LastSearchQuery != nil {
		s.LastSearchQuery = *stored.LastSearchQuery
	}
	if stored.LastSearchAt != nil {
		s.LastSearchAt = *stored.LastSearchAt
	}

	if len(stored.History) > 0 {
		var history []Entry
		if err := json.Unmarshal(stored.History, &history); err == nil && history != nil {
			s.History = history
		}
	}

	return s, nil
}

// Encode serializes the session for storage.
func (s UserSession) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// AppendExchange records a completed user/assistant turn and truncates
// the history to max entries, dropping the oldest first.
func (s *UserSession) AppendExchange(prompt, reply string, max int) {
	s.History = append(s.History,
		Entry{Role: RoleUser, Content: prompt},
		Entry{Role: RoleAssistant, Content: reply},
	)
	s.Truncate(max)
}

// Truncate keeps only the most recent max history entries.
func (s *UserSession) Truncate(max int) {
	if max <= 0 || len(s.History) <= max {
		return
	}
	s.History = append([]Entry(nil), s.History[len(s.History)-max:]...)
}

// RecentHistory returns up to max of the newest entries, oldest first.
func (s UserSession) RecentHistory(max int) []Entry {
	if max <= 0 || len(s.History) <= max {
		return s.History
	}
	return s.History[len(s.History)-max:]
}

// MarkSearch records the query driving the contextual follow-up
// heuristic.
func (s *UserSession) MarkSearch(query string, at time.Time) {
	s.LastSearchQuery = query
	s.LastSearchAt = at.Unix()
}

// SearchedWithin reports whether the last search happened inside the
// given window.
func (s UserSession) SearchedWithin(window time.Duration, now time.Time) bool {
	if s.LastSearchQuery == "" || s.LastSearchAt == 0 {
		return false
	}
	return now.Sub(time.Unix(s.LastSearchAt, 0)) <= window
}
