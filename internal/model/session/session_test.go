package session_test

import (
	"testing"
	"time"

	"github.com/okatkov/tgsage/internal/model/session"
)

var defaults = session.Defaults{
	Model:        "openai/gpt-4o-mini",
	SystemPrompt: "You are a helpful assistant.",
	Language:     "en",
}

func TestNewIsFullyPopulated(t *testing.T) {
	s := session.New(defaults)

	if s.Model != defaults.Model {
		t.Fatalf("unexpected model: %s", s.Model)
	}
	if s.SystemPrompt != defaults.SystemPrompt {
		t.Fatalf("unexpected system prompt: %s", s.SystemPrompt)
	}
	if s.Language != "en" {
		t.Fatalf("unexpected language: %s", s.Language)
	}
	if s.History == nil {
		t.Fatal("history must not be nil")
	}
	if !s.SearchEnabled {
		t.Fatal("search must default to enabled")
	}
}

func TestDecodeMergesOverDefaults(t *testing.T) {
	data := []byte(`{"api_key":"sk-x","language":"ru","search_enabled":false}`)

	s, err := session.Decode(data, defaults)
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}

	if s.APIKey != "sk-x" {
		t.Fatalf("unexpected api key: %s", s.APIKey)
	}
	if s.Language != "ru" {
		t.Fatalf("unexpected language: %s", s.Language)
	}
	if s.SearchEnabled {
		t.Fatal("expected search disabled")
	}
	// Absent fields keep defaults.
	if s.Model != defaults.Model {
		t.Fatalf("model not defaulted: %s", s.Model)
	}
	if s.History == nil || len(s.History) != 0 {
		t.Fatalf("expected empty history, got %v", s.History)
	}
}

func TestDecodeReplacesCorruptHistory(t *testing.T) {
	for _, data := range []string{
		`{"history":"not an array"}`,
		`{"history":42}`,
		`{"history":null}`,
	} {
		s, err := session.Decode([]byte(data), defaults)
		if err != nil {
			t.Fatalf("Decode(%s) err: %v", data, err)
		}
		if s.History == nil || len(s.History) != 0 {
			t.Fatalf("Decode(%s): expected empty history, got %v", data, s.History)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	s := session.New(defaults)
	s.AppendExchange("hi", "hello", 10)
	s.MarkSearch("golang channels", time.Unix(1_700_000_000, 0))

	data, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode err: %v", err)
	}

	got, err := session.Decode(data, defaults)
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}
	if len(got.History) != 2 || got.History[0].Content != "hi" {
		t.Fatalf("history lost in round trip: %v", got.History)
	}
	if got.LastSearchQuery != "golang channels" {
		t.Fatalf("search context lost: %q", got.LastSearchQuery)
	}
}

func TestAppendExchangeTruncatesOldestFirst(t *testing.T) {
	s := session.New(defaults)
	for i := 0; i < 5; i++ {
		s.AppendExchange("q", "a", 4)
	}

	if len(s.History) != 4 {
		t.Fatalf("expected history capped at 4, got %d", len(s.History))
	}
	// The newest exchange always survives.
	last := s.History[len(s.History)-1]
	if last.Role != session.RoleAssistant || last.Content != "a" {
		t.Fatalf("unexpected newest entry: %+v", last)
	}
}

func TestTruncateKeepsNewest(t *testing.T) {
	s := session.New(defaults)
	s.History = []session.Entry{
		{Role: session.RoleUser, Content: "one"},
		{Role: session.RoleAssistant, Content: "two"},
		{Role: session.RoleUser, Content: "three"},
	}

	s.Truncate(2)

	if len(s.History) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(s.History))
	}
	if s.History[0].Content != "two" || s.History[1].Content != "three" {
		t.Fatalf("wrong entries kept: %v", s.History)
	}
}

func TestSearchedWithin(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	s := session.New(defaults)
	if s.SearchedWithin(time.Hour, now) {
		t.Fatal("fresh session must report no recent search")
	}

	s.MarkSearch("rust lifetimes", now.Add(-30*time.Minute))
	if !s.SearchedWithin(time.Hour, now) {
		t.Fatal("expected recent search inside window")
	}

	s.MarkSearch("rust lifetimes", now.Add(-2*time.Hour))
	if s.SearchedWithin(time.Hour, now) {
		t.Fatal("expected stale search outside window")
	}
}
