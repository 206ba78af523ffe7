package stream_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okatkov/tgsage/internal/i18n"
	model "github.com/okatkov/tgsage/internal/model/session"
	"github.com/okatkov/tgsage/internal/service/ai"
	sessionsvc "github.com/okatkov/tgsage/internal/service/session"
	"github.com/okatkov/tgsage/internal/service/stream"
	"github.com/okatkov/tgsage/internal/store"
	"github.com/okatkov/tgsage/internal/telegram"
)

var defaults = model.Defaults{
	Model:        "test/model",
	SystemPrompt: "You are a test.",
	Language:     "en",
}

type editRecorder struct {
	mu    sync.Mutex
	texts []string
}

func (r *editRecorder) record(text string) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
}

func (r *editRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func (r *editRecorder) last() string {
	texts := r.all()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func newTelegramServer(t *testing.T, rec *editRecorder) *telegram.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/editMessageText") {
			var body struct {
				Text string `json:"text"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			rec.record(body.Text)
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": map[string]any{"message_id": 1}})
	}))
	t.Cleanup(server.Close)
	return telegram.NewClientWithBaseURL("t", server.URL)
}

func newAIServer(t *testing.T, handler http.HandlerFunc) *ai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return ai.NewClient(server.URL)
}

func sseChunks(contents ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range contents {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n")
	}
}

type fixture struct {
	engine   *stream.Engine
	sessions *sessionsvc.Service
	kv       *store.Memory
	rec      *editRecorder
	loc      *i18n.Catalog
}

func newFixture(t *testing.T, aiClient *ai.Client, editInterval time.Duration) *fixture {
	t.Helper()
	kv := store.NewMemory()
	sessions := sessionsvc.NewService(kv, defaults, 10)
	rec := &editRecorder{}
	loc := i18n.New("en")
	engine := stream.NewEngine(aiClient, newTelegramServer(t, rec), sessions, kv, loc, editInterval)
	return &fixture{engine: engine, sessions: sessions, kv: kv, rec: rec, loc: loc}
}

func job(sess model.UserSession, prompt string) stream.Job {
	return stream.Job{
		ID:        "job-1",
		UserID:    42,
		ChatID:    7,
		MessageID: 99,
		Prompt:    prompt,
		Session:   sess,
	}
}

func TestRunWithoutKeyMakesNoProviderCall(t *testing.T) {
	aiClient := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called without a key")
	})
	f := newFixture(t, aiClient, 0)

	sess := model.New(defaults)
	err := f.engine.Run(context.Background(), job(sess, "hello"))
	if !errors.Is(err, stream.ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
	if got := f.rec.last(); got != f.loc.T("en", i18n.KeyKeyRequired, nil) {
		t.Fatalf("unexpected edit: %q", got)
	}
}

func TestRunStreamsAndCommitsHistory(t *testing.T) {
	aiClient := newAIServer(t, sseChunks("Hel", "lo", " world"))
	f := newFixture(t, aiClient, 0)
	ctx := context.Background()

	sess := model.New(defaults)
	sess.APIKey = "sk-x"
	if err := f.engine.Run(ctx, job(sess, "greet me")); err != nil {
		t.Fatalf("Run err: %v", err)
	}

	if got := f.rec.last(); got != "Hello world" {
		t.Fatalf("final edit mismatch: %q", got)
	}

	stored := f.sessions.Get(ctx, 42)
	if len(stored.History) != 2 {
		t.Fatalf("expected committed exchange, got %v", stored.History)
	}
	if stored.History[0].Role != model.RoleUser || stored.History[0].Content != "greet me" {
		t.Fatalf("unexpected user entry: %+v", stored.History[0])
	}
	if stored.History[1].Role != model.RoleAssistant || stored.History[1].Content != "Hello world" {
		t.Fatalf("unexpected assistant entry: %+v", stored.History[1])
	}

	// The throttle side record is cleaned up on every path.
	if _, err := f.kv.Get(ctx, "msg_7_99"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("throttle marker not cleaned up: %v", err)
	}
}

func TestRunFinalEditHappensDespiteThrottle(t *testing.T) {
	aiClient := newAIServer(t, sseChunks("a", "b", "c"))
	// Interval far above test duration: no intermediate edit qualifies.
	f := newFixture(t, aiClient, time.Hour)

	sess := model.New(defaults)
	sess.APIKey = "sk-x"
	if err := f.engine.Run(context.Background(), job(sess, "q")); err != nil {
		t.Fatalf("Run err: %v", err)
	}

	if got := f.rec.last(); got != "abc" {
		t.Fatalf("final edit missing: %v", f.rec.all())
	}
}

func TestRunEmptyStreamReportsNoContent(t *testing.T) {
	aiClient := newAIServer(t, sseChunks())
	f := newFixture(t, aiClient, 0)
	ctx := context.Background()

	sess := model.New(defaults)
	sess.APIKey = "sk-x"
	err := f.engine.Run(ctx, job(sess, "q"))
	if !errors.Is(err, stream.ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	if got := f.rec.last(); got != f.loc.T("en", i18n.KeyNoContent, nil) {
		t.Fatalf("unexpected edit: %q", got)
	}
	if stored := f.sessions.Get(ctx, 42); len(stored.History) != 0 {
		t.Fatalf("history must not be committed on failure: %v", stored.History)
	}
}

func TestRunSurfacesProviderStatus(t *testing.T) {
	aiClient := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})
	f := newFixture(t, aiClient, 0)

	sess := model.New(defaults)
	sess.APIKey = "sk-x"
	err := f.engine.Run(context.Background(), job(sess, "q"))

	var statusErr *ai.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if got := f.rec.last(); !strings.Contains(got, "402") {
		t.Fatalf("status code missing from notice: %q", got)
	}
}

func TestRunLocalizedFailure(t *testing.T) {
	aiClient := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	f := newFixture(t, aiClient, 0)

	sess := model.New(defaults)
	sess.APIKey = "sk-x"
	sess.Language = "ru"
	f.engine.Run(context.Background(), job(sess, "q"))

	want := f.loc.T("ru", i18n.KeyAskFailedStatus, map[string]string{"status": "500"})
	if got := f.rec.last(); got != want {
		t.Fatalf("expected russian notice %q, got %q", want, got)
	}
}

func TestRunTruncatesLongHistory(t *testing.T) {
	aiClient := newAIServer(t, sseChunks("ok"))
	f := newFixture(t, aiClient, 0)
	ctx := context.Background()

	sess := model.New(defaults)
	sess.APIKey = "sk-x"
	for i := 0; i < 12; i++ {
		sess.History = append(sess.History, model.Entry{Role: model.RoleUser, Content: fmt.Sprintf("old-%d", i)})
	}
	f.sessions.Put(ctx, 42, sess)

	if err := f.engine.Run(ctx, job(sess, "new question")); err != nil {
		t.Fatalf("Run err: %v", err)
	}

	stored := f.sessions.Get(ctx, 42)
	if len(stored.History) != 10 {
		t.Fatalf("history exceeds bound: %d", len(stored.History))
	}
	newest := stored.History[len(stored.History)-1]
	if newest.Content != "ok" {
		t.Fatalf("newest entry dropped: %+v", newest)
	}
}
