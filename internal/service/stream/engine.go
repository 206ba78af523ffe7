// Package stream drives one chat completion against the provider,
// progressively editing a single Telegram message, then commits the
// exchange to the user's session.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/okatkov/tgsage/internal/i18n"
	model "github.com/okatkov/tgsage/internal/model/session"
	"github.com/okatkov/tgsage/internal/service/ai"
	sessionsvc "github.com/okatkov/tgsage/internal/service/session"
	"github.com/okatkov/tgsage/internal/store"
	"github.com/okatkov/tgsage/internal/telegram"
)

var (
	// ErrKeyRequired reports a run attempted without a credential. No
	// network call is made in that case.
	ErrKeyRequired = errors.New("api key required")
	// ErrNoContent reports a stream that ended without any content.
	ErrNoContent = errors.New("no content received")
)

// markerTTL bounds the lifetime of the last-pushed-text side record;
// it normally dies with the run, the TTL only covers crashed runs.
const markerTTL = 10 * time.Minute

// Job is one streaming completion request.
type Job struct {
	ID        string
	UserID    int64
	ChatID    int64
	MessageID int64
	Prompt    string
	Session   model.UserSession
}

// Engine runs streaming completions. It is safe for concurrent use;
// each Run is independent.
type Engine struct {
	ai           *ai.Client
	tg           *telegram.Client
	sessions     *sessionsvc.Service
	kv           store.KV
	loc          *i18n.Catalog
	editInterval time.Duration
}

// NewEngine wires the engine.
func NewEngine(aiClient *ai.Client, tg *telegram.Client, sessions *sessionsvc.Service, kv store.KV, loc *i18n.Catalog, editInterval time.Duration) *Engine {
	return &Engine{
		ai:           aiClient,
		tg:           tg,
		sessions:     sessions,
		kv:           kv,
		loc:          loc,
		editInterval: editInterval,
	}
}

// Run executes the job: STARTED -> STREAMING -> {COMPLETED | FAILED}.
// The visible message always receives one final edit, with either the
// complete text or a localized failure notice.
func (e *Engine) Run(ctx context.Context, job Job) error {
	lang := job.Session.Language
	marker := markerKey(job.ChatID, job.MessageID)
	defer func() {
		if err := e.kv.Delete(ctx, marker); err != nil {
			log.Printf("[stream] %s: marker cleanup failed: %v", job.ID, err)
		}
	}()

	if job.Session.APIKey == "" {
		e.edit(ctx, job, e.loc.T(lang, i18n.KeyKeyRequired, nil))
		return ErrKeyRequired
	}

	messages := buildMessages(job.Session, job.Prompt, e.sessions.MaxHistory())

	chatStream, err := e.ai.StreamChat(ctx, job.Session.APIKey, job.Session.Model, messages)
	if err != nil {
		e.edit(ctx, job, e.failureNotice(lang, err))
		return err
	}
	defer chatStream.Close()

	var buffer strings.Builder
	lastEdit := time.Time{}

	for {
		fragment, recvErr := chatStream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			e.edit(ctx, job, e.failureNotice(lang, recvErr))
			return recvErr
		}
		if fragment == "" {
			continue
		}

		buffer.WriteString(fragment)

		if time.Since(lastEdit) < e.editInterval {
			continue
		}
		if e.push(ctx, job, marker, buffer.String()) {
			lastEdit = time.Now()
		}
	}

	final := buffer.String()
	if final == "" {
		e.edit(ctx, job, e.loc.T(lang, i18n.KeyNoContent, nil))
		return ErrNoContent
	}

	// Final edit is unconditional so the user always sees the full text.
	e.edit(ctx, job, final)

	e.sessions.Update(ctx, job.UserID, func(sess *model.UserSession) {
		sess.AppendExchange(job.Prompt, final, e.sessions.MaxHistory())
	})

	log.Printf("[stream] %s: completed for user %d, %d chars", job.ID, job.UserID, len(final))
	return nil
}

// push performs a throttled intermediate edit. It reports whether an
// edit actually happened; identical text is detected via the
// last-pushed side record, not by keeping every edit in memory.
func (e *Engine) push(ctx context.Context, job Job, marker, text string) bool {
	if previous, err := e.kv.Get(ctx, marker); err == nil && string(previous) == text {
		return false
	}

	if err := e.tg.EditMessageText(ctx, job.ChatID, job.MessageID, text, nil); err != nil {
		if !telegram.IsNotModified(err) {
			log.Printf("[stream] %s: intermediate edit failed: %v", job.ID, err)
			return false
		}
	}

	if err := e.kv.Put(ctx, marker, []byte(text), markerTTL); err != nil {
		log.Printf("[stream] %s: marker write failed: %v", job.ID, err)
	}
	return true
}

// edit updates the visible message, tolerating the identical-text
// complaint the unconditional final edit can trigger.
func (e *Engine) edit(ctx context.Context, job Job, text string) {
	if err := e.tg.EditMessageText(ctx, job.ChatID, job.MessageID, text, nil); err != nil {
		if telegram.IsNotModified(err) {
			return
		}
		log.Printf("[stream] %s: edit failed: %v", job.ID, err)
	}
}

func (e *Engine) failureNotice(lang string, err error) string {
	var statusErr *ai.StatusError
	if errors.As(err, &statusErr) {
		return e.loc.T(lang, i18n.KeyAskFailedStatus, map[string]string{
			"status": strconv.Itoa(statusErr.Code),
		})
	}
	return e.loc.T(lang, i18n.KeyAskFailed, nil)
}

func buildMessages(sess model.UserSession, prompt string, maxHistory int) []ai.ChatMessage {
	history := sess.RecentHistory(maxHistory)

	messages := make([]ai.ChatMessage, 0, len(history)+2)
	messages = append(messages, ai.ChatMessage{Role: "system", Content: sess.SystemPrompt})
	for _, entry := range history {
		messages = append(messages, ai.ChatMessage{Role: entry.Role, Content: entry.Content})
	}
	return append(messages, ai.ChatMessage{Role: model.RoleUser, Content: prompt})
}

func markerKey(chatID, messageID int64) string {
	return fmt.Sprintf("msg_%d_%d", chatID, messageID)
}
