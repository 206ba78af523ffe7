// Package dispatch is the top-level control flow for inbound Telegram
// updates: authorization, command routing, callbacks and handing long
// work to the streaming engine.
package dispatch

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okatkov/tgsage/internal/command"
	"github.com/okatkov/tgsage/internal/i18n"
	"github.com/okatkov/tgsage/internal/model/persona"
	"github.com/okatkov/tgsage/internal/service/ai"
	"github.com/okatkov/tgsage/internal/service/search"
	sessionsvc "github.com/okatkov/tgsage/internal/service/session"
	"github.com/okatkov/tgsage/internal/service/stream"
	"github.com/okatkov/tgsage/internal/telegram"
)

// followUpWindow bounds how old a search may be and still drive the
// contextual follow-up rewrite.
const followUpWindow = time.Hour

// Dispatcher routes one update at a time; separate updates may be
// handled concurrently by independent invocations.
type Dispatcher struct {
	tg       *telegram.Client
	sessions *sessionsvc.Service
	personas persona.Store
	search   *search.Aggregator
	engine   *stream.Engine
	ai       *ai.Client
	loc      *i18n.Catalog

	allowed map[int64]struct{}
	tasks   sync.WaitGroup
	now     func() time.Time
}

// New wires the dispatcher. allowedUserIDs empty means everyone is
// allowed.
func New(tg *telegram.Client, sessions *sessionsvc.Service, personas persona.Store, aggregator *search.Aggregator, engine *stream.Engine, aiClient *ai.Client, loc *i18n.Catalog, allowedUserIDs []int64) *Dispatcher {
	allowed := make(map[int64]struct{}, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = struct{}{}
	}

	return &Dispatcher{
		tg:       tg,
		sessions: sessions,
		personas: personas,
		search:   aggregator,
		engine:   engine,
		ai:       aiClient,
		loc:      loc,
		allowed:  allowed,
		now:      time.Now,
	}
}

// SetClock overrides the time source for the follow-up heuristic.
func (d *Dispatcher) SetClock(now func() time.Time) { d.now = now }

// HandleUpdate processes one inbound event.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		d.handleMessage(ctx, update.Message)
	}
}

// Wait blocks until all detached streaming tasks complete. Called on
// shutdown so in-flight completions can finish their final edit.
func (d *Dispatcher) Wait() {
	d.tasks.Wait()
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *telegram.Message) {
	from := msg.From
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if !d.authorized(from.ID) {
		// The session is deliberately untouched for strangers.
		d.reply(ctx, msg.Chat.ID, d.loc.T(userLang(from), i18n.KeyUnauthorized, nil), nil)
		return
	}

	sess := d.sessions.Get(ctx, from.ID)
	lang := sess.Language

	if command.IsCommand(text) {
		name, args, ok := command.Split(text)
		if !ok {
			d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyUnknownCommand, nil), nil)
			return
		}
		d.runCommand(ctx, msg, name, args)
		return
	}

	// Plain text is an implicit ask.
	d.startAsk(ctx, msg, d.rewriteFollowUp(sess, text))
}

func (d *Dispatcher) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if cb.From == nil {
		return
	}
	if !d.authorized(cb.From.ID) {
		d.answer(ctx, cb.ID, d.loc.T(userLang(cb.From), i18n.KeyUnauthorized, nil))
		return
	}

	action, err := telegram.ParseCallback(cb.Data)
	if err != nil {
		log.Printf("[dispatch] ignoring callback: %v", err)
		d.answer(ctx, cb.ID, "")
		return
	}

	d.runCallback(ctx, cb, action)
}

func (d *Dispatcher) authorized(userID int64) bool {
	if len(d.allowed) == 0 {
		return true
	}
	_, ok := d.allowed[userID]
	return ok
}

// startAsk sends the placeholder message and detaches the streaming
// engine: completions outlive the webhook request cycle.
func (d *Dispatcher) startAsk(ctx context.Context, msg *telegram.Message, prompt string) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	lang := sess.Language

	if sess.APIKey == "" {
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyKeyRequired, nil), nil)
		return
	}

	placeholder, err := d.tg.SendMessage(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyThinking, nil), nil)
	if err != nil {
		log.Printf("[dispatch] placeholder send failed: %v", err)
		return
	}

	job := stream.Job{
		ID:        uuid.NewString(),
		UserID:    msg.From.ID,
		ChatID:    msg.Chat.ID,
		MessageID: placeholder.MessageID,
		Prompt:    prompt,
		Session:   sess,
	}

	detached := context.WithoutCancel(ctx)
	d.tasks.Add(1)
	go func() {
		defer d.tasks.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[dispatch] job %s panicked: %v", job.ID, r)
				// The placeholder must not stay on screen forever.
				notice := d.loc.T(lang, i18n.KeyServerError, nil)
				if err := d.tg.EditMessageText(detached, job.ChatID, job.MessageID, notice, nil); err != nil && !telegram.IsNotModified(err) {
					log.Printf("[dispatch] job %s crash notice failed: %v", job.ID, err)
				}
			}
		}()
		if err := d.engine.Run(detached, job); err != nil {
			log.Printf("[dispatch] job %s failed: %v", job.ID, err)
		}
	}()
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) {
	var opts *telegram.SendOptions
	if markup != nil {
		opts = &telegram.SendOptions{ReplyMarkup: markup}
	}
	if _, err := d.tg.SendMessage(ctx, chatID, text, opts); err != nil {
		log.Printf("[dispatch] send failed: %v", err)
	}
}

func (d *Dispatcher) answer(ctx context.Context, callbackID, text string) {
	if err := d.tg.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		log.Printf("[dispatch] callback answer failed: %v", err)
	}
}

// userLang picks a supported language for users whose session we have
// not (or must not) load, based on the Telegram client language.
func userLang(user *telegram.User) string {
	if user != nil && user.LanguageCode == "ru" {
		return "ru"
	}
	return "en"
}
