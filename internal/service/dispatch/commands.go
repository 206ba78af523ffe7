package dispatch

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/okatkov/tgsage/internal/command"
	"github.com/okatkov/tgsage/internal/i18n"
	model "github.com/okatkov/tgsage/internal/model/session"
	"github.com/okatkov/tgsage/internal/telegram"
)

// maxSearchReplies caps how many results land in one reply message.
const maxSearchReplies = 5

func (d *Dispatcher) runCommand(ctx context.Context, msg *telegram.Message, name, args string) {
	switch name {
	case command.Start:
		d.replyKey(ctx, msg, i18n.KeyStart)
	case command.Help:
		d.replyKey(ctx, msg, i18n.KeyHelp)
	case command.Ask:
		d.cmdAsk(ctx, msg, args)
	case command.Search:
		d.cmdSearch(ctx, msg, args)
	case command.Model:
		d.cmdModel(ctx, msg)
	case command.Persona:
		d.cmdPersona(ctx, msg)
	case command.Lang:
		d.cmdLang(ctx, msg)
	case command.Token:
		d.cmdToken(ctx, msg, args)
	case command.DelToken:
		d.cmdDelToken(ctx, msg)
	case command.Toggle:
		d.cmdToggle(ctx, msg)
	case command.Reset:
		d.cmdReset(ctx, msg)
	case command.Status:
		d.cmdStatus(ctx, msg)
	default:
		d.replyKey(ctx, msg, i18n.KeyUnknownCommand)
	}
}

func (d *Dispatcher) replyKey(ctx context.Context, msg *telegram.Message, key string) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	d.reply(ctx, msg.Chat.ID, d.loc.T(sess.Language, key, nil), nil)
}

func (d *Dispatcher) cmdAsk(ctx context.Context, msg *telegram.Message, args string) {
	if args == "" {
		d.replyKey(ctx, msg, i18n.KeyAskEmpty)
		return
	}
	d.startAsk(ctx, msg, args)
}

func (d *Dispatcher) cmdSearch(ctx context.Context, msg *telegram.Message, args string) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	lang := sess.Language

	if args == "" {
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeySearchEmptyArg, nil), nil)
		return
	}
	if sess.APIKey == "" {
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyKeyRequired, nil), nil)
		return
	}
	if !sess.SearchEnabled {
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeySearchDisabled, nil), nil)
		return
	}

	results, err := d.search.Search(ctx, args)
	if err != nil {
		log.Printf("[dispatch] search %q failed: %v", args, err)
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeySearchFailed, nil), nil)
		return
	}

	d.sessions.Update(ctx, msg.From.ID, func(sess *model.UserSession) {
		sess.MarkSearch(args, d.now())
	})

	if len(results) == 0 {
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeySearchNoResults, map[string]string{"query": args}), nil)
		return
	}

	var b strings.Builder
	for i, r := range results {
		if i == maxSearchReplies {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n%s\n", i+1, r.Title, r.Link)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "%s\n", r.Snippet)
		}
		b.WriteString("\n")
	}
	d.reply(ctx, msg.Chat.ID, strings.TrimSpace(b.String()), nil)
}

func (d *Dispatcher) cmdModel(ctx context.Context, msg *telegram.Message) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	lang := sess.Language

	if sess.APIKey == "" {
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyKeyRequired, nil), nil)
		return
	}

	models, err := d.ai.ListModels(ctx, sess.APIKey)
	if err != nil {
		log.Printf("[dispatch] model list failed: %v", err)
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyModelsFailed, nil), nil)
		return
	}

	text := d.loc.T(lang, i18n.KeyChooseModel, map[string]string{"page": "1"})
	d.reply(ctx, msg.Chat.ID, text, modelKeyboard(models, 0))
}

func (d *Dispatcher) cmdPersona(ctx context.Context, msg *telegram.Message) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	text := d.loc.T(sess.Language, i18n.KeyChoosePersona, nil)
	d.reply(ctx, msg.Chat.ID, text, personaKeyboard(d.personas.List()))
}

func (d *Dispatcher) cmdLang(ctx context.Context, msg *telegram.Message) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	text := d.loc.T(sess.Language, i18n.KeyChooseLang, nil)
	d.reply(ctx, msg.Chat.ID, text, langKeyboard(d.loc.Languages()))
}

func (d *Dispatcher) cmdToken(ctx context.Context, msg *telegram.Message, args string) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	lang := sess.Language

	if args == "" {
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyKeyMissingArg, nil), nil)
		return
	}

	if err := d.ai.VerifyKey(ctx, args); err != nil {
		log.Printf("[dispatch] key verification failed for user %d: %v", msg.From.ID, err)
		d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyKeyInvalid, nil), nil)
		return
	}

	d.sessions.Update(ctx, msg.From.ID, func(sess *model.UserSession) {
		sess.APIKey = args
	})

	// The inbound message carries the secret; remove it from the chat.
	if err := d.tg.DeleteMessage(ctx, msg.Chat.ID, msg.MessageID); err != nil {
		log.Printf("[dispatch] token message delete failed: %v", err)
	}

	d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyKeySaved, nil), nil)
}

func (d *Dispatcher) cmdDelToken(ctx context.Context, msg *telegram.Message) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	markup := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{{
			Text:         d.loc.T(sess.Language, i18n.KeyDelTokenButton, nil),
			CallbackData: telegram.Callback{Action: telegram.ActionDelToken}.Encode(),
		}}},
	}
	d.reply(ctx, msg.Chat.ID, d.loc.T(sess.Language, i18n.KeyDelTokenConfirm, nil), markup)
}

func (d *Dispatcher) cmdToggle(ctx context.Context, msg *telegram.Message) {
	sess := d.sessions.Get(ctx, msg.From.ID)

	state := i18n.KeySearchOn
	if !sess.SearchEnabled {
		state = i18n.KeySearchOff
	}
	d.reply(ctx, msg.Chat.ID, d.loc.T(sess.Language, state, nil), toggleKeyboard())
}

func (d *Dispatcher) cmdReset(ctx context.Context, msg *telegram.Message) {
	sess := d.sessions.Reset(ctx, msg.From.ID)
	d.reply(ctx, msg.Chat.ID, d.loc.T(sess.Language, i18n.KeyResetDone, nil), nil)
}

func (d *Dispatcher) cmdStatus(ctx context.Context, msg *telegram.Message) {
	sess := d.sessions.Get(ctx, msg.From.ID)
	lang := sess.Language

	keyState := "-"
	if sess.APIKey != "" {
		keyState = "set"
	}
	searchState := "on"
	if !sess.SearchEnabled {
		searchState = "off"
	}

	prompt := sess.SystemPrompt
	if runes := []rune(prompt); len(runes) > 60 {
		prompt = string(runes[:57]) + "..."
	}

	d.reply(ctx, msg.Chat.ID, d.loc.T(lang, i18n.KeyStatus, map[string]string{
		"model":   sess.Model,
		"prompt":  prompt,
		"lang":    sess.Language,
		"search":  searchState,
		"key":     keyState,
		"history": strconv.Itoa(len(sess.History)),
	}), nil)
}
