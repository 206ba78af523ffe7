package dispatch

import (
	"context"
	"log"
	"strconv"

	"github.com/okatkov/tgsage/internal/i18n"
	model "github.com/okatkov/tgsage/internal/model/session"
	"github.com/okatkov/tgsage/internal/telegram"
)

func (d *Dispatcher) runCallback(ctx context.Context, cb *telegram.CallbackQuery, action telegram.Callback) {
	sess := d.sessions.Get(ctx, cb.From.ID)
	lang := sess.Language

	switch action.Action {
	case telegram.ActionSetModel:
		if sess.APIKey != "" {
			if err := d.ai.CheckModel(ctx, sess.APIKey, action.Value); err != nil {
				log.Printf("[dispatch] model %q rejected for user %d: %v", action.Value, cb.From.ID, err)
				d.answer(ctx, cb.ID, d.loc.T(lang, i18n.KeyModelInvalid, nil))
				return
			}
		}
		d.sessions.Update(ctx, cb.From.ID, func(sess *model.UserSession) {
			sess.Model = action.Value
		})
		d.answer(ctx, cb.ID, "")
		d.editCallbackMessage(ctx, cb, d.loc.T(lang, i18n.KeyModelSet, map[string]string{"model": action.Value}), nil)

	case telegram.ActionModelPage:
		if sess.APIKey == "" {
			d.answer(ctx, cb.ID, d.loc.T(lang, i18n.KeyKeyRequired, nil))
			return
		}
		page, err := strconv.Atoi(action.Value)
		if err != nil || page < 0 {
			d.answer(ctx, cb.ID, "")
			return
		}
		models, err := d.ai.ListModels(ctx, sess.APIKey)
		if err != nil {
			log.Printf("[dispatch] model list failed: %v", err)
			d.answer(ctx, cb.ID, d.loc.T(lang, i18n.KeyModelsFailed, nil))
			return
		}
		d.answer(ctx, cb.ID, "")
		text := d.loc.T(lang, i18n.KeyChooseModel, map[string]string{"page": strconv.Itoa(page + 1)})
		d.editCallbackMessage(ctx, cb, text, modelKeyboard(models, page))

	case telegram.ActionSetLang:
		if !d.loc.Supported(action.Value) {
			d.answer(ctx, cb.ID, "")
			return
		}
		d.sessions.Update(ctx, cb.From.ID, func(sess *model.UserSession) {
			sess.Language = action.Value
		})
		d.answer(ctx, cb.ID, "")
		// Confirm in the language just chosen, not the previous one.
		d.editCallbackMessage(ctx, cb, d.loc.T(action.Value, i18n.KeyLangSet, nil), nil)

	case telegram.ActionSetPersona:
		p, ok := d.personas.FindByID(action.Value)
		if !ok {
			log.Printf("[dispatch] unknown persona %q", action.Value)
			d.answer(ctx, cb.ID, "")
			return
		}
		d.sessions.Update(ctx, cb.From.ID, func(sess *model.UserSession) {
			sess.SystemPrompt = p.SystemPrompt
		})
		d.answer(ctx, cb.ID, "")
		d.editCallbackMessage(ctx, cb, d.loc.T(lang, i18n.KeyPersonaSet, map[string]string{"name": p.Name}), nil)

	case telegram.ActionToggleSearch:
		enabled := action.Value == "on"
		d.sessions.Update(ctx, cb.From.ID, func(sess *model.UserSession) {
			sess.SearchEnabled = enabled
		})
		state := i18n.KeySearchOff
		if enabled {
			state = i18n.KeySearchOn
		}
		d.answer(ctx, cb.ID, "")
		d.editCallbackMessage(ctx, cb, d.loc.T(lang, state, nil), toggleKeyboard())

	case telegram.ActionDelToken:
		d.sessions.Update(ctx, cb.From.ID, func(sess *model.UserSession) {
			sess.APIKey = ""
		})
		d.answer(ctx, cb.ID, "")
		d.editCallbackMessage(ctx, cb, d.loc.T(lang, i18n.KeyKeyDeleted, nil), nil)

	default:
		d.answer(ctx, cb.ID, "")
	}
}

// editCallbackMessage replaces the keyboard message in place. Callbacks
// on messages too old for Telegram to reference carry no Message.
func (d *Dispatcher) editCallbackMessage(ctx context.Context, cb *telegram.CallbackQuery, text string, markup *telegram.InlineKeyboardMarkup) {
	if cb.Message == nil {
		return
	}
	err := d.tg.EditMessageText(ctx, cb.Message.Chat.ID, cb.Message.MessageID, text, markup)
	if err != nil && !telegram.IsNotModified(err) {
		log.Printf("[dispatch] callback edit failed: %v", err)
	}
}
