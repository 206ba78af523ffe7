package dispatch

import (
	"strconv"

	"github.com/okatkov/tgsage/internal/model/persona"
	"github.com/okatkov/tgsage/internal/service/ai"
	"github.com/okatkov/tgsage/internal/telegram"
)

// modelPageSize is how many model buttons fit on one keyboard page.
const modelPageSize = 8

var langLabels = map[string]string{
	"en": "English",
	"ru": "Русский",
}

// modelKeyboard renders one page of the model list plus navigation.
// Pages are zero-based internally; labels are one-based.
func modelKeyboard(models []ai.Model, page int) *telegram.InlineKeyboardMarkup {
	lastPage := 0
	if len(models) > 0 {
		lastPage = (len(models) - 1) / modelPageSize
	}
	if page < 0 {
		page = 0
	}
	if page > lastPage {
		page = lastPage
	}

	start := page * modelPageSize
	end := start + modelPageSize
	if end > len(models) {
		end = len(models)
	}

	rows := make([][]telegram.InlineKeyboardButton, 0, modelPageSize+1)
	for _, m := range models[start:end] {
		label := m.Name
		if label == "" {
			label = m.ID
		}
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         label,
			CallbackData: telegram.Callback{Action: telegram.ActionSetModel, Value: m.ID}.Encode(),
		}})
	}

	var nav []telegram.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, telegram.InlineKeyboardButton{
			Text:         "«",
			CallbackData: telegram.Callback{Action: telegram.ActionModelPage, Value: strconv.Itoa(page - 1)}.Encode(),
		})
	}
	if page < lastPage {
		nav = append(nav, telegram.InlineKeyboardButton{
			Text:         "»",
			CallbackData: telegram.Callback{Action: telegram.ActionModelPage, Value: strconv.Itoa(page + 1)}.Encode(),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func personaKeyboard(personas []persona.Persona) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(personas))
	for _, p := range personas {
		label := p.Name
		if p.Title != "" {
			label = p.Name + " – " + p.Title
		}
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         label,
			CallbackData: telegram.Callback{Action: telegram.ActionSetPersona, Value: p.ID}.Encode(),
		}})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func langKeyboard(langs []string) *telegram.InlineKeyboardMarkup {
	row := make([]telegram.InlineKeyboardButton, 0, len(langs))
	for _, lang := range langs {
		label := langLabels[lang]
		if label == "" {
			label = lang
		}
		row = append(row, telegram.InlineKeyboardButton{
			Text:         label,
			CallbackData: telegram.Callback{Action: telegram.ActionSetLang, Value: lang}.Encode(),
		})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{row}}
}

func toggleKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{
				Text:         "On",
				CallbackData: telegram.Callback{Action: telegram.ActionToggleSearch, Value: "on"}.Encode(),
			},
			{
				Text:         "Off",
				CallbackData: telegram.Callback{Action: telegram.ActionToggleSearch, Value: "off"}.Encode(),
			},
		}},
	}
}
