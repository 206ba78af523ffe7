package dispatch

import (
	"strings"
	"unicode"

	model "github.com/okatkov/tgsage/internal/model/session"
)

// followUpCues are words that suggest the message refers back to
// something said before rather than standing on its own.
var followUpCues = map[string]struct{}{
	// en
	"it": {}, "that": {}, "this": {}, "these": {}, "those": {},
	"they": {}, "them": {}, "there": {}, "he": {}, "she": {},
	"why": {}, "how": {}, "more": {}, "also": {}, "else": {},
	// ru
	"это": {}, "этого": {}, "оно": {}, "он": {}, "она": {}, "они": {},
	"там": {}, "почему": {}, "зачем": {}, "как": {}, "ещё": {}, "еще": {},
	"подробнее": {}, "тоже": {},
}

// rewriteFollowUp prefixes short anaphoric messages with the last
// search query, so "why did it fail?" right after a search about a
// topic reaches the model with that topic attached. Applies only while
// search context is enabled and the search is recent.
func (d *Dispatcher) rewriteFollowUp(sess model.UserSession, text string) string {
	if !sess.SearchEnabled || !sess.SearchedWithin(followUpWindow, d.now()) {
		return text
	}
	if !hasFollowUpCue(text) {
		return text
	}
	return sess.LastSearchQuery + ": " + text
}

func hasFollowUpCue(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		if _, ok := followUpCues[w]; ok {
			return true
		}
	}
	return false
}
