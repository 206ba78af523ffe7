// Package command classifies raw message text into canonical bot
// commands, tolerating small typos.
package command

import (
	"strings"
)

// Canonical command names.
const (
	Start    = "start"
	Help     = "help"
	Ask      = "ask"
	Search   = "search"
	Model    = "model"
	Persona  = "persona"
	Lang     = "lang"
	Token    = "token"
	DelToken = "deltoken"
	Toggle   = "toggle"
	Reset    = "reset"
	Status   = "status"
)

// known is the canonical command list. Its order is the tie-break
// order for fuzzy matches: the first command at the minimum edit
// distance wins.
var known = []string{
	Start,
	Help,
	Ask,
	Search,
	Model,
	Persona,
	Lang,
	Token,
	DelToken,
	Toggle,
	Reset,
	Status,
}

// maxDistance is the largest edit distance still accepted as a match.
const maxDistance = 2

// Known returns the canonical command list in tie-break order.
func Known() []string {
	return append([]string(nil), known...)
}

// IsCommand reports whether text is command-shaped (starts with "/").
func IsCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}

// Match maps raw text to a canonical command name. The second return
// is false when the text is not command-shaped or no known command is
// within the accepted edit distance.
func Match(text string) (string, bool) {
	token := commandToken(text)
	if token == "" {
		return "", false
	}

	for _, name := range known {
		if token == name {
			return name, true
		}
	}

	best := ""
	bestDistance := maxDistance + 1
	for _, name := range known {
		if d := Levenshtein(token, name); d < bestDistance {
			best = name
			bestDistance = d
		}
	}
	if bestDistance > maxDistance {
		return "", false
	}
	return best, true
}

// Split returns the canonical command and the argument remainder
// ("/ask  why is the sky blue" yields "ask", "why is the sky blue").
func Split(text string) (name, args string, ok bool) {
	name, ok = Match(text)
	if !ok {
		return "", "", false
	}

	if _, rest, found := strings.Cut(text, " "); found {
		args = strings.TrimSpace(rest)
	}
	return name, args, true
}

// commandToken extracts the lower-cased leading token of a
// command-shaped input, minus the marker and any @botname mention.
func commandToken(text string) string {
	if !IsCommand(text) {
		return ""
	}

	token := strings.TrimPrefix(text, "/")
	if i := strings.IndexByte(token, ' '); i >= 0 {
		token = token[:i]
	}
	if i := strings.IndexByte(token, '@'); i >= 0 {
		token = token[:i]
	}
	return strings.ToLower(token)
}

// Levenshtein computes the classic dynamic-programming edit distance,
// case-insensitive.
func Levenshtein(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
