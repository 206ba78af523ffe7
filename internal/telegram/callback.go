package telegram

import (
	"fmt"
	"strings"
)

// Action discriminates callback payloads. The wire form is
// "<action>_<value>"; it is produced and parsed only here, so business
// code works with the typed Callback instead of prefix-matching
// strings.
type Action string

const (
	ActionSetModel     Action = "setmodel"
	ActionModelPage    Action = "modelpage"
	ActionSetLang      Action = "setlang"
	ActionSetPersona   Action = "setpersona"
	ActionToggleSearch Action = "togglesearch"
	ActionDelToken     Action = "deltoken"
)

var knownActions = []Action{
	ActionSetModel,
	ActionModelPage,
	ActionSetLang,
	ActionSetPersona,
	ActionToggleSearch,
	ActionDelToken,
}

// Callback is the decoded callback-data tagged union.
type Callback struct {
	Action Action
	Value  string
}

// Encode renders the callback into its wire form. Telegram caps
// callback data at 64 bytes; model ids fit, values are never composed.
func (c Callback) Encode() string {
	if c.Value == "" {
		return string(c.Action)
	}
	return fmt.Sprintf("%s_%s", c.Action, c.Value)
}

// ParseCallback decodes wire-form callback data.
func ParseCallback(data string) (Callback, error) {
	for _, action := range knownActions {
		prefix := string(action)
		if data == prefix {
			return Callback{Action: action}, nil
		}
		if strings.HasPrefix(data, prefix+"_") {
			return Callback{
				Action: action,
				Value:  data[len(prefix)+1:],
			}, nil
		}
	}
	return Callback{}, fmt.Errorf("unknown callback data %q", data)
}
