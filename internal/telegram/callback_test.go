package telegram_test

import (
	"testing"

	"github.com/okatkov/tgsage/internal/telegram"
)

func TestCallbackRoundTrip(t *testing.T) {
	cases := []telegram.Callback{
		{Action: telegram.ActionSetModel, Value: "openai/gpt-4o-mini"},
		{Action: telegram.ActionModelPage, Value: "3"},
		{Action: telegram.ActionSetLang, Value: "ru"},
		{Action: telegram.ActionSetPersona, Value: "developer"},
		{Action: telegram.ActionToggleSearch, Value: "off"},
		{Action: telegram.ActionDelToken},
	}

	for _, c := range cases {
		wire := c.Encode()
		got, err := telegram.ParseCallback(wire)
		if err != nil {
			t.Fatalf("ParseCallback(%q) err: %v", wire, err)
		}
		if got != c {
			t.Fatalf("round trip mismatch: %+v vs %+v", got, c)
		}
	}
}

func TestCallbackWireFormat(t *testing.T) {
	c := telegram.Callback{Action: telegram.ActionSetModel, Value: "x/y"}
	if wire := c.Encode(); wire != "setmodel_x/y" {
		t.Fatalf("unexpected wire form: %q", wire)
	}
}

func TestParseCallbackRejectsUnknown(t *testing.T) {
	for _, data := range []string{"", "bogus_1", "setmodelx"} {
		if _, err := telegram.ParseCallback(data); err == nil {
			t.Fatalf("ParseCallback(%q): expected error", data)
		}
	}
}

func TestParseCallbackValueMayContainSeparators(t *testing.T) {
	got, err := telegram.ParseCallback("setmodel_anthropic/claude_3")
	if err != nil {
		t.Fatalf("ParseCallback err: %v", err)
	}
	if got.Value != "anthropic/claude_3" {
		t.Fatalf("unexpected value: %q", got.Value)
	}
}
