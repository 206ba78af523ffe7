package i18n_test

import (
	"strings"
	"testing"

	"github.com/okatkov/tgsage/internal/i18n"
)

func TestTSubstitutesPlaceholders(t *testing.T) {
	catalog := i18n.New("en")

	got := catalog.T("en", i18n.KeyAskFailedStatus, map[string]string{"status": "429"})
	if !strings.Contains(got, "429") {
		t.Fatalf("placeholder not substituted: %q", got)
	}
	if strings.Contains(got, "{status}") {
		t.Fatalf("placeholder left in output: %q", got)
	}
}

func TestTFallsBackToDefaultLanguage(t *testing.T) {
	catalog := i18n.New("en")

	en := catalog.T("en", i18n.KeyHelp, nil)
	de := catalog.T("de", i18n.KeyHelp, nil)
	if de != en {
		t.Fatalf("expected fallback to en, got %q", de)
	}
}

func TestTUnknownKeyReturnsKey(t *testing.T) {
	catalog := i18n.New("en")

	if got := catalog.T("en", "no_such_key", nil); got != "no_such_key" {
		t.Fatalf("unexpected resolution: %q", got)
	}
}

func TestEveryKeyExistsInEveryLanguage(t *testing.T) {
	catalog := i18n.New("en")

	keys := []string{
		i18n.KeyStart, i18n.KeyHelp, i18n.KeyUnauthorized, i18n.KeyUnknownCommand,
		i18n.KeyKeyRequired, i18n.KeyKeySaved, i18n.KeyKeyInvalid, i18n.KeyKeyDeleted,
		i18n.KeyDelTokenConfirm, i18n.KeyDelTokenButton,
		i18n.KeyKeyMissingArg, i18n.KeyThinking, i18n.KeyAskFailed, i18n.KeyAskFailedStatus,
		i18n.KeyNoContent, i18n.KeyAskEmpty, i18n.KeySearchEmptyArg, i18n.KeySearchFailed,
		i18n.KeySearchNoResults, i18n.KeySearchDisabled, i18n.KeySearchOn, i18n.KeySearchOff,
		i18n.KeyChooseModel, i18n.KeyModelSet, i18n.KeyModelInvalid, i18n.KeyModelsFailed,
		i18n.KeyChoosePersona, i18n.KeyPersonaSet, i18n.KeyChooseLang, i18n.KeyLangSet,
		i18n.KeyResetDone, i18n.KeyStatus, i18n.KeyServerError,
	}

	for _, lang := range catalog.Languages() {
		if !catalog.Supported(lang) {
			t.Fatalf("language %q not supported", lang)
		}
		for _, key := range keys {
			if got := catalog.T(lang, key, nil); got == key {
				t.Fatalf("missing %s/%s", lang, key)
			}
		}
	}
}
