package config

import (
	"testing"
	"time"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when TELEGRAM_TOKEN is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.AI.MaxHistory != 10 {
		t.Fatalf("unexpected max history: %d", cfg.AI.MaxHistory)
	}
	if cfg.AI.EditInterval != 1500*time.Millisecond {
		t.Fatalf("unexpected edit interval: %s", cfg.AI.EditInterval)
	}
	if cfg.AI.DefaultLanguage != "en" {
		t.Fatalf("unexpected language: %s", cfg.AI.DefaultLanguage)
	}
	if cfg.Search.CacheTTL != 4*time.Hour {
		t.Fatalf("unexpected cache ttl: %s", cfg.Search.CacheTTL)
	}
	if len(cfg.Bot.AllowedUserIDs) != 0 {
		t.Fatalf("expected empty allow-list, got %v", cfg.Bot.AllowedUserIDs)
	}
}

func TestLoadAllowList(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ALLOWED_USER_IDS", "42, 1001,7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	want := []int64{42, 1001, 7}
	if len(cfg.Bot.AllowedUserIDs) != len(want) {
		t.Fatalf("unexpected allow-list: %v", cfg.Bot.AllowedUserIDs)
	}
	for i, id := range want {
		if cfg.Bot.AllowedUserIDs[i] != id {
			t.Fatalf("allow-list[%d]: got %d want %d", i, cfg.Bot.AllowedUserIDs[i], id)
		}
	}
}

func TestLoadRejectsBadAllowList(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ALLOWED_USER_IDS", "42,abc")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric allow-list entry")
	}
}

func TestLoadPortVariants(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("PORT", "127.0.0.1:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}

	t.Setenv("PORT", "bad port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for PORT with spaces")
	}
}
