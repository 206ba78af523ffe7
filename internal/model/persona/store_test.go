package persona_test

import (
	"testing"

	"github.com/okatkov/tgsage/internal/model/persona"
)

func TestSeedHasUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range persona.Seed() {
		if p.ID == "" || p.SystemPrompt == "" {
			t.Fatalf("persona %q missing id or prompt", p.Name)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate persona id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestFindByID(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())

	p, ok := store.FindByID("developer")
	if !ok {
		t.Fatal("expected developer persona")
	}
	if p.Name != "Developer" {
		t.Fatalf("unexpected persona: %+v", p)
	}

	if _, ok := store.FindByID("missing"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestListIsCopy(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())

	list := store.List()
	list[0].Name = "mutated"

	again := store.List()
	if again[0].Name == "mutated" {
		t.Fatal("List must return a copy")
	}
}
