package memory

import (
	"context"
	"testing"

	"culture-millionaire/internal/domain"
	"culture-millionaire/internal/i18n"
)

func TestLanguageStoreBacksPreferences(t *testing.T) {
	store := NewLanguageStore()
	ctx := context.Background()

	if _, ok, err := store.LoadLanguage(ctx, "player-1"); ok || err != nil {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}

	prefs := i18n.NewPreferences(store, domain.LanguageSpanish)
	next, err := prefs.ToggleLanguage(ctx, "player-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if next != domain.LanguageEnglish {
		t.Fatalf("expected en, got %s", next)
	}
	lang, ok, _ := store.LoadLanguage(ctx, "player-1")
	if !ok || lang != domain.LanguageEnglish {
		t.Fatalf("expected persisted en, got %q (%v)", lang, ok)
	}
}
