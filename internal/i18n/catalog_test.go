package i18n

import (
	"strings"
	"testing"
	"testing/fstest"

	"culture-millionaire/internal/domain"
)

func TestEmbeddedCatalogLabels(t *testing.T) {
	c := MustLoadEmbedded()

	if got := c.Text(KeyCashOutButton, domain.LanguageEnglish); got != "Cash Out" {
		t.Fatalf("expected Cash Out, got %q", got)
	}
	if got := c.Text(KeyCashOutButton, domain.LanguageSpanish); got != "Retirarse" {
		t.Fatalf("expected Retirarse, got %q", got)
	}
	if got := c.LifelineName(domain.LifelineExpert, domain.LanguageSpanish); got != "Experto" {
		t.Fatalf("expected Experto, got %q", got)
	}
	if got := c.SafeLevelLabel(domain.LanguageSpanish); got != "NIVEL SEGURO" {
		t.Fatalf("expected NIVEL SEGURO, got %q", got)
	}
	if c.CurrentPrizeLabel(domain.LanguageEnglish) != "Current Prize" || c.EliminatedTag(domain.LanguageSpanish) != "Eliminada" {
		t.Fatalf("unexpected prize or eliminated labels")
	}
	if got := c.Text(Key("missing.key"), domain.LanguageEnglish); got != "missing.key" {
		t.Fatalf("expected unknown key verbatim, got %q", got)
	}
}

func TestMessageBuilders(t *testing.T) {
	c := MustLoadEmbedded()

	if got := c.WinMessage(domain.LanguageEnglish, 1000000); got != "You won $1,000,000! You cleared every question." {
		t.Fatalf("unexpected win message %q", got)
	}
	if got := c.WithdrawMessage(domain.LanguageEnglish, 0); got != "You decided to cash out with $0! Well played!" {
		t.Fatalf("unexpected withdraw message %q", got)
	}
	got := c.GameOverMessage(domain.LanguageEnglish, "Paris", 1000)
	if got != "The correct answer was: Paris.\n\nYou leave with $1,000." {
		t.Fatalf("unexpected game over message %q", got)
	}
	hint := c.LifelineMessage(domain.LifelineExpert, domain.LanguageSpanish, "Es un felino manchado.")
	if !strings.Contains(hint, "Es un felino manchado.") || !strings.HasPrefix(hint, "El experto") {
		t.Fatalf("unexpected expert message %q", hint)
	}
	if got := c.LifelineTitle(domain.LifelineAudience, domain.LanguageEnglish); got != "Global Audience Poll" {
		t.Fatalf("unexpected audience title %q", got)
	}
	if got := c.FormatAmount(domain.LanguageEnglish, 32000); got != "$32,000" {
		t.Fatalf("unexpected amount %q", got)
	}
}

func TestLoadFromFSRejectsMissingKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/es.yaml": {Data: []byte("locale: es\nmessages:\n  a: uno\n  b: dos\n")},
		"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  a: one\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatalf("expected error for mismatched locales")
	}
}

func TestLoadFromFSRequiresEveryLanguage(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/es.yaml": {Data: []byte("locale: es\nmessages:\n  a: uno\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatalf("expected error when english is missing")
	}
}
