package i18n

import (
	"context"
	"fmt"
	"sync"

	"culture-millionaire/internal/domain"
)

// PreferenceStore persists the selected language per key (a player id, or a
// fixed key for a single local player).
type PreferenceStore interface {
	LoadLanguage(ctx context.Context, key string) (domain.Language, bool, error)
	SaveLanguage(ctx context.Context, key string, lang domain.Language) error
}

// Preferences tracks the active language per key. A key is loaded from the
// store on first use and written back on every change.
type Preferences struct {
	store    PreferenceStore
	fallback domain.Language

	mu     sync.Mutex
	loaded map[string]domain.Language
}

func NewPreferences(store PreferenceStore, fallback domain.Language) *Preferences {
	if fallback == "" {
		fallback = domain.LanguageSpanish
	}
	return &Preferences{
		store:    store,
		fallback: fallback,
		loaded:   make(map[string]domain.Language),
	}
}

// Language returns the active language for key.
func (p *Preferences) Language(ctx context.Context, key string) (domain.Language, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.languageLocked(ctx, key)
}

func (p *Preferences) languageLocked(ctx context.Context, key string) (domain.Language, error) {
	if lang, ok := p.loaded[key]; ok {
		return lang, nil
	}
	lang, found, err := p.store.LoadLanguage(ctx, key)
	if err != nil {
		return p.fallback, fmt.Errorf("load language preference: %w", err)
	}
	if !found {
		lang = p.fallback
	}
	p.loaded[key] = lang
	return lang, nil
}

// SetLanguage selects lang for key and persists it.
func (p *Preferences) SetLanguage(ctx context.Context, key string, lang domain.Language) error {
	if _, err := domain.ParseLanguage(string(lang)); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(ctx, key, lang)
}

// ToggleLanguage switches key to the other language and returns it.
func (p *Preferences) ToggleLanguage(ctx context.Context, key string) (domain.Language, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	current, err := p.languageLocked(ctx, key)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := p.setLocked(ctx, key, next); err != nil {
		return current, err
	}
	return next, nil
}

func (p *Preferences) setLocked(ctx context.Context, key string, lang domain.Language) error {
	if err := p.store.SaveLanguage(ctx, key, lang); err != nil {
		return fmt.Errorf("save language preference: %w", err)
	}
	p.loaded[key] = lang
	return nil
}

// Forget drops the cached value for key so the next read goes to the store.
func (p *Preferences) Forget(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.loaded, key)
}
