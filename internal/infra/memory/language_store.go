package memory

import (
	"context"
	"sync"

	"culture-millionaire/internal/domain"
)

// LanguageStore keeps language preferences for the life of the process.
type LanguageStore struct {
	mu    sync.RWMutex
	langs map[string]domain.Language
}

func NewLanguageStore() *LanguageStore {
	return &LanguageStore{langs: make(map[string]domain.Language)}
}

func (s *LanguageStore) LoadLanguage(_ context.Context, key string) (domain.Language, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lang, ok := s.langs[key]
	return lang, ok, nil
}

func (s *LanguageStore) SaveLanguage(_ context.Context, key string, lang domain.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.langs[key] = lang
	return nil
}
