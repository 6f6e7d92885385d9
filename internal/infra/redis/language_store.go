package redis

import (
	"context"
	"fmt"

	"culture-millionaire/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LanguageStore persists language preferences as plain keys:
// SET millionaire:lang:{key} es|en
type LanguageStore struct {
	client *redis.Client
}

func NewLanguageStore(client *redis.Client) *LanguageStore {
	return &LanguageStore{client: client}
}

func (s *LanguageStore) LoadLanguage(ctx context.Context, key string) (domain.Language, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Result()
	if isMiss(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get language: %w", err)
	}
	lang, err := domain.ParseLanguage(raw)
	if err != nil {
		// unknown stored values fall back to the default
		return "", false, nil
	}
	return lang, true, nil
}

func (s *LanguageStore) SaveLanguage(ctx context.Context, key string, lang domain.Language) error {
	if err := s.client.Set(ctx, s.key(key), string(lang), 0).Err(); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

func (s *LanguageStore) key(key string) string {
	return "millionaire:lang:" + key
}
