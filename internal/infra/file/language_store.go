// Package file persists small settings documents on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"culture-millionaire/internal/domain"
	"gopkg.in/yaml.v3"
)

// LanguageStore keeps every language preference in one YAML document:
//
//	languages:
//	  player-1: en
type LanguageStore struct {
	path string
	mu   sync.Mutex
}

type languageDocument struct {
	Languages map[string]string `yaml:"languages"`
}

func NewLanguageStore(path string) *LanguageStore {
	return &LanguageStore{path: path}
}

func (s *LanguageStore) LoadLanguage(_ context.Context, key string) (domain.Language, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	raw, ok := doc.Languages[key]
	if !ok {
		return "", false, nil
	}
	lang, err := domain.ParseLanguage(raw)
	if err != nil {
		return "", false, nil
	}
	return lang, true, nil
}

func (s *LanguageStore) SaveLanguage(_ context.Context, key string, lang domain.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Languages[key] = string(lang)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode languages: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write languages: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *LanguageStore) read() (languageDocument, error) {
	doc := languageDocument{Languages: map[string]string{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read languages: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse languages: %w", err)
	}
	if doc.Languages == nil {
		doc.Languages = map[string]string{}
	}
	return doc, nil
}
