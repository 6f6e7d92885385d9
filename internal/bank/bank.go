// Package bank holds the built-in trivia question bank.
package bank

import (
	_ "embed"
	"fmt"

	"culture-millionaire/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultQuestions []byte

// Default returns the embedded question bank.
func Default() ([]domain.BankEntry, error) {
	return Parse(defaultQuestions)
}

// Parse decodes a YAML list of bank entries and validates it.
func Parse(data []byte) ([]domain.BankEntry, error) {
	var entries []domain.BankEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if err := domain.ValidateBank(entries); err != nil {
		return nil, err
	}
	return entries, nil
}
