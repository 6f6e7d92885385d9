package app_test

import (
	"errors"
	"math/rand"
	"testing"

	"culture-millionaire/internal/app"
	"culture-millionaire/internal/domain"
)

func TestBuildRoundShape(t *testing.T) {
	bank := testBank(t)
	for seed := int64(1); seed <= 25; seed++ {
		questions, err := app.BuildRound(bank, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("build round: %v", err)
		}
		if len(questions) != domain.QuestionsPerRound {
			t.Fatalf("expected %d questions, got %d", domain.QuestionsPerRound, len(questions))
		}
		ids := map[string]bool{}
		sources := map[string]bool{}
		for i, q := range questions {
			if ids[q.ID] || sources[q.SourceID] {
				t.Fatalf("seed %d: duplicate question at %d", seed, i)
			}
			ids[q.ID] = true
			sources[q.SourceID] = true
			if q.Index != i || q.Prize != domain.PrizeLadder()[i] {
				t.Fatalf("seed %d: question %d bound to index %d prize %d", seed, i, q.Index, q.Prize)
			}
			if len(q.Options) != domain.OptionsPerQuestion {
				t.Fatalf("expected 4 options, got %d", len(q.Options))
			}
			optionIDs := map[string]bool{}
			for _, opt := range q.Options {
				optionIDs[opt.ID] = true
			}
			if len(optionIDs) != domain.OptionsPerQuestion || !optionIDs[q.CorrectOptionID] {
				t.Fatalf("seed %d: bad option ids for %s", seed, q.SourceID)
			}
		}
	}
}

func TestBuildRoundKeepsCorrectAnswerText(t *testing.T) {
	bank := testBank(t)
	byID := map[string]domain.BankEntry{}
	for _, entry := range bank {
		byID[entry.ID] = entry
	}
	questions, err := app.BuildRound(bank, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("build round: %v", err)
	}
	for _, q := range questions {
		entry := byID[q.SourceID]
		if q.CorrectOption().Text != entry.Options[entry.Answer] {
			t.Fatalf("%s: correct option %+v, want %+v", q.SourceID, q.CorrectOption().Text, entry.Options[entry.Answer])
		}
	}
}

func TestBuildRoundMintsFreshOptionIDs(t *testing.T) {
	bank := testBank(t)
	rnd := rand.New(rand.NewSource(3))
	first, err := app.BuildRound(bank, rnd)
	if err != nil {
		t.Fatalf("build round: %v", err)
	}
	second, err := app.BuildRound(bank, rnd)
	if err != nil {
		t.Fatalf("build round: %v", err)
	}
	seen := map[string]bool{}
	for _, q := range first {
		for _, opt := range q.Options {
			seen[opt.ID] = true
		}
	}
	for _, q := range second {
		for _, opt := range q.Options {
			if seen[opt.ID] {
				t.Fatalf("option id %s reused across rounds", opt.ID)
			}
		}
	}
}

func TestBuildRoundInsufficientContent(t *testing.T) {
	bank := testBank(t)[:domain.QuestionsPerRound-1]
	if _, err := app.BuildRound(bank, rand.New(rand.NewSource(1))); !errors.Is(err, domain.ErrInsufficientContent) {
		t.Fatalf("expected insufficient content, got %v", err)
	}
	if _, err := app.NewEngine(bank, nil); !errors.Is(err, domain.ErrInsufficientContent) {
		t.Fatalf("expected engine to reject small bank, got %v", err)
	}
}
