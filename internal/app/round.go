package app

import (
	"fmt"

	"culture-millionaire/internal/domain"
	"github.com/google/uuid"
)

// RandomSource is the subset of *rand.Rand the engine needs.
type RandomSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// BuildRound draws QuestionsPerRound distinct entries from bank without
// replacement and binds them to the prize ladder in drawn order. Each question
// gets freshly minted ids and its options shuffled once.
func BuildRound(bank []domain.BankEntry, rnd RandomSource) ([]domain.Question, error) {
	if len(bank) < domain.QuestionsPerRound {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientContent, len(bank), domain.QuestionsPerRound)
	}

	order := make([]int, len(bank))
	for i := range order {
		order[i] = i
	}
	rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	questions := make([]domain.Question, 0, domain.QuestionsPerRound)
	for index, bankIdx := range order[:domain.QuestionsPerRound] {
		q, err := bindQuestion(bank[bankIdx], index, rnd)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func bindQuestion(entry domain.BankEntry, index int, rnd RandomSource) (domain.Question, error) {
	if err := domain.ValidateEntry(entry); err != nil {
		return domain.Question{}, err
	}

	options := make([]domain.Option, len(entry.Options))
	correctID := ""
	for i, text := range entry.Options {
		options[i] = domain.Option{ID: uuid.NewString(), Text: text}
		if i == entry.Answer {
			correctID = options[i].ID
		}
	}
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.Question{
		ID:              uuid.NewString(),
		SourceID:        entry.ID,
		Text:            entry.Text,
		Hint:            entry.Hint,
		Options:         options,
		CorrectOptionID: correctID,
		Prize:           domain.PrizeAt(index),
		Index:           index,
	}, nil
}
