package app

import "culture-millionaire/internal/domain"

const (
	pollCorrectMin = 50
	pollCorrectMax = 70
)

// SimulatePoll allocates 100 percentage points across the options of q, keyed
// by display label. The correct option gets [50,70]; each incorrect option but
// the last draws from what is left and the last takes the remainder.
func SimulatePoll(q domain.Question, rnd RandomSource) map[string]int {
	poll := make(map[string]int, len(q.Options))
	correctShare := pollCorrectMin + rnd.Intn(pollCorrectMax-pollCorrectMin+1)
	remaining := 100 - correctShare

	incorrect := 0
	for _, opt := range q.Options {
		if opt.ID != q.CorrectOptionID {
			incorrect++
		}
	}

	seen := 0
	for i, opt := range q.Options {
		label := domain.OptionLabel(i)
		if opt.ID == q.CorrectOptionID {
			poll[label] = correctShare
			continue
		}
		seen++
		share := remaining
		if seen < incorrect {
			share = rnd.Intn(remaining + 1)
		}
		poll[label] = share
		remaining -= share
	}
	return poll
}
