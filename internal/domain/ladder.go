package domain

// QuestionsPerRound is the length of the prize ladder.
const QuestionsPerRound = 15

// OptionsPerQuestion is the number of answer choices per question.
const OptionsPerQuestion = 4

var prizeLadder = [QuestionsPerRound]int{
	100, 200, 300, 500, 1000,
	2000, 4000, 8000, 16000, 32000,
	64000, 125000, 250000, 500000, 1000000,
}

// safeLevels are ladder indices whose prize becomes a payout floor once cleared.
var safeLevels = [...]int{4, 9, 14}

// PrizeLadder returns a copy of the ladder.
func PrizeLadder() []int {
	out := make([]int, len(prizeLadder))
	copy(out, prizeLadder[:])
	return out
}

// TopPrize is the prize for clearing the last question.
func TopPrize() int {
	return prizeLadder[len(prizeLadder)-1]
}

// PrizeAt returns the ladder prize at index, or 0 if out of range.
func PrizeAt(index int) int {
	if index < 0 || index >= len(prizeLadder) {
		return 0
	}
	return prizeLadder[index]
}

// IsSafeLevel reports whether index is one of the guaranteed levels.
func IsSafeLevel(index int) bool {
	for _, lvl := range safeLevels {
		if lvl == index {
			return true
		}
	}
	return false
}

// SafePrizeWon is the prize of the highest safe level strictly below currentIndex.
func SafePrizeWon(currentIndex int) int {
	for i := currentIndex - 1; i >= 0; i-- {
		if IsSafeLevel(i) {
			return PrizeAt(i)
		}
	}
	return 0
}

// AccumulatedPrize is the prize of the last completed question, or the top prize once won.
func AccumulatedPrize(phase Phase, currentIndex int) int {
	if phase == PhaseWon {
		return TopPrize()
	}
	if currentIndex <= 0 {
		return 0
	}
	last := currentIndex - 1
	if last >= len(prizeLadder) {
		last = len(prizeLadder) - 1
	}
	return prizeLadder[last]
}
