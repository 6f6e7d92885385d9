package app_test

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"culture-millionaire/internal/app"
	"culture-millionaire/internal/bank"
	"culture-millionaire/internal/domain"
	"culture-millionaire/internal/i18n"
)

// manualScheduler queues callbacks until the test fires them.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) app.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, fn: f}
	s.pending = append(s.pending, t)
	return t
}

// fireNext runs the oldest queued callback; it reports false when none is queued.
func (s *manualScheduler) fireNext() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false
	}
	t := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()
	if !t.stopped {
		t.fn()
	}
	return true
}

func (s *manualScheduler) runAll() {
	for s.fireNext() {
	}
}

func testBank(t *testing.T) []domain.BankEntry {
	t.Helper()
	entries, err := bank.Default()
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	return entries
}

func newTestEngine(t *testing.T, seed int64) (*app.Engine, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	engine, err := app.NewEngine(testBank(t), i18n.MustLoadEmbedded(),
		app.WithRandom(rand.New(rand.NewSource(seed))),
		app.WithScheduler(sched),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, sched
}

func wrongOption(q domain.Question, eliminated []string) string {
	skip := map[string]bool{q.CorrectOptionID: true}
	for _, id := range eliminated {
		skip[id] = true
	}
	for _, opt := range q.Options {
		if !skip[opt.ID] {
			return opt.ID
		}
	}
	return ""
}

// answer submits optionID and runs the reveal and resolve timers.
func answer(t *testing.T, e *app.Engine, sched *manualScheduler, optionID string) {
	t.Helper()
	if err := e.SubmitAnswer(optionID); err != nil {
		t.Fatalf("submit answer at index %d: %v", e.CurrentIndex(), err)
	}
	sched.runAll()
}

func answerCorrectly(t *testing.T, e *app.Engine, sched *manualScheduler, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		answer(t, e, sched, e.CurrentQuestion().CorrectOptionID)
	}
}
