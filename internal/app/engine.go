package app

import (
	"fmt"
	"sync"
	"time"

	"culture-millionaire/internal/domain"
	"culture-millionaire/internal/i18n"
	"culture-millionaire/internal/random"
	"go.uber.org/zap"
)

const (
	DefaultRevealDelay  = 500 * time.Millisecond
	DefaultResolveDelay = 2 * time.Second
)

// Localizer builds user-facing strings from language-neutral data.
type Localizer interface {
	Text(key i18n.Key, lang domain.Language) string
	FormatAmount(lang domain.Language, amount int) string
	LifelineName(kind domain.LifelineKind, lang domain.Language) string
	LifelineTitle(kind domain.LifelineKind, lang domain.Language) string
	LifelineMessage(kind domain.LifelineKind, lang domain.Language, hint string) string
	WinTitle(lang domain.Language) string
	WinMessage(lang domain.Language, amount int) string
	GameOverTitle(lang domain.Language) string
	GameOverMessage(lang domain.Language, correctAnswer string, safePrize int) string
	WithdrawTitle(lang domain.Language) string
	WithdrawMessage(lang domain.Language, amount int) string
}

// RoundState is everything that changes during one round. It is replaced, never
// reset field by field, when a new game starts.
type RoundState struct {
	Questions        []domain.Question
	CurrentIndex     int
	Lifelines        domain.LifelineSet
	Phase            domain.Phase
	Eliminated       map[string]struct{}
	SelectedOptionID string
	RevealAnswer     bool
	AudiencePoll     map[string]int
	Modal            *domain.Modal
}

func newRoundState(questions []domain.Question) *RoundState {
	return &RoundState{
		Questions:    questions,
		Lifelines:    domain.NewLifelineSet(),
		Phase:        domain.PhasePlaying,
		Eliminated:   make(map[string]struct{}),
		AudiencePoll: make(map[string]int),
	}
}

func (s *RoundState) current() domain.Question {
	return s.Questions[s.CurrentIndex]
}

func (s *RoundState) clone() RoundState {
	out := *s
	out.Questions = append([]domain.Question(nil), s.Questions...)
	out.Lifelines = s.Lifelines.Clone()
	out.Eliminated = make(map[string]struct{}, len(s.Eliminated))
	for id := range s.Eliminated {
		out.Eliminated[id] = struct{}{}
	}
	out.AudiencePoll = copyPoll(s.AudiencePoll)
	if s.Modal != nil {
		modal := *s.Modal
		out.Modal = &modal
	}
	return out
}

// Update is sent to subscribers whenever the engine state changes.
type Update struct {
	Revision uint64
	Round    uint64
	Phase    domain.Phase
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithRandom replaces the engine's random source (tests use a fixed seed).
func WithRandom(rnd RandomSource) EngineOption {
	return func(e *Engine) { e.rnd = rnd }
}

// WithScheduler replaces the timer implementation used for the answer reveal.
func WithScheduler(s Scheduler) EngineOption {
	return func(e *Engine) { e.scheduler = s }
}

// WithDelays sets the reveal and resolve delays after an answer is submitted.
func WithDelays(reveal, resolve time.Duration) EngineOption {
	return func(e *Engine) {
		e.revealDelay = reveal
		e.resolveDelay = resolve
	}
}

func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// Engine is the game state machine for a single player. Commands and timer
// callbacks are serialized by mu.
type Engine struct {
	bank         []domain.BankEntry
	loc          Localizer
	rnd          RandomSource
	scheduler    Scheduler
	revealDelay  time.Duration
	resolveDelay time.Duration
	logger       *zap.Logger

	mu          sync.Mutex
	state       *RoundState
	generation  uint64
	timers      []Timer
	revision    uint64
	closed      bool
	subscribers map[chan Update]struct{}
}

// NewEngine validates bank and starts the first round.
func NewEngine(bank []domain.BankEntry, loc Localizer, opts ...EngineOption) (*Engine, error) {
	if err := domain.ValidateBank(bank); err != nil {
		return nil, err
	}
	e := &Engine{
		bank:         bank,
		loc:          loc,
		scheduler:    RealScheduler(),
		revealDelay:  DefaultRevealDelay,
		resolveDelay: DefaultResolveDelay,
		logger:       zap.NewNop(),
		subscribers:  make(map[chan Update]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = random.New()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.newGameLocked(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewGame discards the current round and starts a fresh one. Valid in any phase.
func (e *Engine) NewGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.newGameLocked()
}

func (e *Engine) newGameLocked() error {
	questions, err := BuildRound(e.bank, e.rnd)
	if err != nil {
		return err
	}
	e.stopTimersLocked()
	e.generation++
	e.state = newRoundState(questions)
	e.logger.Debug("round started", zap.Uint64("round", e.generation))
	e.notifyLocked()
	return nil
}

// UseLifeline consumes kind and applies its effect to the current question.
func (e *Engine) UseLifeline(kind domain.LifelineKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	if st.Phase != domain.PhasePlaying {
		return fmt.Errorf("%w: phase is %s", domain.ErrLifelineUnavailable, st.Phase)
	}
	if !st.Lifelines[kind] {
		return fmt.Errorf("%w: %s already used", domain.ErrLifelineUnavailable, kind)
	}

	q := st.current()
	st.Lifelines[kind] = false
	modal := &domain.Modal{Kind: domain.ModalLifeline, Lifeline: kind}

	switch kind {
	case domain.LifelineFiftyFifty:
		for _, id := range e.pickEliminations(q) {
			st.Eliminated[id] = struct{}{}
		}
	case domain.LifelineExpert:
		modal.Hint = q.Hint
	case domain.LifelineAudience:
		st.AudiencePoll = SimulatePoll(q, e.rnd)
	}
	st.Modal = modal

	e.logger.Debug("lifeline used", zap.String("lifeline", string(kind)), zap.Int("index", st.CurrentIndex))
	e.notifyLocked()
	return nil
}

// pickEliminations returns two random incorrect option ids.
func (e *Engine) pickEliminations(q domain.Question) []string {
	incorrect := make([]string, 0, len(q.Options)-1)
	for _, opt := range q.Options {
		if opt.ID != q.CorrectOptionID {
			incorrect = append(incorrect, opt.ID)
		}
	}
	e.rnd.Shuffle(len(incorrect), func(i, j int) {
		incorrect[i], incorrect[j] = incorrect[j], incorrect[i]
	})
	if len(incorrect) > 2 {
		incorrect = incorrect[:2]
	}
	return incorrect
}

// SubmitAnswer locks in optionID and schedules the reveal and resolution.
func (e *Engine) SubmitAnswer(optionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	if st.Phase != domain.PhasePlaying || st.SelectedOptionID != "" {
		return fmt.Errorf("%w: cannot answer while %s", domain.ErrInvalidState, st.Phase)
	}
	q := st.current()
	if _, ok := q.Option(optionID); !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOption, optionID)
	}
	if _, gone := st.Eliminated[optionID]; gone {
		return fmt.Errorf("%w: option %q was eliminated", domain.ErrInvalidState, optionID)
	}

	st.SelectedOptionID = optionID
	st.Phase = domain.PhaseAnswering
	e.logger.Debug("answer locked", zap.Int("index", st.CurrentIndex), zap.String("option", q.Label(optionID)))

	gen := e.generation
	e.scheduleLocked(e.revealDelay, func() { e.reveal(gen) })
	e.notifyLocked()
	return nil
}

func (e *Engine) reveal(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.liveLocked(gen) {
		return
	}
	e.state.RevealAnswer = true
	e.scheduleLocked(e.resolveDelay, func() { e.resolve(gen) })
	e.notifyLocked()
}

func (e *Engine) resolve(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.liveLocked(gen) {
		return
	}
	e.timers = nil

	st := e.state
	q := st.current()
	correct := st.SelectedOptionID == q.CorrectOptionID
	switch {
	case correct && st.CurrentIndex == len(st.Questions)-1:
		st.Phase = domain.PhaseWon
		st.Modal = &domain.Modal{Kind: domain.ModalWin, Amount: domain.TopPrize()}
		e.logger.Info("round won", zap.Uint64("round", gen))
	case correct:
		e.advanceLocked()
	default:
		safe := domain.SafePrizeWon(st.CurrentIndex)
		st.Phase = domain.PhaseGameOver
		st.Modal = &domain.Modal{
			Kind:          domain.ModalGameOver,
			Amount:        safe,
			CorrectAnswer: q.CorrectOption().Text,
		}
		e.logger.Info("round lost", zap.Uint64("round", gen), zap.Int("index", st.CurrentIndex), zap.Int("payout", safe))
	}
	e.notifyLocked()
}

// liveLocked reports whether a timer from generation gen may still act.
func (e *Engine) liveLocked(gen uint64) bool {
	return !e.closed && gen == e.generation && e.state.Phase == domain.PhaseAnswering
}

func (e *Engine) advanceLocked() {
	st := e.state
	st.CurrentIndex++
	st.Eliminated = make(map[string]struct{})
	st.SelectedOptionID = ""
	st.RevealAnswer = false
	st.AudiencePoll = make(map[string]int)
	st.Phase = domain.PhasePlaying
	if st.Modal != nil && st.Modal.Kind == domain.ModalLifeline {
		st.Modal = nil
	}
}

// CashOut ends the round keeping the accumulated prize.
func (e *Engine) CashOut() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	if st.Phase != domain.PhasePlaying {
		return fmt.Errorf("%w: cannot cash out while %s", domain.ErrInvalidState, st.Phase)
	}
	amount := domain.AccumulatedPrize(st.Phase, st.CurrentIndex)
	st.Phase = domain.PhaseGameOver
	st.Modal = &domain.Modal{Kind: domain.ModalCashOut, Amount: amount}
	e.logger.Info("cashed out", zap.Uint64("round", e.generation), zap.Int("amount", amount))
	e.notifyLocked()
	return nil
}

// DismissModal clears the staged message. After a win or loss it also starts a
// new round.
func (e *Engine) DismissModal() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	if st.Phase.Terminal() {
		st.Modal = nil
		return e.newGameLocked()
	}
	if st.Modal == nil {
		return fmt.Errorf("%w: no message to dismiss", domain.ErrInvalidState)
	}
	st.Modal = nil
	e.notifyLocked()
	return nil
}

// Close stops pending timers and disconnects subscribers.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.stopTimersLocked()
	e.closed = true
	for ch := range e.subscribers {
		delete(e.subscribers, ch)
		close(ch)
	}
}

func (e *Engine) scheduleLocked(d time.Duration, f func()) {
	e.timers = append(e.timers, e.scheduler.AfterFunc(d, f))
}

func (e *Engine) stopTimersLocked() {
	for _, t := range e.timers {
		t.Stop()
	}
	e.timers = nil
}

// Subscribe returns a channel that is nudged after every state change. The
// caller must invoke the returned cancel function.
func (e *Engine) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 8)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	e.subscribers[ch] = struct{}{}
	ch <- e.updateLocked()
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

func (e *Engine) updateLocked() Update {
	return Update{Revision: e.revision, Round: e.generation, Phase: e.state.Phase}
}

func (e *Engine) notifyLocked() {
	e.revision++
	update := e.updateLocked()
	for ch := range e.subscribers {
		select {
		case ch <- update:
		default:
			// drop the oldest pending update so slow readers see the latest one
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() domain.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase
}

// CurrentIndex returns the ladder position of the current question.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.CurrentIndex
}

// CurrentQuestion returns the question being played.
func (e *Engine) CurrentQuestion() domain.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.current()
}

func (e *Engine) CurrentPrize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.PrizeAt(e.state.CurrentIndex)
}

func (e *Engine) SafePrizeWon() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.SafePrizeWon(e.state.CurrentIndex)
}

func (e *Engine) AccumulatedPrize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.AccumulatedPrize(e.state.Phase, e.state.CurrentIndex)
}

// Lifelines returns a copy of lifeline availability.
func (e *Engine) Lifelines() domain.LifelineSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Lifelines.Clone()
}

// EliminatedOptionIDs returns eliminated ids in display order.
func (e *Engine) EliminatedOptionIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return eliminatedInOrder(e.state)
}

func eliminatedInOrder(st *RoundState) []string {
	ids := make([]string, 0, len(st.Eliminated))
	for _, opt := range st.current().Options {
		if _, ok := st.Eliminated[opt.ID]; ok {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

func (e *Engine) SelectedOptionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.SelectedOptionID
}

func (e *Engine) RevealAnswer() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.RevealAnswer
}

// AudiencePoll returns a copy of the latest poll for the current question.
func (e *Engine) AudiencePoll() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyPoll(e.state.AudiencePoll)
}

// Modal returns the staged message, if any.
func (e *Engine) Modal() (domain.Modal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Modal == nil {
		return domain.Modal{}, false
	}
	return *e.state.Modal, true
}

// State returns a deep copy of the live round.
func (e *Engine) State() RoundState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Round identifies the current round; it increases on every new game.
func (e *Engine) Round() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

func copyPoll(poll map[string]int) map[string]int {
	out := make(map[string]int, len(poll))
	for k, v := range poll {
		out[k] = v
	}
	return out
}
