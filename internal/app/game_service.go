package app

import (
	"context"
	"fmt"
	"sync"

	"culture-millionaire/internal/domain"
	"go.uber.org/zap"
)

// SessionRepository abstracts where running engines live (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Get(playerID string) (*Engine, bool)
	// PutIfAbsent stores engine unless one already exists, and returns the stored engine.
	PutIfAbsent(playerID string, engine *Engine) *Engine
	Delete(playerID string)
}

// preferenceForgetter is implemented by preference caches that can drop a key.
type preferenceForgetter interface {
	Forget(key string)
}

// sessionToucher is implemented by stores that expire idle sessions.
type sessionToucher interface {
	Touch(ctx context.Context, playerID string) error
}

// BankRepository loads the question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) ([]domain.BankEntry, error)
}

// LanguagePreferences stores the language each player reads in.
type LanguagePreferences interface {
	Language(ctx context.Context, key string) (domain.Language, error)
	SetLanguage(ctx context.Context, key string, lang domain.Language) error
	ToggleLanguage(ctx context.Context, key string) (domain.Language, error)
}

// GameService runs one engine per player and routes commands to it.
type GameService struct {
	sessions SessionRepository
	bank     BankRepository
	loc      Localizer
	prefs    LanguagePreferences
	logger   *zap.Logger
	opts     []EngineOption

	// holders counts open Start calls per player; the engine is closed when
	// the last one leaves.
	mu      sync.Mutex
	holders map[string]int
}

func NewGameService(sessions SessionRepository, bank BankRepository, loc Localizer, prefs LanguagePreferences, logger *zap.Logger, opts ...EngineOption) *GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameService{
		sessions: sessions,
		bank:     bank,
		loc:      loc,
		prefs:    prefs,
		logger:   logger,
		opts:     opts,
		holders:  make(map[string]int),
	}
}

// Start returns the player's running engine, creating one if needed. Every
// successful Start must be paired with a Leave.
func (s *GameService) Start(ctx context.Context, playerID string) (*Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if engine, ok := s.sessions.Get(playerID); ok {
		s.holders[playerID]++
		return engine, nil
	}

	bank, err := s.bank.GetBank(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	opts := append([]EngineOption{WithLogger(s.logger.With(zap.String("player_id", playerID)))}, s.opts...)
	engine, err := NewEngine(bank, s.loc, opts...)
	if err != nil {
		return nil, err
	}

	stored := s.sessions.PutIfAbsent(playerID, engine)
	if stored != engine {
		engine.Close()
	} else {
		s.logger.Info("game session started", zap.String("player_id", playerID))
	}
	s.holders[playerID]++
	return stored, nil
}

func (s *GameService) engine(playerID string) (*Engine, error) {
	engine, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return engine, nil
}

func (s *GameService) run(ctx context.Context, playerID, command string, fn func(*Engine) error) error {
	engine, err := s.engine(playerID)
	if err != nil {
		return err
	}
	if err := fn(engine); err != nil {
		s.logger.Debug("command rejected",
			zap.String("player_id", playerID),
			zap.String("command", command),
			zap.Error(err))
		return err
	}
	if toucher, ok := s.sessions.(sessionToucher); ok {
		if err := toucher.Touch(ctx, playerID); err != nil {
			s.logger.Warn("refresh session marker failed", zap.String("player_id", playerID), zap.Error(err))
		}
	}
	return nil
}

func (s *GameService) NewGame(ctx context.Context, playerID string) error {
	return s.run(ctx, playerID, "newGame", func(e *Engine) error { return e.NewGame() })
}

func (s *GameService) UseLifeline(ctx context.Context, playerID string, kind domain.LifelineKind) error {
	return s.run(ctx, playerID, "useLifeline", func(e *Engine) error { return e.UseLifeline(kind) })
}

func (s *GameService) SubmitAnswer(ctx context.Context, playerID, optionID string) error {
	return s.run(ctx, playerID, "submitAnswer", func(e *Engine) error { return e.SubmitAnswer(optionID) })
}

func (s *GameService) CashOut(ctx context.Context, playerID string) error {
	return s.run(ctx, playerID, "cashOut", func(e *Engine) error { return e.CashOut() })
}

func (s *GameService) DismissModal(ctx context.Context, playerID string) error {
	return s.run(ctx, playerID, "dismissModal", func(e *Engine) error { return e.DismissModal() })
}

// Snapshot renders the player's round in their preferred language.
func (s *GameService) Snapshot(ctx context.Context, playerID string) (GameView, error) {
	engine, err := s.engine(playerID)
	if err != nil {
		return GameView{}, err
	}
	lang, err := s.prefs.Language(ctx, playerID)
	if err != nil {
		s.logger.Warn("language preference unavailable, using fallback",
			zap.String("player_id", playerID),
			zap.Error(err))
	}
	return engine.Snapshot(lang), nil
}

func (s *GameService) SetLanguage(ctx context.Context, playerID string, lang domain.Language) error {
	return s.prefs.SetLanguage(ctx, playerID, lang)
}

func (s *GameService) ToggleLanguage(ctx context.Context, playerID string) (domain.Language, error) {
	return s.prefs.ToggleLanguage(ctx, playerID)
}

// Subscribe returns a channel nudged on every state change of the player's engine.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, playerID string) (<-chan Update, func(), error) {
	engine, err := s.engine(playerID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := engine.Subscribe()
	return ch, cancel, nil
}

// Leave releases one Start. The engine is stopped and the session dropped
// only when no other connection still holds it.
func (s *GameService) Leave(_ context.Context, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.holders[playerID] > 1 {
		s.holders[playerID]--
		s.logger.Debug("connection left, game still held", zap.String("player_id", playerID), zap.Int("holders", s.holders[playerID]))
		return
	}
	delete(s.holders, playerID)

	engine, ok := s.sessions.Get(playerID)
	if !ok {
		return
	}
	engine.Close()
	s.sessions.Delete(playerID)
	if f, ok := s.prefs.(preferenceForgetter); ok {
		f.Forget(playerID)
	}
	s.logger.Info("game session closed", zap.String("player_id", playerID))
}
