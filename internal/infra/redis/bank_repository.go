package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"culture-millionaire/internal/domain"
	"culture-millionaire/internal/random"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const bankKey = "millionaire:bank"

// BankLoader fetches the question bank from a backing store (e.g., Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.BankEntry, error)
}

// BankRepository caches the bank as a JSON document in Redis and falls back
// to the loader on a miss. Entries are stored as: SET millionaire:bank {json}
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration, logger *zap.Logger) *BankRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    random.New(),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) ([]domain.BankEntry, error) {
	if bank, ok := r.cached(ctx); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}
		if err := domain.ValidateBank(bank); err != nil {
			return nil, err
		}

		// a failed cache write still serves the loaded bank
		raw, err := json.Marshal(bank)
		if err != nil {
			r.logger.Warn("encode bank for cache failed", zap.Error(err))
			return bank, nil
		}
		if err := r.client.Set(ctx, bankKey, raw, r.ttlWithJitter()).Err(); err != nil {
			r.logger.Warn("cache bank failed", zap.String("key", bankKey), zap.Error(err))
		}
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.BankEntry), nil
}

// Invalidate drops the cached bank so the next round reloads it.
func (r *BankRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, bankKey).Err()
}

func (r *BankRepository) cached(ctx context.Context) ([]domain.BankEntry, bool) {
	raw, err := r.client.Get(ctx, bankKey).Bytes()
	if err != nil {
		return nil, false
	}
	var bank []domain.BankEntry
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, false
	}
	// a stale or truncated document is treated as a miss
	if domain.ValidateBank(bank) != nil {
		return nil, false
	}
	return bank, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// isMiss reports whether err means the key does not exist.
func isMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
