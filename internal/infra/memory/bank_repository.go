package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"culture-millionaire/internal/domain"
	"culture-millionaire/internal/random"
	"golang.org/x/sync/singleflight"
)

const bankCacheKey = "bank"

// BankLoader fetches the question bank from a backing store (embedded file, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.BankEntry, error)
}

// BankRepository caches the bank with a TTL so new rounds do not hit the store.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu     sync.RWMutex
	cached []domain.BankEntry
	expiry time.Time
}

// NewBankRepository caches loader's bank for ttl. A ttl of zero or less
// caches forever.
func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    random.New(),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) ([]domain.BankEntry, error) {
	if bank, ok := r.fresh(r.clock()); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankCacheKey, func() (interface{}, error) {
		now := r.clock()
		if bank, ok := r.fresh(now); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}
		if err := domain.ValidateBank(bank); err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = bank
		r.expiry = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.BankEntry), nil
}

func (r *BankRepository) fresh(now time.Time) ([]domain.BankEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached == nil {
		return nil, false
	}
	if r.ttl > 0 && !r.expiry.After(now) {
		return nil, false
	}
	return r.cached, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves a fixed bank (the embedded default, or test data).
type StaticBankLoader struct {
	entries []domain.BankEntry
}

func NewStaticBankLoader(entries []domain.BankEntry) *StaticBankLoader {
	return &StaticBankLoader{entries: entries}
}

func (l *StaticBankLoader) LoadBank(_ context.Context) ([]domain.BankEntry, error) {
	if len(l.entries) == 0 {
		return nil, domain.ErrInsufficientContent
	}
	return l.entries, nil
}
