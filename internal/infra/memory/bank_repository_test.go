package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"culture-millionaire/internal/bank"
	"culture-millionaire/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(defaultBank(t))}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(defaultBank(t))}
	repo := NewBankRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryRejectsSmallBank(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(defaultBank(t)[:3]), time.Minute)
	if _, err := repo.GetBank(context.Background()); !errors.Is(err, domain.ErrInsufficientContent) {
		t.Fatalf("expected insufficient content, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) ([]domain.BankEntry, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}

func defaultBank(t *testing.T) []domain.BankEntry {
	t.Helper()
	entries, err := bank.Default()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	return entries
}
