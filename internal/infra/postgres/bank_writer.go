package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"culture-millionaire/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type bankRow struct {
	bun.BaseModel `bun:"table:question_bank"`

	ID        string           `bun:"id,pk"`
	Position  int              `bun:"position,notnull"`
	Data      domain.BankEntry `bun:"data,type:jsonb,notnull"`
	UpdatedAt time.Time        `bun:"updated_at,notnull,default:current_timestamp"`
}

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// BankWriter upserts question bank entries.
type BankWriter struct {
	db *bun.DB
}

func NewBankWriter(db *bun.DB) *BankWriter {
	return &BankWriter{db: db}
}

// Upsert validates entries and stores them in order, replacing rows with the same id.
func (w *BankWriter) Upsert(ctx context.Context, entries []domain.BankEntry) (int, error) {
	if err := domain.ValidateBank(entries); err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	rows := make([]bankRow, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, bankRow{ID: entry.ID, Position: i, Data: entry, UpdatedAt: now})
	}

	_, err := w.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("position = EXCLUDED.position").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert bank: %w", err)
	}
	return len(rows), nil
}

// Count returns how many entries are stored.
func (w *BankWriter) Count(ctx context.Context) (int, error) {
	n, err := w.db.NewSelect().Model((*bankRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count bank: %w", err)
	}
	return n, nil
}
