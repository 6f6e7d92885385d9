package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"culture-millionaire/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads question bank entries stored as JSONB rows.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context) ([]domain.BankEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, data FROM question_bank ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	defer rows.Close()

	var entries []domain.BankEntry
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan bank row: %w", err)
		}
		var entry domain.BankEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("unmarshal bank entry %s: %w", id, err)
		}
		// the row key wins over whatever the document says
		entry.ID = id
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	if len(entries) < domain.QuestionsPerRound {
		return nil, fmt.Errorf("%w: %d questions stored, need %d", domain.ErrInsufficientContent, len(entries), domain.QuestionsPerRound)
	}
	return entries, nil
}
