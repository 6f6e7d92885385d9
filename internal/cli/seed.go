package cli

import (
	"context"
	"fmt"
	"os"

	"culture-millionaire/internal/bank"
	"culture-millionaire/internal/config"
	"culture-millionaire/internal/domain"
	"culture-millionaire/internal/infra/postgres"
	"culture-millionaire/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd loads a question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the question bank in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			entries, err := readBank(file)
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}
			return seedBank(cmd.Context(), cfg, entries, log)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML bank to load (defaults to the built-in bank)")
	return cmd
}

func readBank(path string) ([]domain.BankEntry, error) {
	if path == "" {
		return bank.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	return bank.Parse(data)
}

func seedBank(ctx context.Context, cfg config.Config, entries []domain.BankEntry, log *zap.Logger) error {
	db := postgres.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	n, err := postgres.NewBankWriter(db).Upsert(ctx, entries)
	if err != nil {
		return err
	}
	log.Info("question bank seeded", zap.Int("entries", n))
	return nil
}
