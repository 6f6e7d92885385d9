package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"culture-millionaire/internal/app"
	"culture-millionaire/internal/bank"
	"culture-millionaire/internal/config"
	"culture-millionaire/internal/domain"
	"culture-millionaire/internal/i18n"
	"culture-millionaire/internal/infra/file"
	"culture-millionaire/internal/infra/memory"
	"culture-millionaire/internal/infra/postgres"
	infraredis "culture-millionaire/internal/infra/redis"
	"culture-millionaire/internal/logger"
	transport "culture-millionaire/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.BankLoader
	if pool != nil {
		loader = postgres.NewBankLoader(pool)
	} else {
		entries, err := bank.Default()
		if err != nil {
			return err
		}
		loader = memory.NewStaticBankLoader(entries)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = infraredis.NewBankRepository(redisClient, loader, bankTTL, log)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}

	// a bank that cannot fill a round is fatal at startup
	entries, err := bankRepo.GetBank(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientContent) {
			log.Error("question bank cannot fill a round", zap.Error(err))
		}
		return err
	}
	log.Info("question bank loaded", zap.Int("entries", len(entries)))

	var store app.SessionRepository
	if redisClient != nil {
		store = infraredis.NewSessionStore(redisClient, redisTTL, log)
	} else {
		store = memory.NewSessionStore()
	}

	prefStore, err := languageStore(cfg, redisClient)
	if err != nil {
		return err
	}
	defaultLang, err := domain.ParseLanguage(cfg.Language.Default)
	if err != nil {
		defaultLang = domain.LanguageSpanish
	}
	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		return err
	}

	service := app.NewGameService(
		store,
		bankRepo,
		catalog,
		i18n.NewPreferences(prefStore, defaultLang),
		log,
		app.WithDelays(
			config.TTLDuration(cfg.Game.RevealDelay, app.DefaultRevealDelay),
			config.TTLDuration(cfg.Game.ResolveDelay, app.DefaultResolveDelay),
		),
	)
	wsHandler := transport.NewWSHandler(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", transport.Healthz)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting game server", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func languageStore(cfg config.Config, client *redis.Client) (i18n.PreferenceStore, error) {
	switch cfg.Language.Store {
	case "", "memory":
		return memory.NewLanguageStore(), nil
	case "file":
		path := cfg.Language.File
		if path == "" {
			path = "data/language.yaml"
		}
		return file.NewLanguageStore(path), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("language store redis requires redis.addr")
		}
		return infraredis.NewLanguageStore(client), nil
	default:
		return nil, fmt.Errorf("unknown language store %q", cfg.Language.Store)
	}
}
