package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	filebank "timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
	pgbank "timed-quiz-service/internal/infra/postgres"
	redissession "timed-quiz-service/internal/infra/redis"
	"timed-quiz-service/internal/logger"
	transport "timed-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
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
	}

	var loader memory.BankLoader = filebank.NewBankLoader(cfg.Quiz.BankPath)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgbank.NewBankLoader(pool, cfg.Quiz.BankID)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.BankTTL, 10*time.Minute)
	bankRepo := memory.NewBankRepository(loader, bankTTL)

	// The bank must validate before we serve a single request.
	bank, err := bankRepo.Bank(ctx)
	if err != nil {
		log.Error("question bank rejected", zap.Error(err))
		return err
	}
	log.Info("question bank loaded",
		zap.Int("questions", bank.Len()),
		zap.Strings("categories", bank.Categories()))

	var store app.SessionRepository = memory.NewSessionStore()
	if redisClient != nil {
		sessionTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)
		store = redissession.NewSessionStore(redisClient, sessionTTL)
	}

	limits := app.Limits{
		MinTimeLimitMinutes: cfg.Quiz.MinTimeLimitMinutes,
		MaxTimeLimitMinutes: cfg.Quiz.MaxTimeLimitMinutes,
		SkewTolerance:       cfg.SkewTolerance(),
	}
	service := app.NewQuizService(store, bankRepo, limits, log)
	handler := transport.NewHandler(service, log)
	wsHandler := transport.NewWSHandler(service, log)

	router := handler.Router()
	router.HandleFunc("/ws/timer", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", zap.String("port", finalPort))
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

// loadConfig falls back to defaults when no config file exists, so the
// service can run with a question file and nothing else.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.Default(), nil
		}
		return config.Config{}, err
	}
	return cfg, nil
}
