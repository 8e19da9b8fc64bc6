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

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-risk-service/internal/app"
	"quiz-risk-service/internal/assessment"
	"quiz-risk-service/internal/config"
	"quiz-risk-service/internal/infra/memory"
	mongostore "quiz-risk-service/internal/infra/mongo"
	pgstore "quiz-risk-service/internal/infra/postgres"
	redisstore "quiz-risk-service/internal/infra/redis"
	"quiz-risk-service/internal/llm"
	"quiz-risk-service/internal/logger"
	"quiz-risk-service/internal/report"
	transport "quiz-risk-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz risk service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode)
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

	b, err := buildBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	gen, err := buildGenerator(ctx, cfg.LLM, log)
	if err != nil {
		return err
	}

	feed := app.NewReviewFeed()
	submissions := app.NewSubmissionService(app.SubmissionDeps{
		Assessor:    assessment.NewAssessor(nil, log),
		Submissions: b.submissions,
		Quizzes:     b.quizzes,
		Attempts:    b.attempts,
		Feed:        feed,
		Log:         log,
	})
	reviews := app.NewReviewService(b.submissions, report.NewRecommender(gen, log), feed, log)
	quizzes := app.NewQuizService(gen, b.quizStore, log)

	router := transport.NewRouter(
		transport.NewHandler(submissions, reviews, quizzes, log),
		transport.NewWSHandler(feed, log),
		log,
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("starting quiz risk service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "error", err)
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

type backends struct {
	submissions app.SubmissionRepository
	attempts    app.AttemptCounter
	quizStore   app.QuizStore
	quizzes     app.QuizRepository
	closers     []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// buildBackends picks storage by configuration. Submissions prefer Mongo
// then Postgres; attempts prefer Mongo then Redis; memory is the fallback.
func buildBackends(ctx context.Context, cfg config.Config, log *logger.Logger) (*backends, error) {
	b := &backends{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
	}

	if cfg.Mongo.URI != "" {
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Disconnect(context.Background()) })

		db := client.Database(cfg.Mongo.Database)
		store := mongostore.NewSubmissionStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Warn("mongo index creation failed", "error", err)
		}
		b.submissions = store
		b.attempts = mongostore.NewAttemptCounter(db)
	}

	switch {
	case b.submissions != nil:
	case pool != nil:
		b.submissions = pgstore.NewSubmissionStore(pool)
	default:
		b.submissions = memory.NewSubmissionStore()
	}

	switch {
	case b.attempts != nil:
	case redisClient != nil:
		b.attempts = redisstore.NewAttemptCounter(redisClient)
	default:
		b.attempts = memory.NewAttemptCounter()
	}

	if pool != nil {
		b.quizStore = pgstore.NewQuizStore(pool)
	} else {
		b.quizStore = memory.NewQuizStore(nil)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if redisClient != nil {
		quizTTL = config.TTLDuration(cfg.Redis.TTL, quizTTL)
		b.quizzes = redisstore.NewQuizRepository(redisClient, b.quizStore, quizTTL)
	} else {
		b.quizzes = memory.NewQuizRepository(b.quizStore, quizTTL)
	}

	log.Info("backends selected",
		"submissions", fmt.Sprintf("%T", b.submissions),
		"attempts", fmt.Sprintf("%T", b.attempts),
		"quizzes", fmt.Sprintf("%T", b.quizzes),
	)
	return b, nil
}

// buildGenerator returns nil when no provider is configured; recommendations
// then fall back to defaults and quiz generation is unavailable.
func buildGenerator(ctx context.Context, cfg config.LLM, log *logger.Logger) (report.Generator, error) {
	if cfg.Provider == "" {
		log.Info("llm provider not configured, recommendations use defaults")
		return nil, nil
	}

	retry := llm.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	provider, err := llm.NewProvider(ctx, llm.Config{
		Provider: cfg.Provider,
		ProviderConfig: llm.ProviderConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		},
		Retry: retry,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info("llm provider ready", "provider", cfg.Provider, "model", provider.ModelID())

	gen := report.NewLLMGenerator(provider, cfg.MaxTokens, cfg.Temperature)
	if timeout := config.TTLDuration(cfg.Timeout, 0); timeout > 0 {
		return report.WithTimeout(gen, timeout), nil
	}
	return gen, nil
}
