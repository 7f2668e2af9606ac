package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-service/internal/config"
	"github.com/gokatarajesh/trivia-service/internal/db/postgres"
	"github.com/gokatarajesh/trivia-service/internal/db/repository"
	"github.com/gokatarajesh/trivia-service/internal/logging"
	"github.com/gokatarajesh/trivia-service/internal/question"
	"github.com/gokatarajesh/trivia-service/internal/server"
)

// Application aggregates shared infrastructure (DB, event bus, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	subscriber *question.Subscriber
	bgCancels  []context.CancelFunc
}

// New bootstraps logger, Postgres, the optional Redis notifier and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	dsn := postgres.DSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User,
		cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.Postgres.MaxConns,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	checks := map[string]server.Check{
		"postgres": pool.Ping,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		redisClient *redis.Client
		notifier    question.Notifier
		subscriber  *question.Subscriber
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		notifier = question.NewRedisNotifier(redisClient, cfg.Redis.EventChannel)

		events := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "question_events_total",
			Help:      "Question write events observed on the event channel.",
		}, []string{"type"})
		registry.MustRegister(events)
		subscriber = question.NewSubscriber(redisClient, cfg.Redis.EventChannel, func(evt question.Event) {
			events.WithLabelValues(evt.Type).Inc()
		}, logger)

		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		logger.Info().Str("channel", cfg.Redis.EventChannel).Msg("question events enabled")
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; question events disabled")
	}

	questionRepo := repository.NewQuestionRepository(pool)
	questionSvc := question.NewService(questionRepo, logger, question.ServiceOptions{
		PageSize: cfg.Pagination.QuestionsPerPage,
		Notifier: notifier,
	})

	apiServer := server.NewHTTPServer(cfg, logger, server.Options{
		Questions: question.NewHTTPHandler(questionSvc, logger),
		Registry:  registry,
		Checks:    checks,
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,

		subscriber: subscriber,
		bgCancels:  make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	a.close()

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.subscriber != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.subscriber.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("question event subscriber stopped")
			}
		}()
	}
}

func (a *Application) close() {
	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}
