package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/late-show-api/internal/config"
	"github.com/iliyamo/late-show-api/internal/database"
	"github.com/iliyamo/late-show-api/internal/handler"
	"github.com/iliyamo/late-show-api/internal/middleware"
	"github.com/iliyamo/late-show-api/internal/queue"
	"github.com/iliyamo/late-show-api/internal/repository"
	"github.com/iliyamo/late-show-api/internal/router"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cc)
		},
	}
}

func runServe(ctx context.Context, cc *commandContext) error {
	cfg, err := cc.config()
	if err != nil {
		return err
	}
	log, err := cc.logger()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Info("redis unavailable, cache and rate limit disabled")
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.AMQP.Enabled {
		events = queue.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, log)
	}

	h := handler.New(
		repository.NewEpisodeRepo(db),
		repository.NewGuestRepo(db),
		repository.NewAppearanceRepo(db),
		events, log,
	)
	h.DB = db

	e := router.New(h, router.Options{
		Log:       log,
		Metrics:   middleware.NewMetrics(),
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	log.Info("listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.String("db_driver", cfg.DB.Driver),
		zap.Bool("amqp", cfg.AMQP.Enabled))

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
