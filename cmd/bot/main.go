package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/walriust/internal/bot"
	"github.com/ivanoskov/walriust/internal/config"
	"github.com/ivanoskov/walriust/internal/events"
	"github.com/ivanoskov/walriust/internal/logging"
	"github.com/ivanoskov/walriust/internal/metrics"
	"github.com/ivanoskov/walriust/internal/repository"
	"github.com/ivanoskov/walriust/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel)

	repo, err := repository.New(repository.Options{
		Backend:      cfg.DataBackend,
		SQLiteDBPath: cfg.SQLiteDBPath,
		DatabaseURL:  cfg.DatabaseURL,
		SupabaseURL:  cfg.SupabaseURL,
		SupabaseKey:  cfg.SupabaseKey,
	})
	if err != nil {
		return err
	}
	defer repo.Close()
	logger.Info("Storage initialized", "backend", cfg.DataBackend)

	publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return err
	}
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tracker := service.NewExpenseTracker(repo,
		service.WithPublisher(publisher),
		service.WithLocation(cfg.Location),
		service.WithListLimit(cfg.ListLimit),
		service.WithLogger(logger),
	)

	b, err := bot.NewBot(cfg.TelegramToken, tracker,
		bot.WithMetrics(m),
		bot.WithLogger(logger),
		bot.WithWorkers(cfg.BotWorkers),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Start(ctx)
	})

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			logger.Info("Metrics server starting", "address", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
