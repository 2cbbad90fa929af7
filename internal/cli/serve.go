package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/trogers1052/paisabuddy/internal/api"
	"github.com/trogers1052/paisabuddy/internal/budget"
	"github.com/trogers1052/paisabuddy/internal/database"
	"github.com/trogers1052/paisabuddy/internal/kafka"
	"github.com/trogers1052/paisabuddy/internal/portfolio"
	"github.com/trogers1052/paisabuddy/internal/pricing"
	"github.com/trogers1052/paisabuddy/internal/seeder"
)

type serveCmd struct {
	migrate bool
	seed    bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "runs the HTTP API" }
func (*serveCmd) Usage() string {
	return `paisabuddy serve [-migrate=false] [-seed=false]

Starts the HTTP API. Unless disabled, pending migrations are applied and
sample data is seeded first. The price ticker runs when
PRICE_REFRESH_INTERVAL is set, and the order consumer runs when Kafka is
enabled. SIGINT or SIGTERM shuts the server down gracefully.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.migrate, "migrate", true, "Apply pending migrations on startup.")
	f.BoolVar(&c.seed, "seed", true, "Seed sample stocks and categories on startup.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := setup()
	if err != nil {
		return fail(err)
	}
	defer e.db.Close()

	if err := c.run(ctx, e); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

func (c *serveCmd) run(ctx context.Context, e *env) error {
	cfg, logger := e.cfg, e.logger

	if c.migrate {
		version, err := e.db.Migrate()
		if err != nil {
			return err
		}
		logger.Info("database migrated", slog.Uint64("version", uint64(version)))
	}
	if c.seed {
		if _, err := seeder.NewSeeder(e.db, logger).Seed(ctx); err != nil {
			return err
		}
	}

	policy, err := portfolio.ParsePricePolicy(cfg.Portfolio.PricePolicy)
	if err != nil {
		return err
	}

	out := newOutbound(ctx, e)
	defer out.close()

	hub := api.NewHub(logger)
	defer hub.Close()

	feed := pricing.NewFeed(database.NewPriceStore(e.db), pricing.Options{
		MinPrice:  cfg.Pricing.MinPriceDecimal(),
		Notifiers: append(out.priceNotifiers(), hub),
		Logger:    logger,
	})

	trader := portfolio.NewService(database.NewLedgerStore(e.db), portfolio.Options{
		OpeningBalance: cfg.Portfolio.OpeningBalanceDecimal(),
		PricePolicy:    policy,
		Notifier:       out.tradeNotifier(),
		Logger:         logger,
	})

	opts := api.Options{
		Stocks: e.db,
		Trader: trader,
		Prices: feed,
		Budget: budget.NewService(e.db),
		Health: e.db,
		Hub:    hub,
		Logger: logger,
	}
	if out.cache != nil {
		opts.Quotes = out.cache
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.SetupRoutes(api.NewHandler(opts)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if cfg.Pricing.RefreshInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed.Run(ctx, cfg.Pricing.RefreshInterval)
		}()
	}

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, cfg.Kafka.GroupID, trader, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Start(ctx); err != nil {
				logger.Error("order consumer stopped", slog.Any("error", err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("failed to shut down http server: %w", err)
	}

	cancel()
	wg.Wait()
	return serveErr
}
