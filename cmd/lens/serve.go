package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"MarketLens/internal/logger"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
	"MarketLens/internal/notifier"
	"MarketLens/internal/portfolio"
	"MarketLens/internal/scheduler"
	"MarketLens/internal/strategy"
)

type serveCmd struct {
	runNow bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the scheduled watchlist and portfolio reports" }
func (*serveCmd) Usage() string {
	return `lens serve [-now]

  Runs the cron jobs from the schedule section, pushes reports to Telegram
  when configured and serves Prometheus metrics on metrics.addr.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runNow, "now", os.Getenv("RUN_ON_START") == "true", "run every job once at startup")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := configFrom(args)
	if cfg == nil {
		return fail(errNoConfig)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var n notifier.Notifier = notifier.LogNotifier{}
	if cfg.TelegramEnabled() {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
	}
	rec := openRecorder(ctx, cfg)
	defer rec.Close()

	opts := scheduler.Options{
		Watchlist:        cfg.Watchlist,
		PortfolioOptions: portfolio.Options{RiskFreeRate: cfg.Portfolio.RiskFreeRate, TradingDays: cfg.Portfolio.TradingDays},
		Thresholds:       strategy.DefaultThresholds,
		Workers:          cfg.Schedule.Workers,
	}
	if len(cfg.Portfolio.Weights) > 0 {
		weights, err := cfg.PortfolioWeights()
		if err != nil {
			return fail(err)
		}
		if opts.Portfolio, err = model.NewPortfolio(weights); err != nil {
			return fail(err)
		}
	}

	m := metrics.NewMetrics()
	srv := metrics.NewServer(cfg.Metrics.Addr, m)
	srv.Start(ctx)

	sched := scheduler.NewScheduler(ctx, newCollector(cfg), n, rec, m, opts)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.PortfolioCron); err != nil {
		return fail(err)
	}
	sched.Start()
	if c.runNow {
		go sched.RunNow()
	}
	logger.Info(ctx, "marketlens running", "watchlist", len(cfg.Watchlist), "telegram", cfg.TelegramEnabled())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info(ctx, "shutdown signal received, stopping")
	cancel()
	sched.Stop()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "metrics server shutdown", err)
	}
	return subcommands.ExitSuccess
}
