package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"MarketLens/internal/calculator"
	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/logger"
	"MarketLens/internal/model"
	"MarketLens/internal/recorder"
)

var errNoConfig = errors.New("command executed without a config")

// configFrom extracts the config passed to Commander.Execute, or nil.
func configFrom(args []interface{}) *config.Config {
	if len(args) > 0 {
		if cfg, ok := args[0].(*config.Config); ok {
			return cfg
		}
	}
	return nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.Provider == "yahoo" {
		return collector.NewYahooFetcher(cfg.DataSource.Proxy)
	}
	return collector.NewCSVFetcher(cfg.DataSource.PriceDir)
}

func newCollector(cfg *config.Config) *collector.Collector {
	col := collector.NewCollector(newFetcher(cfg))
	col.Lookback = cfg.DataSource.Lookback
	col.Params = calculator.IndicatorParams{
		SMAWindow:  cfg.Indicators.SMAWindow,
		RSIWindow:  cfg.Indicators.RSIWindow,
		MACDFast:   cfg.Indicators.MACDFast,
		MACDSlow:   cfg.Indicators.MACDSlow,
		MACDSignal: cfg.Indicators.MACDSignal,
	}
	return col
}

// openRecorder falls back to the no-op recorder when SQLite is unavailable.
func openRecorder(ctx context.Context, cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		logger.Warn(ctx, "sqlite recorder unavailable, using noop", "error", err)
		return recorder.NewNoopRecorder()
	}
	return rec
}

// printMarkdown renders md for the terminal, or prints it as is when raw.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, model.ErrInvalidWeights) || errors.Is(err, model.ErrEmptyPortfolio) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func upper(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = strings.ToUpper(strings.TrimSpace(a))
	}
	return out
}
