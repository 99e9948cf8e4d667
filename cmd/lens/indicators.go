package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/google/subcommands"

	"MarketLens/internal/notifier"
	"MarketLens/internal/recorder"
	"MarketLens/internal/strategy"
)

type indicatorsCmd struct {
	rows   int
	record bool
	raw    bool
}

func (*indicatorsCmd) Name() string     { return "indicators" }
func (*indicatorsCmd) Synopsis() string { return "compute SMA, RSI and MACD for symbols" }
func (*indicatorsCmd) Usage() string {
	return `lens indicators [-n rows] [-record] [-raw] [SYMBOL...]

  Computes the moving average, Wilder RSI and MACD of each symbol (the
  watchlist when none are given) and prints the latest values, their
  classification and the last n sessions.
`
}

func (c *indicatorsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.rows, "n", 10, "number of recent sessions to show per symbol (0 for none)")
	f.BoolVar(&c.record, "record", false, "store the snapshots in the SQLite database")
	f.BoolVar(&c.raw, "raw", false, "print Markdown without terminal rendering")
}

func (c *indicatorsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := configFrom(args)
	if cfg == nil {
		return fail(errNoConfig)
	}
	symbols := upper(f.Args())
	if len(symbols) == 0 {
		symbols = cfg.Watchlist
	}
	if len(symbols) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	col := newCollector(cfg)
	rec := recorder.Recorder(recorder.NewNoopRecorder())
	if c.record {
		rec = openRecorder(ctx, cfg)
	}
	defer rec.Close()

	runID := recorder.NewRunID()
	var rows []notifier.IndicatorRow
	var history strings.Builder
	for _, sym := range symbols {
		a, err := col.Collect(ctx, sym)
		if err != nil {
			return fail(err)
		}
		sig := strategy.Evaluate(a.Snapshot)
		rows = append(rows, notifier.IndicatorRow{Snapshot: a.Snapshot, Signal: sig})
		if err := rec.RecordIndicators(&recorder.IndicatorEvent{RunID: runID, Snapshot: a.Snapshot, Signal: sig}); err != nil {
			return fail(err)
		}
		if c.rows > 0 {
			history.WriteString("\n")
			history.WriteString(notifier.FormatIndicatorHistory(a.Series, a.Indicators, c.rows))
		}
	}
	printMarkdown(notifier.FormatIndicatorReport(rows, time.Now())+history.String(), c.raw)
	return subcommands.ExitSuccess
}
