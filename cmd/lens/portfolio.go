package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"MarketLens/internal/model"
	"MarketLens/internal/notifier"
	"MarketLens/internal/portfolio"
	"MarketLens/internal/recorder"
	"MarketLens/internal/scheduler"
)

type portfolioCmd struct {
	riskFree float64
	record   bool
	raw      bool
}

func (*portfolioCmd) Name() string { return "portfolio" }
func (*portfolioCmd) Synopsis() string {
	return "compute return, volatility and Sharpe of a weighted portfolio"
}
func (*portfolioCmd) Usage() string {
	return `lens portfolio [-rf rate] [-record] [SYMBOL=WEIGHT...]

  Combines daily returns by weight over the dates every holding traded.
  Without arguments the weights come from portfolio.weights in the config.
  Example: lens portfolio AAPL=0.6 MSFT=0.4
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.riskFree, "rf", -1, "annual risk-free rate (defaults to portfolio.risk_free_rate)")
	f.BoolVar(&c.record, "record", false, "store the metrics in the SQLite database")
	f.BoolVar(&c.raw, "raw", false, "print Markdown without terminal rendering")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := configFrom(args)
	if cfg == nil {
		return fail(errNoConfig)
	}
	var (
		weights map[string]float64
		err     error
	)
	if f.NArg() > 0 {
		weights, err = parseWeightArgs(f.Args())
	} else if len(cfg.Portfolio.Weights) > 0 {
		weights, err = cfg.PortfolioWeights()
	}
	if err != nil {
		return fail(err)
	}
	p, err := model.NewPortfolio(weights)
	if err != nil {
		return fail(err)
	}

	opts := portfolio.Options{RiskFreeRate: cfg.Portfolio.RiskFreeRate, TradingDays: cfg.Portfolio.TradingDays}
	if c.riskFree >= 0 {
		opts.RiskFreeRate = c.riskFree
	}
	rec := recorder.Recorder(recorder.NewNoopRecorder())
	if c.record {
		rec = openRecorder(ctx, cfg)
	}
	defer rec.Close()

	sched := scheduler.NewScheduler(ctx, newCollector(cfg), nil, rec, nil, scheduler.Options{
		Portfolio:        p,
		PortfolioOptions: opts,
	})
	rep, err := sched.AnalyzePortfolio(ctx, recorder.NewRunID())
	if err != nil {
		return fail(err)
	}
	printMarkdown(notifier.FormatPortfolio(rep), c.raw)
	return subcommands.ExitSuccess
}

// parseWeightArgs reads SYMBOL=WEIGHT pairs. Weights may be fractions or percentages.
func parseWeightArgs(args []string) (map[string]float64, error) {
	weights := make(map[string]float64, len(args))
	for _, arg := range args {
		sym, raw, ok := strings.Cut(arg, "=")
		if !ok || sym == "" {
			return nil, fmt.Errorf("%w: expected SYMBOL=WEIGHT, got %q", model.ErrInvalidWeights, arg)
		}
		pct := strings.HasSuffix(raw, "%")
		w, err := decimal.NewFromString(strings.TrimSuffix(raw, "%"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrInvalidWeights, sym, err)
		}
		if pct {
			w = w.Div(decimal.NewFromInt(100))
		}
		weights[strings.ToUpper(sym)] = w.InexactFloat64()
	}
	return weights, nil
}
