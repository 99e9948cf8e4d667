package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"MarketLens/internal/collector"
	"MarketLens/internal/logger"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
	"MarketLens/internal/notifier"
	"MarketLens/internal/portfolio"
	"MarketLens/internal/recorder"
	"MarketLens/internal/strategy"
)

// Options selects what the scheduled jobs analyse.
type Options struct {
	Watchlist []string
	// Portfolio is optional; without it only the watchlist job runs.
	Portfolio        *model.Portfolio
	PortfolioOptions portfolio.Options
	Thresholds       strategy.Thresholds
	Workers          int
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Opts      Options
	Ctx       context.Context
	now       func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n notifier.Notifier, rec recorder.Recorder, m *metrics.Metrics, opts Options) *Scheduler {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Thresholds == (strategy.Thresholds{}) {
		opts.Thresholds = strategy.DefaultThresholds
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Metrics:   m,
		Opts:      opts,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the watchlist job and, with a portfolio, the portfolio job.
func (s *Scheduler) RegisterAll(dailyCron, portfolioCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.watchlistTask); err != nil {
		return fmt.Errorf("register watchlist task: %w", err)
	}
	if s.Opts.Portfolio != nil {
		if _, err := s.Cron.AddFunc(portfolioCron, s.portfolioTask); err != nil {
			return fmt.Errorf("register portfolio task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info(s.Ctx, "scheduler started", "jobs", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info(s.Ctx, "scheduler stopped")
}

// RunNow executes every job immediately.
func (s *Scheduler) RunNow() {
	s.watchlistTask()
	if s.Opts.Portfolio != nil {
		s.portfolioTask()
	}
}

func (s *Scheduler) watchlistTask() {
	start := s.now()
	runID := recorder.NewRunID()
	op := logger.StartOperation(s.Ctx, "scheduler.watchlist", "run_id", runID, "symbols", len(s.Opts.Watchlist))
	rows, failed := s.AnalyzeWatchlist(op.Context(), runID)
	var err error
	if len(failed) > 0 {
		err = fmt.Errorf("%d of %d symbols failed", len(failed), len(s.Opts.Watchlist))
		op.EndWithError(err)
	} else {
		op.End()
	}
	s.observe("watchlist", start, err)

	report := notifier.FormatIndicatorReport(rows, s.now())
	if len(failed) > 0 {
		report += "\n## Failed\n\n"
		for _, sym := range sortedKeys(failed) {
			report += fmt.Sprintf("- %s: %v\n", sym, failed[sym])
		}
	}
	s.trySend(report)
}

// AnalyzeWatchlist computes and records every watchlist symbol using at most
// Opts.Workers goroutines. Rows keep watchlist order.
func (s *Scheduler) AnalyzeWatchlist(ctx context.Context, runID string) ([]notifier.IndicatorRow, map[string]error) {
	type result struct {
		row notifier.IndicatorRow
		err error
	}
	results := make([]result, len(s.Opts.Watchlist))
	sem := make(chan struct{}, s.Opts.Workers)
	var wg sync.WaitGroup
	for i, sym := range s.Opts.Watchlist {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			row, err := s.analyzeSymbol(ctx, runID, sym)
			results[i] = result{row: row, err: err}
		}()
	}
	wg.Wait()

	var rows []notifier.IndicatorRow
	failed := make(map[string]error)
	for i, r := range results {
		if r.err != nil {
			failed[s.Opts.Watchlist[i]] = r.err
			continue
		}
		rows = append(rows, r.row)
	}
	return rows, failed
}

func (s *Scheduler) analyzeSymbol(ctx context.Context, runID, symbol string) (notifier.IndicatorRow, error) {
	a, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "collect failed", err, "symbol", symbol)
		return notifier.IndicatorRow{}, err
	}
	sig := strategy.EvaluateWith(a.Snapshot, s.Opts.Thresholds)
	if s.Metrics != nil {
		s.Metrics.LastRSI.WithLabelValues(symbol).Set(a.Snapshot.RSI)
		if sig.Zone != model.ZoneNeutral {
			s.Metrics.SignalsTotal.WithLabelValues(strings.ToLower(string(sig.Zone))).Inc()
		}
		if sig.Crossover != model.CrossNone {
			s.Metrics.SignalsTotal.WithLabelValues("cross_" + strings.ToLower(string(sig.Crossover))).Inc()
		}
	}
	if err := s.Recorder.RecordIndicators(&recorder.IndicatorEvent{RunID: runID, Snapshot: a.Snapshot, Signal: sig}); err != nil {
		logger.ErrorWithErr(ctx, "record indicators", err, "symbol", symbol)
	}
	return notifier.IndicatorRow{Snapshot: a.Snapshot, Signal: sig}, nil
}

func (s *Scheduler) portfolioTask() {
	start := s.now()
	rep, err := s.AnalyzePortfolio(s.Ctx, recorder.NewRunID())
	s.observe("portfolio", start, err)
	if err != nil {
		logger.ErrorWithErr(s.Ctx, "portfolio analysis failed", err)
		s.trySend(fmt.Sprintf("Portfolio analysis failed: %v", err))
		return
	}
	s.trySend(notifier.FormatPortfolio(rep))
}

// AnalyzePortfolio fetches returns for the configured portfolio and records the result.
func (s *Scheduler) AnalyzePortfolio(ctx context.Context, runID string) (*portfolio.Report, error) {
	p := s.Opts.Portfolio
	returns, err := s.Collector.Returns(ctx, p.Symbols())
	if err != nil {
		return nil, err
	}
	rep, err := portfolio.Analyze(p, returns, s.Opts.PortfolioOptions)
	if err != nil {
		return nil, err
	}
	if s.Metrics != nil && rep.SharpeDefined {
		s.Metrics.PortfolioSharpe.Set(rep.Sharpe)
	}
	if err := s.Recorder.RecordPortfolio(&recorder.PortfolioEvent{
		RunID:                runID,
		Holdings:             HoldingsString(p),
		Start:                rep.Start(),
		End:                  rep.End(),
		Cumulative:           rep.Cumulative,
		AnnualizedReturn:     rep.AnnualizedReturn,
		AnnualizedVolatility: rep.AnnualizedVolatility,
		Sharpe:               rep.Sharpe,
		SharpeDefined:        rep.SharpeDefined,
		ExcludedDates:        rep.ExcludedDates,
	}); err != nil {
		logger.ErrorWithErr(ctx, "record portfolio", err)
	}
	return rep, nil
}

// HoldingsString renders p as "SYM:weight,...".
func HoldingsString(p *model.Portfolio) string {
	parts := make([]string, 0, p.Len())
	for _, h := range p.Holdings() {
		parts = append(parts, fmt.Sprintf("%s:%g", h.Symbol, h.Weight))
	}
	return strings.Join(parts, ",")
}

func (s *Scheduler) observe(kind string, start time.Time, err error) {
	if s.Metrics != nil {
		s.Metrics.Observe(kind, start, err)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		logger.ErrorWithErr(s.Ctx, "send notification", err)
		if s.Metrics != nil {
			s.Metrics.NotifyFailures.Inc()
		}
	}
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
