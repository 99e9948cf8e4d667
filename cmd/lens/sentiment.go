package main

import (
	"context"
	"errors"
	"flag"

	"github.com/google/subcommands"

	"MarketLens/internal/calculator"
	"MarketLens/internal/collector"
	"MarketLens/internal/model"
	"MarketLens/internal/notifier"
	"MarketLens/internal/recorder"
	"MarketLens/internal/sentiment"
)

type sentimentCmd struct {
	newsFile string
	lag      int
	maxLag   int
	score    bool
	record   bool
	raw      bool
}

func (*sentimentCmd) Name() string     { return "sentiment" }
func (*sentimentCmd) Synopsis() string { return "correlate headline sentiment with daily returns" }
func (*sentimentCmd) Usage() string {
	return `lens sentiment [-news file] [-lag n | -max-lag n] [-score] [-record] [SYMBOL...]

  Averages headline sentiment per day and computes its Pearson correlation
  with the symbol's daily return, optionally shifted by -lag trading days.
  With -max-lag every lag from 0 to n is reported.
`
}

func (c *sentimentCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.newsFile, "news", "", "news CSV (defaults to data_source.news_file)")
	f.IntVar(&c.lag, "lag", -1, "return lag in trading days (defaults to sentiment.lag)")
	f.IntVar(&c.maxLag, "max-lag", -1, "scan lags 0..n instead of a single lag")
	f.BoolVar(&c.score, "score", false, "score unscored headlines with the built-in lexicon")
	f.BoolVar(&c.record, "record", false, "store the correlations in the SQLite database")
	f.BoolVar(&c.raw, "raw", false, "print Markdown without terminal rendering")
}

func (c *sentimentCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := configFrom(args)
	if cfg == nil {
		return fail(errNoConfig)
	}
	if c.newsFile == "" {
		c.newsFile = cfg.DataSource.NewsFile
	}
	if c.lag < 0 {
		c.lag = cfg.Sentiment.Lag
	}
	news, err := collector.LoadNewsFile(c.newsFile)
	if err != nil {
		return fail(err)
	}
	if c.score || cfg.Sentiment.Score {
		news = sentiment.ScoreMissing(news, sentiment.NewLexiconScorer())
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
	var results []sentiment.Result
	skipped := make(map[string]error)
	for _, sym := range symbols {
		ps, err := col.Series(ctx, sym)
		if err != nil {
			return fail(err)
		}
		rets, err := calculator.DailyReturns(ps)
		if err != nil {
			skipped[sym] = err
			continue
		}
		var got []sentiment.Result
		if c.maxLag >= 0 {
			got, err = sentiment.CorrelateLags(news, rets, c.maxLag)
		} else {
			var r sentiment.Result
			r, err = sentiment.Correlate(news, rets, sentiment.Options{Lag: c.lag})
			got = []sentiment.Result{r}
		}
		if err != nil {
			if errors.Is(err, model.ErrInsufficientOverlap) || errors.Is(err, model.ErrUndefinedStatistic) {
				skipped[sym] = err
				continue
			}
			return fail(err)
		}
		for _, r := range got {
			if err := rec.RecordCorrelation(&recorder.CorrelationEvent{
				RunID: runID, Symbol: r.Symbol, Lag: r.Lag, Coefficient: r.Coefficient, Samples: r.Samples,
			}); err != nil {
				return fail(err)
			}
		}
		results = append(results, got...)
	}
	printMarkdown(notifier.FormatCorrelation(results, skipped), c.raw)
	return subcommands.ExitSuccess
}
