package main

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"MarketLens/internal/collector"
	"MarketLens/internal/eda"
	"MarketLens/internal/notifier"
)

type edaCmd struct {
	newsFile   string
	top        int
	publishers int
	symbols    string
	raw        bool
}

func (*edaCmd) Name() string     { return "eda" }
func (*edaCmd) Synopsis() string { return "summarise a news dataset" }
func (*edaCmd) Usage() string {
	return `lens eda [-news file] [-symbols A,B] [-top n] [-publishers n]

  Counts articles by publisher, day and hour, lists the most frequent
  headline keywords and describes headline lengths.
`
}

func (c *edaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.newsFile, "news", "", "news CSV (defaults to data_source.news_file)")
	f.IntVar(&c.top, "top", 0, "number of keywords (defaults to eda.top_keywords)")
	f.IntVar(&c.publishers, "publishers", 10, "number of publishers and domains to list")
	f.StringVar(&c.symbols, "symbols", "", "comma-separated tickers to keep (defaults to eda.symbols)")
	f.BoolVar(&c.raw, "raw", false, "print Markdown without terminal rendering")
}

func (c *edaCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := configFrom(args)
	if cfg == nil {
		return fail(errNoConfig)
	}
	if c.newsFile == "" {
		c.newsFile = cfg.DataSource.NewsFile
	}
	opts := eda.Options{Symbols: cfg.EDA.Symbols, TopKeywords: cfg.EDA.TopKeywords}
	if c.symbols != "" {
		opts.Symbols = strings.Split(c.symbols, ",")
	}
	if c.top > 0 {
		opts.TopKeywords = c.top
	}

	news, err := collector.LoadNewsFile(c.newsFile)
	if err != nil {
		return fail(err)
	}
	printMarkdown(notifier.FormatEDA(eda.Analyze(news, opts), c.publishers), c.raw)
	return subcommands.ExitSuccess
}
