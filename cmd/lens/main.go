package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"MarketLens/internal/config"
	"MarketLens/internal/logger"
)

func main() {
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&indicatorsCmd{}, "analysis")
	commander.Register(&sentimentCmd{}, "analysis")
	commander.Register(&portfolioCmd{}, "analysis")
	commander.Register(&edaCmd{}, "analysis")
	commander.Register(&serveCmd{}, "service")

	cfgPath := flag.String("config", config.PathFromEnv(), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Tracing: cfg.Log.Tracing}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: logger: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	ctx := context.Background()
	status := commander.Execute(ctx, cfg)
	_ = logger.Shutdown(ctx)
	os.Exit(int(status))
}
