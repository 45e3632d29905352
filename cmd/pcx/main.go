package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/vburojevic/pcx/internal/cli"
	"github.com/vburojevic/pcx/internal/config"
)

const quickStart = `pcx - explore experiment and subject session records

Quick start:
  pcx ui                                Interactive explorer
  pcx experiments                       List experiments
  pcx sessions -e "Reaction Time"       Sessions of one experiment
  pcx session SESSION_ID --copy         One session document

For help:
  pcx --help                            All commands and flags
  pcx schema                            JSON Schema of the NDJSON output
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// A missing .env is the normal case
	_ = godotenv.Load()

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}
	if cfg.Format == "" {
		cfg.Format = "auto"
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format":          cfg.Format,
		"config_api_base":        cfg.API.BaseURL,
		"config_include_samples": strconv.FormatBool(cfg.Explorer.IncludeSamples),
	}

	ctx := kong.Parse(&c,
		kong.Name("pcx"),
		kong.Description("pcx: browse experiments, subjects and their session records"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	// Create globals with config fallbacks
	globals := cli.NewGlobalsWithConfig(&c, cfg)
	defer func() { _ = globals.Logger().Sync() }()
	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}
