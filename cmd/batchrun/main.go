// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/batchrun/internal/audit"
	"github.com/ManuGH/batchrun/internal/config"
	batchlog "github.com/ManuGH/batchrun/internal/log"
	"github.com/ManuGH/batchrun/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// app carries the global flags and process streams shared by subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	logger zerolog.Logger
	audit  *audit.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	flagSet := pflag.NewFlagSet("batchrun", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&a.configPath, "config", "c", "", "path to YAML configuration (default $BATCH_CONFIG or "+config.DefaultConfigPath+")")
	flagSet.StringVar(&a.logLevel, "log-level", "", "log level (overrides log_level in the configuration)")
	flagSet.Usage = func() { printUsage(stderr) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	// Safe defaults until the configuration is loaded.
	batchlog.Configure(batchlog.Config{
		Level:   a.logLevel,
		Output:  stderr,
		Service: "batchrun",
		Version: version.Version,
	})
	a.logger = batchlog.WithComponent("cli")
	a.audit = audit.NewLogger()

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	switch rest[0] {
	case "config":
		return a.runConfigCLI(ctx, rest[1:])
	case "name":
		return a.runName(ctx, rest[1:])
	case "archive":
		return a.runArchive(ctx, rest[1:])
	case "diff":
		return a.runDiff(rest[1:])
	case "ledger":
		return a.runLedgerCLI(ctx, rest[1:])
	case "version":
		fmt.Fprintln(stdout, version.String())
		return exitOK
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", rest[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  batchrun [--config PATH] [--log-level LEVEL] <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  config validate                   load the configuration and check required keys")
	fmt.Fprintln(w, "  config dump [--format yaml|json]  print the configuration with secrets masked")
	fmt.Fprintln(w, "  name                              print a fresh batch name")
	fmt.Fprintln(w, "  archive --step NAME FILE.csv...   archive the schemas of CSV data sets")
	fmt.Fprintln(w, "  diff OLD.csv NEW.csv              report schema drift between two archives")
	fmt.Fprintln(w, "  ledger verify [--full]            integrity-check the schema ledger")
	fmt.Fprintln(w, "  ledger drift --step NAME          compare the last two archives of a step")
	fmt.Fprintln(w, "  version                           print build information")
}

// loadConf loads the configuration and re-configures the logger with the
// effective level: --log-level, then log_level, then the environment.
func (a *app) loadConf(ctx context.Context) (*config.Conf, error) {
	cache := config.NewCache(config.NewLoader(a.configPath))
	conf, err := cache.Get()
	if err != nil {
		return nil, err
	}

	level := a.logLevel
	if level == "" {
		if level, err = conf.StringOr(config.KeyLogLevel, ""); err != nil {
			return nil, err
		}
	}
	batchlog.Configure(batchlog.Config{
		Level:   level,
		Output:  a.stderr,
		Service: "batchrun",
		Version: version.Version,
	})
	a.logger = batchlog.WithComponent("cli")
	a.audit = audit.NewLogger()

	a.audit.ConfigLoaded(ctx, conf.Path(), string(conf.Source()))
	return conf, nil
}

// fail reports err on stderr and in the log, returning the operational exit code.
func (a *app) fail(event string, err error) int {
	a.logger.Error().Err(err).Str(batchlog.FieldEvent, event).Msg("command failed")
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return exitError
}
