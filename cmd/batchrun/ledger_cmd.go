// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ManuGH/batchrun/internal/config"
	"github.com/ManuGH/batchrun/internal/ledger"
	"github.com/ManuGH/batchrun/internal/persistence/sqlite"
	"github.com/spf13/pflag"
)

func (a *app) runLedgerCLI(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printLedgerUsage(a)
		return exitOK
	}

	switch args[0] {
	case "verify":
		return a.runLedgerVerify(ctx, args[1:])
	case "drift":
		return a.runLedgerDrift(ctx, args[1:])
	default:
		fmt.Fprintf(a.stderr, "Unknown subcommand: %s\n\n", args[0])
		printLedgerUsage(a)
		return exitUsage
	}
}

func printLedgerUsage(a *app) {
	fmt.Fprintln(a.stderr, "Usage:")
	fmt.Fprintln(a.stderr, "  batchrun ledger verify [--full]")
	fmt.Fprintln(a.stderr, "  batchrun ledger drift --step NAME")
}

// ledgerPath returns the configured schema ledger. Read-only commands never
// create it, so a missing file is an error.
func (a *app) ledgerPath(ctx context.Context) (string, error) {
	conf, err := a.loadConf(ctx)
	if err != nil {
		return "", err
	}
	path, err := conf.String(config.KeySchemaLedgerPath)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("schema ledger: %w", err)
	}
	return path, nil
}

func (a *app) runLedgerVerify(ctx context.Context, args []string) int {
	flagSet := pflag.NewFlagSet("batchrun ledger verify", pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)

	var full bool
	flagSet.BoolVar(&full, "full", false, "run a full integrity_check instead of quick_check")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	path, err := a.ledgerPath(ctx)
	if err != nil {
		return a.fail("ledger.unavailable", err)
	}

	mode := sqlite.ModeQuick
	if full {
		mode = sqlite.ModeFull
	}
	issues, err := sqlite.VerifyIntegrity(path, mode)
	if err != nil {
		return a.fail("ledger.verify_failed", err)
	}
	if len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(a.stdout, "  %s\n", issue)
		}
		return a.fail("ledger.corrupt", fmt.Errorf("%s: %d integrity issue(s)", path, len(issues)))
	}

	fmt.Fprintf(a.stdout, "✓ %s passed %s check\n", path, mode)
	return exitOK
}

func (a *app) runLedgerDrift(ctx context.Context, args []string) int {
	flagSet := pflag.NewFlagSet("batchrun ledger drift", pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)

	var step string
	flagSet.StringVar(&step, "step", "", "step whose last two archives are compared (required)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if step == "" {
		fmt.Fprintln(a.stderr, "ledger drift: --step is required")
		return exitUsage
	}

	path, err := a.ledgerPath(ctx)
	if err != nil {
		return a.fail("ledger.unavailable", err)
	}
	store, err := ledger.NewSqliteStore(path)
	if err != nil {
		return a.fail("ledger.open_failed", err)
	}
	defer store.Close()

	prev, cur, d, ok, err := store.Drift(ctx, step)
	if err != nil {
		return a.fail("ledger.query_failed", err)
	}
	if !ok {
		fmt.Fprintf(a.stdout, "fewer than two archives of step %q\n", step)
		return exitOK
	}

	fmt.Fprintf(a.stdout, "%s -> %s\n", prev, cur)
	printDrift(a, d)
	return exitOK
}
