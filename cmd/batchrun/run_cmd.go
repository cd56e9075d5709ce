// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/batchrun/internal/batch"
	"github.com/ManuGH/batchrun/internal/config"
	"github.com/ManuGH/batchrun/internal/ledger"
	batchlog "github.com/ManuGH/batchrun/internal/log"
	"github.com/ManuGH/batchrun/internal/metrics"
	"github.com/ManuGH/batchrun/internal/schema"
	"github.com/spf13/pflag"
)

// MetricsFile is written into the output folder when metrics_textfile (or
// $BATCH_METRICS_TEXTFILE) is set.
const MetricsFile = "metrics.prom"

func (a *app) runName(ctx context.Context, args []string) int {
	flagSet := pflag.NewFlagSet("batchrun name", pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flagSet.NArg() != 0 {
		fmt.Fprintf(a.stderr, "name: unexpected argument: %s\n", flagSet.Arg(0))
		return exitUsage
	}

	conf, err := a.loadConf(ctx)
	if err != nil {
		return a.fail("config.load_failed", err)
	}
	name, err := batch.New(conf, batch.WithAudit(a.audit)).Name()
	if err != nil {
		return a.fail("batch.name_failed", err)
	}
	fmt.Fprintln(a.stdout, name)
	return exitOK
}

func (a *app) runArchive(ctx context.Context, args []string) int {
	flagSet := pflag.NewFlagSet("batchrun archive", pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)

	var step string
	var normalize bool
	flagSet.StringVar(&step, "step", "", "name of the job step being archived (required)")
	flagSet.BoolVar(&normalize, "normalize", false, "normalize column names before archiving")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if strings.TrimSpace(step) == "" {
		fmt.Fprintln(a.stderr, "archive: --step is required")
		return exitUsage
	}
	if flagSet.NArg() == 0 {
		fmt.Fprintln(a.stderr, "archive: at least one CSV file is required")
		return exitUsage
	}

	scope, err := readDatasets(flagSet.Args(), normalize)
	if err != nil {
		if errors.Is(err, errDuplicateDataset) {
			fmt.Fprintf(a.stderr, "archive: %v\n", err)
			return exitUsage
		}
		return a.fail("schema.read_failed", err)
	}

	conf, err := a.loadConf(ctx)
	if err != nil {
		return a.fail("config.load_failed", err)
	}

	run := batch.New(conf, batch.WithAudit(a.audit))
	ctx, err = run.Context(ctx)
	if err != nil {
		return a.fail("batch.name_failed", err)
	}
	logger := batchlog.FromContext(ctx)

	opts := []schema.ArchiverOption{schema.WithAuditLogger(a.audit)}
	ledgerPath, err := conf.StringOr(config.KeySchemaLedgerPath, "")
	if err != nil {
		return a.fail("config.invalid", err)
	}
	if ledgerPath != "" {
		store, err := ledger.NewSqliteStore(ledgerPath)
		if err != nil {
			return a.fail("ledger.open_failed", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Str(batchlog.FieldPath, ledgerPath).Msg("failed to close schema ledger")
			}
		}()
		opts = append(opts, schema.WithLedger(store))
	}

	path, err := schema.NewArchiver(run, opts...).Archive(ctx, step, scope)
	if err != nil {
		return a.fail("schema.archive_failed", err)
	}

	writeMetrics, err := conf.MetricsTextfile()
	if err != nil {
		return a.fail("config.invalid", err)
	}
	if writeMetrics {
		out, err := run.OutputFolder()
		if err != nil {
			return a.fail("batch.output_failed", err)
		}
		target := filepath.Join(out, MetricsFile)
		if err := metrics.WriteTextfile(target); err != nil {
			return a.fail("metrics.write_failed", err)
		}
		logger.Debug().Str(batchlog.FieldPath, target).Msg("wrote metrics textfile")
	}

	fmt.Fprintln(a.stdout, path)
	return exitOK
}

var errDuplicateDataset = errors.New("duplicate data set name")

// readDatasets loads each CSV file as a data set named after the file's base
// name without extension.
func readDatasets(paths []string, normalize bool) (map[string]any, error) {
	scope := make(map[string]any, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if _, dup := scope[name]; dup {
			return nil, fmt.Errorf("%w: %s", errDuplicateDataset, name)
		}

		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		frame, err := schema.ReadCSV(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if normalize {
			frame = frame.Normalized()
		}
		scope[name] = frame
	}
	return scope, nil
}

func (a *app) runDiff(args []string) int {
	flagSet := pflag.NewFlagSet("batchrun diff", pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)

	var verbose bool
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "also print the record-level diff (-old +new)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flagSet.NArg() != 2 {
		fmt.Fprintln(a.stderr, "diff: expected OLD.csv NEW.csv")
		return exitUsage
	}

	prev, err := readArchiveFile(flagSet.Arg(0))
	if err != nil {
		return a.fail("schema.read_failed", err)
	}
	cur, err := readArchiveFile(flagSet.Arg(1))
	if err != nil {
		return a.fail("schema.read_failed", err)
	}

	printDrift(a, schema.Compare(prev, cur))
	if verbose {
		if d := schema.Diff(prev, cur); d != "" {
			fmt.Fprint(a.stdout, d)
		}
	}
	return exitOK
}

func readArchiveFile(path string) ([]schema.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := schema.ReadArchive(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func printDrift(a *app, d schema.Drift) {
	if d.Empty() {
		fmt.Fprintln(a.stdout, "no schema drift")
		return
	}
	for _, r := range d.Added {
		fmt.Fprintf(a.stdout, "+ %s.%s %s\n", r.DataSet, r.Variable, r.Type)
	}
	for _, r := range d.Removed {
		fmt.Fprintf(a.stdout, "- %s.%s %s\n", r.DataSet, r.Variable, r.Type)
	}
	for _, r := range d.Retyped {
		fmt.Fprintf(a.stdout, "~ %s.%s %s -> %s\n", r.DataSet, r.Variable, r.From, r.To)
	}
}
