// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/batchrun/internal/config"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func (a *app) runConfigCLI(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(a)
		return exitOK
	}

	switch args[0] {
	case "validate":
		return a.runConfigValidate(ctx, args[1:])
	case "dump":
		return a.runConfigDump(ctx, args[1:])
	default:
		fmt.Fprintf(a.stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(a)
		return exitUsage
	}
}

func printConfigUsage(a *app) {
	fmt.Fprintln(a.stderr, "Usage:")
	fmt.Fprintln(a.stderr, "  batchrun config validate")
	fmt.Fprintln(a.stderr, "  batchrun config dump [--format=yaml|json]")
}

func (a *app) runConfigValidate(ctx context.Context, args []string) int {
	flagSet := pflag.NewFlagSet("batchrun config validate", pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	conf, err := a.loadConf(ctx)
	if err != nil {
		fmt.Fprintf(a.stderr, "Configuration error:\n  %v\n", err)
		return exitError
	}
	if err := conf.Require(config.RequiredKeys...); err != nil {
		fmt.Fprintf(a.stderr, "Configuration error in %s:\n  %v\n", conf.Path(), err)
		return exitError
	}
	for _, key := range []string{config.KeyBatchPrefix, config.KeyModelChoice, config.KeyOutputPath} {
		if _, err := conf.String(key); err != nil {
			fmt.Fprintf(a.stderr, "Configuration error in %s:\n  %v\n", conf.Path(), err)
			return exitError
		}
	}

	if conf.Source() == config.SourceTemplate {
		fmt.Fprintf(a.stdout, "✓ %s is valid (loaded from template)\n", conf.Path())
		return exitOK
	}
	fmt.Fprintf(a.stdout, "✓ %s is valid\n", conf.Path())
	return exitOK
}

func (a *app) runConfigDump(ctx context.Context, args []string) int {
	flagSet := pflag.NewFlagSet("batchrun config dump", pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)

	var format string
	flagSet.StringVar(&format, "format", "yaml", "output format: yaml or json")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format != "yaml" && format != "yml" && format != "json" {
		fmt.Fprintf(a.stderr, "Unsupported format: %s (use yaml or json)\n", format)
		return exitUsage
	}

	conf, err := a.loadConf(ctx)
	if err != nil {
		fmt.Fprintf(a.stderr, "Configuration error:\n  %v\n", err)
		return exitError
	}
	values := conf.Redacted()

	switch format {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(values); err != nil {
			fmt.Fprintf(a.stderr, "Failed to encode JSON: %v\n", err)
			return exitError
		}
		return exitOK
	default:
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(values); err != nil {
			fmt.Fprintf(a.stderr, "Failed to encode YAML: %v\n", err)
			return exitError
		}
		_ = enc.Close()
		return exitOK
	}
}
