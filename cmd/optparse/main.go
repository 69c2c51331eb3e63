// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command optparse parses arguments against an option declaration file and
// reports the result. It is useful for trying out a declaration before
// wiring it into a program, and for shell scripts that want declared
// options without writing a parser.
package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/shayne/yargs"
	"golang.org/x/term"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	isTerminalFn = term.IsTerminal

	// declArgs holds everything after the first "--". Those arguments belong
	// to the declared program, so the subcommand router never sees them.
	declArgs []string
)

func main() {
	args, rest := splitArgs(os.Args[1:])
	declArgs = rest

	globalFlags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}
	setupLogging(stderr, globalFlags.Verbose)

	if err := run(context.Background(), remaining); err != nil {
		printCLIError(stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	handlers := map[string]yargs.SubcommandHandler{
		"check":   handleCheck,
		"render":  handleRender,
		"version": handleVersion,
	}
	return yargs.RunSubcommands(ctx, args, buildHelpConfig(), globalFlagsParsed{}, handlers)
}

// splitArgs cuts args at the first "--".
func splitArgs(args []string) (own, rest []string) {
	for i, a := range args {
		if a == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
