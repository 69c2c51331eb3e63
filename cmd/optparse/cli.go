// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/optparse/pkg/env"
	"github.com/yeetrun/optparse/pkg/optdecl"
	"github.com/yeetrun/optparse/pkg/optparse"
	"gopkg.in/yaml.v3"
)

// formatEnvVar names the environment variable holding the default output
// format of the check command.
const formatEnvVar = "OPTPARSE_FORMAT"

type globalFlagsParsed struct {
	Verbose bool `flag:"verbose" help:"Log debug output to stderr"`
}

type checkFlagsParsed struct {
	Format  string `flag:"format" help:"Output format (json|yaml|env), default $OPTPARSE_FORMAT or json"`
	Prefix  string `flag:"prefix" help:"Prefix for variable names in env output"`
	EnvFile string `flag:"env-file" help:"Also write env assignments to this file"`
}

type renderFlagsParsed struct {
	Full bool `flag:"full" help:"Include hidden options"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "optparse",
			Description: "Parse arguments against an option declaration file (TOML, YAML or HCL).",
			Examples: []string{
				"optparse check tool.toml -- -v 3 --name=x input.txt",
				"optparse check tool.yaml --format env --prefix TOOL_ -- --force",
				"optparse render tool.hcl --full",
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"check": {
				Name:        "check",
				Description: "Parse the arguments after -- and print the resulting values",
				Usage:       "<decl-file> [--format json|yaml|env] [--prefix P] [--env-file PATH] -- <args...>",
				Examples:    []string{"optparse check tool.toml --format yaml -- --verbosity 4"},
			},
			"render": {
				Name:        "render",
				Description: "Print the help text of the declared program",
				Usage:       "<decl-file> [--full]",
			},
			"version": {
				Name:        "version",
				Description: "Print the optparse version",
			},
		},
	}
}

func handleCheck(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "check" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[checkFlagsParsed](args)
	if err != nil {
		return err
	}
	if len(result.Args) != 1 {
		return errors.New("check takes exactly one declaration file")
	}
	format, err := outputFormat(result.Flags.Format)
	if err != nil {
		return err
	}
	p, err := loadParser(ctx, result.Args[0])
	if err != nil {
		return err
	}
	st, res, err := p.Parse(declArgs)
	if err != nil {
		return newDeclError(p, err)
	}
	if res == optparse.Terminate {
		return nil
	}
	if path := result.Flags.EnvFile; path != "" {
		if err := env.WriteFile(path, result.Flags.Prefix, st); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		slog.DebugContext(ctx, "Wrote env file.", "path", path)
	}
	return writeState(stdout, format, result.Flags.Prefix, st)
}

func handleRender(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "render" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[renderFlagsParsed](args)
	if err != nil {
		return err
	}
	if len(result.Args) != 1 {
		return errors.New("render takes exactly one declaration file")
	}
	p, err := loadParser(ctx, result.Args[0])
	if err != nil {
		return err
	}
	return p.RenderHelp(stdout, result.Flags.Full)
}

func handleVersion(_ context.Context, _ []string) error {
	_, err := fmt.Fprintf(stdout, "optparse %s\n", version)
	return err
}

func loadParser(ctx context.Context, path string) (*optparse.Parser, error) {
	d, err := optdecl.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	reg, info, err := d.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	info.Output = stdout
	p, err := optparse.New(reg, info, optparse.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func outputFormat(flag string) (string, error) {
	f := flag
	if f == "" {
		f = os.Getenv(formatEnvVar)
	}
	switch f = strings.ToLower(f); f {
	case "":
		return "json", nil
	case "json", "yaml", "env":
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json, yaml or env)", f)
}

// stateReport is the json and yaml shape of a parsed State.
type stateReport struct {
	Values map[string]any `json:"values" yaml:"values"`
	Set    []string       `json:"set" yaml:"set"`
}

func newStateReport(st *optparse.State) stateReport {
	values := st.Map()
	for k, v := range values {
		values[k] = plainValue(v)
	}
	set := st.SetNames()
	if set == nil {
		set = []string{}
	}
	return stateReport{Values: values, Set: set}
}

// plainValue renders durations as text; both encoders would otherwise
// print nanoseconds.
func plainValue(v any) any {
	switch v := v.(type) {
	case time.Duration:
		return v.String()
	case []time.Duration:
		out := make([]string, len(v))
		for i, d := range v {
			out[i] = d.String()
		}
		return out
	}
	return v
}

func writeState(w io.Writer, format, prefix string, st *optparse.State) error {
	switch format {
	case "env":
		return env.Marshal(w, prefix, st)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newStateReport(st)); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newStateReport(st))
}

// declError is an argument error of the declared program, as opposed to a
// usage error of optparse itself.
type declError struct {
	usage string
	// helpName is empty when the declared program has no --help.
	helpName string
	err      error
}

func newDeclError(p *optparse.Parser, err error) *declError {
	de := &declError{usage: p.Usage(), err: err}
	if info := p.Info(); !info.Flags.Has(optparse.NoHelp) {
		de.helpName = info.Name
	}
	return de
}

func (e *declError) Error() string { return e.err.Error() }
func (e *declError) Unwrap() error { return e.err }

func (e *declError) hint() string {
	h := "Usage: " + e.usage
	if e.helpName != "" {
		h += fmt.Sprintf("\nTry '%s --help' for more information.", e.helpName)
	}
	return h
}

func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	msg := "Error: " + err.Error()
	if f, ok := w.(*os.File); ok && isTerminalFn(int(f.Fd())) {
		msg = color.RedString("%s", msg)
	}
	fmt.Fprintln(w, msg)
	var de *declError
	if errors.As(err, &de) {
		fmt.Fprintln(w, de.hint())
	}
}
