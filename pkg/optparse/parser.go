// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"
)

// Names of the built-in pseudo-options.
const (
	helpName     = "help"
	fullHelpName = "full-help"
	versionName  = "version"
	helpShort    = 'h'
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug tracing of the parse. By
// default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser parses argument vectors against one Registry. A Parser holds no
// per-call state, so one value may be used from several goroutines.
type Parser struct {
	reg    *Registry
	info   AppInfo
	logger *slog.Logger
}

// New returns a Parser for reg. The long names of enabled built-in options
// are reserved: if reg declares one of them, New returns a *ConfigError.
func New(reg *Registry, info AppInfo, opts ...Option) (*Parser, error) {
	for _, name := range reservedNames(info.Flags) {
		if reg.byLong(name) != nil {
			return nil, configErrorf(name, "name is reserved for the built-in --%s option", name)
		}
	}
	p := &Parser{
		reg:    reg,
		info:   info,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MustNew is like New but panics on error.
func MustNew(reg *Registry, info AppInfo, opts ...Option) *Parser {
	p, err := New(reg, info, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// reservedNames lists the long names the built-in options claim under flags.
func reservedNames(flags ParserFlags) []string {
	var names []string
	if !flags.Has(NoHelp) {
		names = append(names, helpName, fullHelpName)
	}
	if !flags.Has(NoVersion) {
		names = append(names, versionName)
	}
	return names
}

// Registry returns the option table the parser was built with.
func (p *Parser) Registry() *Registry {
	return p.reg
}

// Info returns the program information the parser was built with.
func (p *Parser) Info() AppInfo {
	return p.info
}

func (p *Parser) output() io.Writer {
	if p.info.Output != nil {
		return p.info.Output
	}
	return os.Stdout
}

// Parse processes args, which must not include the program name.
//
// On success it returns the populated State and OK. If a help or version
// pseudo-option was given, the text is written to AppInfo.Output and Parse
// returns a nil State with Terminate. Problems with the arguments are
// reported as a *ParseError.
func (p *Parser) Parse(args []string) (*State, Result, error) {
	st := newState(p.reg, args)
	done, err := p.scan(st)
	if err != nil {
		return nil, 0, err
	}
	if done {
		return nil, Terminate, nil
	}
	if err := p.bindPositionals(st); err != nil {
		return nil, 0, err
	}
	if err := p.validateGroups(st); err != nil {
		return nil, 0, err
	}
	if err := p.validateDependencies(st); err != nil {
		return nil, 0, err
	}
	p.logger.Debug("parsed arguments", "set", st.SetNames(), "positional", len(st.positionals))
	return st, OK, nil
}

// scan walks args once, left to right, dispatching named options and
// queueing positional tokens for the binder. It reports true if a built-in
// pseudo-option has written its output.
func (p *Parser) scan(st *State) (bool, error) {
	args := st.args
	ignore := p.info.Flags.Has(IgnoreUnknown)
	terminated := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if terminated {
			if err := p.queuePositional(st, i); err != nil {
				return false, err
			}
			continue
		}
		tok, err := classify(arg)
		if err != nil {
			return false, err
		}
		p.logger.Debug("classified argument", "arg", arg, "kind", tok.kind)

		switch tok.kind {
		case tokTerminator:
			terminated = true

		case tokPositional:
			if err := p.queuePositional(st, i); err != nil {
				return false, err
			}

		case tokLong:
			if !tok.inline {
				if done, err := p.builtin(tok.name); done || err != nil {
					return done, err
				}
			}
			d := p.reg.byLong(tok.name)
			if d == nil {
				if ignore {
					p.logger.Debug("ignoring unknown option", "arg", arg)
					continue
				}
				return false, unknownOption(arg, "--"+tok.name)
			}
			if tok.inline && d.Flags.Has(IsFlag) {
				return false, &ParseError{
					Kind:   ErrSyntax,
					Option: d.Name,
					Arg:    arg,
					Value:  tok.value,
					Msg:    fmt.Sprintf("option --%s takes no value", d.Name),
				}
			}
			raw, present := tok.value, tok.inline
			if !present && !d.Flags.Has(IsFlag) && i+1 < len(args) {
				i++
				raw, present = args[i], true
			}
			if err := st.dispatch(d, arg, raw, present); err != nil {
				return false, err
			}

		case tokShort:
			c := []rune(tok.name)[0]
			d := p.reg.byRune(c)
			if d == nil && c == helpShort && !p.info.Flags.Has(NoHelp) {
				return true, p.RenderHelp(p.output(), false)
			}
			if d == nil {
				if ignore {
					p.logger.Debug("ignoring unknown option", "arg", arg)
					continue
				}
				return false, unknownOption(arg, arg)
			}
			raw, present := "", false
			if !d.Flags.Has(IsFlag) && i+1 < len(args) {
				i++
				raw, present = args[i], true
			}
			if err := st.dispatch(d, arg, raw, present); err != nil {
				return false, err
			}

		case tokCluster:
			for _, c := range tok.name {
				d := p.reg.byRune(c)
				if d == nil || !d.Flags.Has(IsFlag) {
					if ignore {
						p.logger.Debug("ignoring cluster member", "arg", arg, "short", string(c))
						continue
					}
					return false, unknownOption(arg, "-"+string(c))
				}
				if err := st.dispatch(d, arg, "", false); err != nil {
					return false, err
				}
			}
		}
	}
	return false, nil
}

// builtin handles --help, --full-help and --version unless the parser flags
// suppress them.
func (p *Parser) builtin(name string) (bool, error) {
	switch name {
	case helpName:
		if !p.info.Flags.Has(NoHelp) {
			return true, p.RenderHelp(p.output(), false)
		}
	case fullHelpName:
		if !p.info.Flags.Has(NoHelp) {
			return true, p.RenderHelp(p.output(), !p.info.Flags.Has(HideHidden))
		}
	case versionName:
		if !p.info.Flags.Has(NoVersion) {
			return true, p.RenderVersion(p.output())
		}
	}
	return false, nil
}

func (p *Parser) queuePositional(st *State, i int) error {
	if len(st.positionals) >= MaxPositional {
		return &ParseError{
			Kind: ErrTooManyPositional,
			Arg:  st.args[i],
			Msg:  fmt.Sprintf("too many positional arguments (at most %d)", MaxPositional),
		}
	}
	st.positionals = append(st.positionals, i)
	return nil
}

func unknownOption(arg, name string) error {
	return &ParseError{Kind: ErrUnknownOption, Arg: arg, Msg: "unknown option: " + name}
}

// dispatch converts raw for d and stores it. present is false when the
// argument supplied no value at all.
func (st *State) dispatch(d *descriptor, arg, raw string, present bool) error {
	if !present {
		if !d.Flags.Has(IsFlag) {
			return &ParseError{
				Kind:   ErrMissingValue,
				Option: d.Name,
				Arg:    arg,
				Msg:    fmt.Sprintf("option --%s requires a value", d.Name),
			}
		}
		st.store(d, true)
		return nil
	}
	if len(d.Enum) > 0 && !slices.Contains(d.Enum, raw) {
		return &ParseError{
			Kind:   ErrEnumViolation,
			Option: d.Name,
			Arg:    arg,
			Value:  raw,
			Msg:    fmt.Sprintf("invalid value %q for --%s (valid values: %s)", raw, d.Name, strings.Join(d.Enum, ", ")),
		}
	}
	v, err := d.conv.Convert(raw)
	if err == nil && (v == nil || reflect.TypeOf(v) != d.Kind.goType()) {
		err = fmt.Errorf("converter returned %T, want %s", v, d.Kind.goType())
	}
	if err != nil {
		return &ParseError{
			Kind:   ErrTypeConversion,
			Option: d.Name,
			Arg:    arg,
			Value:  raw,
			Msg:    fmt.Sprintf("invalid value %q for --%s: expected %s", raw, d.Name, d.Kind),
			Err:    fmt.Errorf("failed to set option %s: %w", d.Name, err),
		}
	}
	st.store(d, v)
	return nil
}
