// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"
)

// Kind is the semantic type of an option's value. It selects the converter
// used for raw arguments and the Go type stored in the State.
type Kind int

const (
	KindString   Kind = iota // string
	KindInt                  // int64
	KindUint                 // uint64
	KindFloat                // float64
	KindBool                 // bool
	KindDuration             // time.Duration
)

var kindNames = map[Kind]string{
	KindString:   "string",
	KindInt:      "int",
	KindUint:     "uint",
	KindFloat:    "float",
	KindBool:     "bool",
	KindDuration: "duration",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind with the given name ("string", "int", ...).
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == strings.ToLower(s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown option type %q", s)
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	kindTypes    = map[Kind]reflect.Type{
		KindString:   reflect.TypeOf(""),
		KindInt:      reflect.TypeOf(int64(0)),
		KindUint:     reflect.TypeOf(uint64(0)),
		KindFloat:    reflect.TypeOf(float64(0)),
		KindBool:     reflect.TypeOf(false),
		KindDuration: durationType,
	}
)

// goType returns the Go type stored for a single value of kind k.
func (k Kind) goType() reflect.Type {
	return kindTypes[k]
}

// Flags describe how an option is parsed and displayed.
type Flags uint8

const (
	// Hidden options are only shown by --full-help.
	Hidden Flags = 1 << iota
	// Positional options may also be given without their name.
	Positional
	// IsFlag options take no value; their presence means true.
	IsFlag
	// Required options must be set by the arguments.
	Required
	// Multiple options accumulate every occurrence. A positional Multiple
	// option consumes all remaining positional arguments.
	Multiple
)

// Has reports whether all bits of x are set in f.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

var flagNames = []struct {
	flag Flags
	name string
}{
	{Hidden, "hidden"},
	{Positional, "positional"},
	{IsFlag, "flag"},
	{Required, "required"},
	{Multiple, "multiple"},
}

// ParseFlags parses a list of flag names such as "positional" or "required".
func ParseFlags(names []string) (Flags, error) {
	var f Flags
outer:
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		for _, fn := range flagNames {
			if fn.name == n {
				f |= fn.flag
				continue outer
			}
		}
		return 0, fmt.Errorf("unknown option flag %q", n)
	}
	return f, nil
}

func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// GroupFlags are the constraints a Group places on its members.
type GroupFlags uint8

const (
	// GroupExclusive allows at most one member to be set.
	GroupExclusive GroupFlags = 1 << iota
	// GroupRequired requires at least one member to be set.
	GroupRequired
)

// Has reports whether all bits of x are set in f.
func (f GroupFlags) Has(x GroupFlags) bool {
	return f&x == x
}

// Group clusters related options. Members of a group must be declared
// next to each other.
type Group struct {
	Name        string
	Description string
	Flags       GroupFlags
}

func (g Group) title() string {
	title := g.Description
	if title == "" {
		title = g.Name
	}
	var cons []string
	if g.Flags.Has(GroupExclusive) {
		cons = append(cons, "exclusive")
	}
	if g.Flags.Has(GroupRequired) {
		cons = append(cons, "required")
	}
	if len(cons) > 0 {
		title += " (" + strings.Join(cons, ", ") + ")"
	}
	return title
}

// Field declares one option.
type Field struct {
	// Name is the long form (--name). It must be unique.
	Name string
	// Short is the optional single-character form (-x).
	Short       rune
	Kind        Kind
	Description string
	Flags       Flags
	// Enum restricts the raw argument to one of these strings.
	Enum []string
	// Group names the Group this option belongs to, if any.
	Group string
	// DependsOn names options that must be set whenever this one is.
	DependsOn []string
	// Default is the initial value. It may be given as the Go type of Kind,
	// as raw text to be converted, or, for Multiple options, as a slice of
	// either. Nil means the zero value.
	Default any
	// Converter overrides the built-in converter for Kind. It must return
	// values of Kind's Go type.
	Converter Converter
}

// ParserFlags adjust parser-wide behaviour.
type ParserFlags uint8

const (
	// NoHelp disables --help, -h and --full-help.
	NoHelp ParserFlags = 1 << iota
	// NoVersion disables --version.
	NoVersion
	// HideHidden makes --full-help behave like --help.
	HideHidden
	// IgnoreUnknown skips unknown options and surplus positional arguments.
	IgnoreUnknown
	// CompactHelp renders one line per option.
	CompactHelp
)

// Has reports whether all bits of x are set in f.
func (f ParserFlags) Has(x ParserFlags) bool {
	return f&x == x
}

var parserFlagNames = map[string]ParserFlags{
	"no-help":        NoHelp,
	"no-version":     NoVersion,
	"hide-hidden":    HideHidden,
	"ignore-unknown": IgnoreUnknown,
	"compact-help":   CompactHelp,
}

// ParseParserFlags parses names such as "no-help" or "compact-help".
func ParseParserFlags(names []string) (ParserFlags, error) {
	var f ParserFlags
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		pf, ok := parserFlagNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown parser flag %q", n)
		}
		f |= pf
	}
	return f, nil
}

// AppInfo describes the program for help and version output.
type AppInfo struct {
	Name    string
	Version string
	Flags   ParserFlags
	// Usage replaces the "<name> <version>" line at the top of the help.
	Usage  string
	Header string
	Footer string
	// Output receives help and version text. Nil means os.Stdout.
	Output io.Writer
}

// Result tells the caller how to continue after a successful Parse.
type Result int

const (
	// OK means the arguments were parsed and validated.
	OK Result = iota + 1
	// Terminate means help or version text was written and the program
	// should exit successfully without further processing.
	Terminate
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Terminate:
		return "terminate"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}
