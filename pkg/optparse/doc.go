// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optparse is a table-driven command-line argument parser.
//
// A program declares its options once, as an ordered table of Field values
// (or as a tagged struct, see FieldsOf), and builds an immutable Registry from
// it. Each Parse call then walks the argument vector exactly once, left to
// right, and produces a fresh State:
//   - Long options: --name value, --name=value
//   - Short options: -x value, -x (flag), and clusters of flags such as -xyz
//   - Everything else is positional and is bound after the scan, in
//     declaration order, to options marked Positional
//   - "--" ends option processing; later tokens are positional
//
// After the scan, required options, groups (exclusive and/or required) and
// dependencies between options are validated. All user-input problems are
// reported as a *ParseError whose kind can be matched with errors.Is.
//
// # Basic Usage
//
//	reg := optparse.MustRegistry([]optparse.Field{
//	    {Name: "file", Kind: optparse.KindString, Flags: optparse.Positional | optparse.Required | optparse.Multiple},
//	    {Name: "verbosity", Short: 'v', Kind: optparse.KindInt, Default: int64(6)},
//	})
//	p := optparse.MustNew(reg, optparse.AppInfo{Name: "tool", Version: "1.0"})
//	st, res, err := p.Parse(os.Args[1:])
//	if err != nil {
//	    fmt.Fprintf(os.Stderr, "Error: %v\n", err)
//	    os.Exit(1)
//	}
//	if res == optparse.Terminate {
//	    return // help or version was printed
//	}
//	fmt.Println(st.Strings("file"), st.Int("verbosity"))
//
// # Struct Declarations
//
//	type Options struct {
//	    Files     []string `flag:"file" opt:"positional,required"`
//	    Verbosity int      `flag:"verbosity" short:"v" default:"6" help:"Log level"`
//	}
//
//	opts, res, err := optparse.ParseStruct[Options](os.Args[1:], optparse.AppInfo{Name: "tool"})
//
// # Help
//
// Unless suppressed with NoHelp / NoVersion, the pseudo-options --help, -h,
// --full-help and --version print to AppInfo.Output and make Parse return
// Terminate with a nil error. Their long names are reserved while enabled,
// so New rejects a registry that declares them. A declared -h short form
// takes precedence over the built-in one.
package optparse
