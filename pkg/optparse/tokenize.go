// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokPositional tokenKind = iota
	tokLong                 // --name, --name=value
	tokShort                // -x
	tokCluster              // -xyz
	tokTerminator           // --
)

var tokenKindNames = [...]string{
	tokPositional: "positional",
	tokLong:       "long",
	tokShort:      "short",
	tokCluster:    "cluster",
	tokTerminator: "terminator",
}

func (k tokenKind) String() string {
	return tokenKindNames[k]
}

// token is one classified argument.
type token struct {
	kind tokenKind
	// name is the long name for tokLong, and the short characters for
	// tokShort and tokCluster.
	name   string
	value  string
	inline bool // value came from --name=value
}

// classify decides what a single argument is without looking at the
// registry. The empty string and a lone dash are malformed.
func classify(arg string) (token, error) {
	switch {
	case arg == "" || arg == "-":
		return token{}, &ParseError{Kind: ErrSyntax, Arg: arg, Msg: syntaxMsg(arg)}
	case arg == "--":
		return token{kind: tokTerminator}, nil
	case strings.HasPrefix(arg, "--"):
		name, value, inline := strings.Cut(arg[2:], "=")
		if name == "" {
			return token{}, &ParseError{Kind: ErrSyntax, Arg: arg, Msg: syntaxMsg(arg)}
		}
		return token{kind: tokLong, name: name, value: value, inline: inline}, nil
	case strings.HasPrefix(arg, "-"):
		chars := arg[1:]
		if utf8.RuneCountInString(chars) == 1 {
			return token{kind: tokShort, name: chars}, nil
		}
		return token{kind: tokCluster, name: chars}, nil
	}
	return token{kind: tokPositional, value: arg}, nil
}

func syntaxMsg(arg string) string {
	if arg == "" {
		return "empty argument"
	}
	return "invalid argument: " + arg
}
