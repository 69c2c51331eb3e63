// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optdecl loads option tables for package optparse from declaration
// files written in TOML, YAML or HCL.
package optdecl

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/optparse/pkg/optparse"
)

// Decl is a program's option declaration as read from a file.
type Decl struct {
	Name    string       `toml:"name" yaml:"name"`
	Version string       `toml:"version" yaml:"version"`
	Usage   string       `toml:"usage" yaml:"usage"`
	Header  string       `toml:"header" yaml:"header"`
	Footer  string       `toml:"footer" yaml:"footer"`
	Flags   []string     `toml:"flags" yaml:"flags"`
	Groups  []GroupDecl  `toml:"groups" yaml:"groups"`
	Options []OptionDecl `toml:"options" yaml:"options"`
}

// GroupDecl declares one option group. Flags may contain "exclusive" and
// "required".
type GroupDecl struct {
	Name        string   `toml:"name" yaml:"name"`
	Description string   `toml:"description" yaml:"description"`
	Flags       []string `toml:"flags" yaml:"flags"`
}

// OptionDecl declares one option. Type is an optparse kind name and
// defaults to "string".
type OptionDecl struct {
	Name      string   `toml:"name" yaml:"name"`
	Short     string   `toml:"short" yaml:"short"`
	Type      string   `toml:"type" yaml:"type"`
	Help      string   `toml:"help" yaml:"help"`
	Flags     []string `toml:"flags" yaml:"flags"`
	Enum      []string `toml:"enum" yaml:"enum"`
	Group     string   `toml:"group" yaml:"group"`
	DependsOn []string `toml:"depends_on" yaml:"depends_on"`
	Default   any      `toml:"default" yaml:"default"`
}

var groupFlagNames = map[string]optparse.GroupFlags{
	"exclusive": optparse.GroupExclusive,
	"required":  optparse.GroupRequired,
}

// Build validates the declaration and turns it into a registry and the
// program information for a parser.
func (d *Decl) Build() (*optparse.Registry, optparse.AppInfo, error) {
	var info optparse.AppInfo
	if d.Name == "" {
		return nil, info, fmt.Errorf("declaration has no program name")
	}
	if d.Version != "" {
		if _, err := semver.NewVersion(d.Version); err != nil {
			return nil, info, fmt.Errorf("invalid version %q: %w", d.Version, err)
		}
	}
	pflags, err := optparse.ParseParserFlags(d.Flags)
	if err != nil {
		return nil, info, err
	}
	info = optparse.AppInfo{
		Name:    d.Name,
		Version: d.Version,
		Flags:   pflags,
		Usage:   d.Usage,
		Header:  d.Header,
		Footer:  d.Footer,
	}

	groups := make([]optparse.Group, 0, len(d.Groups))
	for _, g := range d.Groups {
		var gf optparse.GroupFlags
		for _, n := range g.Flags {
			f, ok := groupFlagNames[n]
			if !ok {
				return nil, info, fmt.Errorf("group %q: unknown flag %q", g.Name, n)
			}
			gf |= f
		}
		groups = append(groups, optparse.Group{Name: g.Name, Description: g.Description, Flags: gf})
	}

	fields := make([]optparse.Field, 0, len(d.Options))
	for _, o := range d.Options {
		f, err := o.field()
		if err != nil {
			return nil, info, fmt.Errorf("option %q: %w", o.Name, err)
		}
		fields = append(fields, f)
	}
	reg, err := optparse.NewRegistry(fields, groups...)
	if err != nil {
		return nil, info, err
	}
	return reg, info, nil
}

func (o *OptionDecl) field() (optparse.Field, error) {
	f := optparse.Field{
		Name:        o.Name,
		Description: o.Help,
		Enum:        nonEmpty(o.Enum),
		Group:       o.Group,
		DependsOn:   nonEmpty(o.DependsOn),
	}
	if o.Short != "" {
		if utf8.RuneCountInString(o.Short) != 1 {
			return f, fmt.Errorf("short form %q must be a single character", o.Short)
		}
		f.Short, _ = utf8.DecodeRuneInString(o.Short)
	}
	if o.Type != "" {
		k, err := optparse.ParseKind(o.Type)
		if err != nil {
			return f, err
		}
		f.Kind = k
	}
	flags, err := optparse.ParseFlags(o.Flags)
	if err != nil {
		return f, err
	}
	f.Flags = flags
	def, err := rawDefault(o.Default)
	if err != nil {
		return f, err
	}
	f.Default = def
	return f, nil
}

// rawDefault turns a decoded default into command-line text, so that every
// file format yields the same table and optparse does the conversion.
func rawDefault(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, err := rawDefault(e)
			if err != nil {
				return nil, err
			}
			str, ok := s.(string)
			if !ok {
				return nil, fmt.Errorf("nested list in default")
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported default of type %T", v)
}

func nonEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
