// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"reflect"
	"slices"
	"strings"
	"unicode"
)

const (
	// MaxOptions is the number of options one Registry can hold; each
	// option owns one bit of a 64-bit set mask.
	MaxOptions = 64
	// MaxGroups is the number of groups one Registry can hold.
	MaxGroups = 32
	// MaxPositional is the number of positional arguments Parse accepts.
	MaxPositional = 31
)

// descriptor is the resolved, immutable form of a Field.
type descriptor struct {
	Field
	index   int
	group   int    // index into Registry.groups, -1 for none
	depends uint64 // bit mask of prerequisite option indices
	conv    Converter
	def     any
}

func (d *descriptor) bit() uint64 {
	return 1 << uint(d.index)
}

// Registry is an immutable option table. It is safe for concurrent use by
// any number of parsers.
type Registry struct {
	descs   []descriptor
	groups  []Group
	byName  map[string]int
	byShort map[rune]int
}

// NewRegistry validates fields and groups and builds a Registry. Fields keep
// their declaration order, which drives positional binding, validation order
// and help output. Any returned error wraps ErrConfig.
func NewRegistry(fields []Field, groups ...Group) (*Registry, error) {
	if len(fields) > MaxOptions {
		return nil, configErrorf("", "%d options declared, at most %d are supported", len(fields), MaxOptions)
	}
	if len(groups) > MaxGroups {
		return nil, configErrorf("", "%d groups declared, at most %d are supported", len(groups), MaxGroups)
	}
	r := &Registry{
		descs:   make([]descriptor, len(fields)),
		groups:  slices.Clone(groups),
		byName:  make(map[string]int, len(fields)),
		byShort: make(map[rune]int),
	}
	groupIdx := make(map[string]int, len(groups))
	for i, g := range groups {
		if g.Name == "" {
			return nil, configErrorf("", "group %d has no name", i)
		}
		if _, dup := groupIdx[g.Name]; dup {
			return nil, configErrorf("", "duplicate group %q", g.Name)
		}
		groupIdx[g.Name] = i
	}

	for i, f := range fields {
		if err := checkName(f.Name); err != nil {
			return nil, err
		}
		if _, dup := r.byName[f.Name]; dup {
			return nil, configErrorf(f.Name, "declared twice")
		}
		r.byName[f.Name] = i
		if f.Short != 0 {
			if f.Short == '-' || f.Short == '=' || unicode.IsSpace(f.Short) || !unicode.IsPrint(f.Short) {
				return nil, configErrorf(f.Name, "invalid short form %q", f.Short)
			}
			if j, dup := r.byShort[f.Short]; dup {
				return nil, configErrorf(f.Name, "short form -%c already used by %q", f.Short, fields[j].Name)
			}
			r.byShort[f.Short] = i
		}
		if _, ok := kindTypes[f.Kind]; !ok {
			return nil, configErrorf(f.Name, "unknown kind %d", int(f.Kind))
		}
		if f.Flags.Has(IsFlag) && f.Kind != KindBool {
			return nil, configErrorf(f.Name, "flag options must be of kind bool, not %s", f.Kind)
		}
		if f.Flags.Has(IsFlag) && f.Flags.Has(Positional) {
			return nil, configErrorf(f.Name, "flag options cannot be positional")
		}
		if f.Flags.Has(IsFlag) && len(f.Enum) > 0 {
			return nil, configErrorf(f.Name, "flag options cannot have an enumeration")
		}

		d := descriptor{Field: f, index: i, group: -1, conv: f.Converter}
		d.Enum = slices.Clone(f.Enum)
		d.DependsOn = slices.Clone(f.DependsOn)
		if d.conv == nil {
			d.conv = converters[f.Kind]
		}
		for _, e := range d.Enum {
			if _, err := normalizeValue(f.Kind, d.conv, e); err != nil {
				return nil, configErrorf(f.Name, "enumeration value %q: %v", e, err)
			}
		}
		def, err := normalizeDefault(f.Kind, f.Flags, d.conv, f.Default)
		if err != nil {
			return nil, configErrorf(f.Name, "default: %v", err)
		}
		if len(d.Enum) > 0 && f.Default != nil {
			if err := checkEnumDefault(&d, def); err != nil {
				return nil, err
			}
		}
		d.def = def
		if f.Group != "" {
			gi, ok := groupIdx[f.Group]
			if !ok {
				return nil, configErrorf(f.Name, "unknown group %q", f.Group)
			}
			d.group = gi
		}
		r.descs[i] = d
	}

	// Group members must be contiguous so that help output and group
	// accounting can treat each group as one run of options.
	seen := make([]bool, len(groups))
	prev := -1
	for i := range r.descs {
		g := r.descs[i].group
		if g != prev && g >= 0 {
			if seen[g] {
				return nil, configErrorf(r.descs[i].Name, "members of group %q are not declared contiguously", groups[g].Name)
			}
			seen[g] = true
		}
		prev = g
	}

	for i := range r.descs {
		d := &r.descs[i]
		for _, dep := range d.DependsOn {
			j, ok := r.byName[dep]
			if !ok {
				return nil, configErrorf(d.Name, "depends on unknown option %q", dep)
			}
			if j == i {
				return nil, configErrorf(d.Name, "depends on itself")
			}
			d.depends |= 1 << uint(j)
		}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. It is meant for
// package-level option tables that are fixed at compile time.
func MustRegistry(fields []Field, groups ...Group) *Registry {
	r, err := NewRegistry(fields, groups...)
	if err != nil {
		panic(err)
	}
	return r
}

func checkName(name string) error {
	if name == "" {
		return configErrorf("", "option with empty name")
	}
	if strings.HasPrefix(name, "-") || strings.ContainsAny(name, "= \t\n") {
		return configErrorf(name, "invalid option name")
	}
	return nil
}

// checkEnumDefault verifies that a normalized default, or every element of
// a Multiple default, is a member of d's enumeration.
func checkEnumDefault(d *descriptor, def any) error {
	vals := []any{def}
	if d.Flags.Has(Multiple) {
		rv := reflect.ValueOf(def)
		vals = make([]any, rv.Len())
		for i := range vals {
			vals[i] = rv.Index(i).Interface()
		}
	}
	for _, v := range vals {
		if !slices.Contains(d.Enum, rawDefault(d.Kind, v)) {
			return configErrorf(d.Name, "default %s is not one of %s", formatValue(d.Kind, v), strings.Join(d.Enum, ", "))
		}
	}
	return nil
}

// rawDefault renders a scalar default the way it would appear on the
// command line, for comparison against an enumeration.
func rawDefault(kind Kind, v any) string {
	if kind == KindString {
		s, _ := v.(string)
		return s
	}
	return formatValue(kind, v)
}

// Len returns the number of declared options.
func (r *Registry) Len() int {
	return len(r.descs)
}

// Fields returns a copy of the declared options in declaration order.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.descs))
	for i := range r.descs {
		out[i] = r.descs[i].Field
	}
	return out
}

// Groups returns a copy of the declared groups.
func (r *Registry) Groups() []Group {
	return slices.Clone(r.groups)
}

// Lookup returns the option declared with the given long name.
func (r *Registry) Lookup(name string) (Field, bool) {
	d := r.byLong(name)
	if d == nil {
		return Field{}, false
	}
	return d.Field, true
}

func (r *Registry) byLong(name string) *descriptor {
	i, ok := r.byName[name]
	if !ok {
		return nil
	}
	return &r.descs[i]
}

func (r *Registry) byRune(c rune) *descriptor {
	i, ok := r.byShort[c]
	if !ok {
		return nil
	}
	return &r.descs[i]
}
