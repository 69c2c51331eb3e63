// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// grouper is implemented by option structs that declare groups.
type grouper interface {
	Groups() []Group
}

// structField pairs an exported struct field with the option declared for it.
type structField struct {
	index int
	field Field
}

// FieldsOf derives an option table from the tags of a struct (or pointer to
// struct). Supported tags:
//
//	flag:"name"      long name (default: lower-cased field name, "-" skips the field)
//	short:"x"        short form
//	help:"text"      description
//	default:"value"  default as raw text; comma separated for slices
//	opt:"..."        comma separated: hidden, positional, flag, required, multiple
//	enum:"a,b"       allowed values
//	group:"name"     group membership
//	depends:"a,b"    prerequisite options
//
// Slice fields are Multiple. Bool fields that are not positional are flags.
// Groups come from a Groups() []Group method, if the type has one.
func FieldsOf(v any) ([]Field, []Group, error) {
	rt := reflect.TypeOf(v)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("optparse: %T is not a struct", v)
	}
	sfs, err := structFields(rt)
	if err != nil {
		return nil, nil, err
	}
	fields := make([]Field, len(sfs))
	for i, sf := range sfs {
		fields[i] = sf.field
	}
	var groups []Group
	if g, ok := v.(grouper); ok {
		groups = g.Groups()
	} else if g, ok := reflect.New(rt).Interface().(grouper); ok {
		groups = g.Groups()
	}
	return fields, groups, nil
}

func structFields(rt reflect.Type) ([]structField, error) {
	var out []structField
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("flag")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(sf.Name)
		}
		f := Field{
			Name:        name,
			Description: sf.Tag.Get("help"),
			Group:       sf.Tag.Get("group"),
			Enum:        splitList(sf.Tag.Get("enum")),
			DependsOn:   splitList(sf.Tag.Get("depends")),
		}
		if short := sf.Tag.Get("short"); short != "" {
			if utf8.RuneCountInString(short) != 1 {
				return nil, fmt.Errorf("optparse: field %s: short form %q must be a single character", sf.Name, short)
			}
			f.Short, _ = utf8.DecodeRuneInString(short)
		}
		flags, err := ParseFlags(splitList(sf.Tag.Get("opt")))
		if err != nil {
			return nil, fmt.Errorf("optparse: field %s: %w", sf.Name, err)
		}
		ft := sf.Type
		if ft.Kind() == reflect.Slice {
			flags |= Multiple
			ft = ft.Elem()
		}
		kind, ok := kindOf(ft)
		if !ok {
			return nil, fmt.Errorf("optparse: field %s: unsupported type %s", sf.Name, sf.Type)
		}
		if kind == KindBool && !flags.Has(Positional) && !flags.Has(Multiple) {
			flags |= IsFlag
		}
		f.Kind, f.Flags = kind, flags
		if def, ok := sf.Tag.Lookup("default"); ok {
			if flags.Has(Multiple) {
				f.Default = splitList(def)
			} else {
				f.Default = def
			}
		}
		out = append(out, structField{index: i, field: f})
	}
	return out, nil
}

func kindOf(t reflect.Type) (Kind, bool) {
	if t == durationType {
		return KindDuration, true
	}
	switch t.Kind() {
	case reflect.String:
		return KindString, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	}
	return 0, false
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Decode copies option values into the tagged fields of the struct dst
// points to. Fields whose option is not declared are left alone.
func (st *State) Decode(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("optparse: Decode needs a non-nil struct pointer, got %T", dst)
	}
	rv = rv.Elem()
	sfs, err := structFields(rv.Type())
	if err != nil {
		return err
	}
	for _, sf := range sfs {
		i, ok := st.index(sf.field.Name)
		if !ok {
			continue
		}
		if err := assign(rv.Field(sf.index), reflect.ValueOf(st.values[i])); err != nil {
			return fmt.Errorf("optparse: field %s: %w", rv.Type().Field(sf.index).Name, err)
		}
	}
	return nil
}

func assign(dst, src reflect.Value) error {
	if dst.Kind() == reflect.Slice {
		if src.Kind() != reflect.Slice {
			out := reflect.MakeSlice(dst.Type(), 1, 1)
			if err := assign(out.Index(0), src); err != nil {
				return err
			}
			dst.Set(out)
			return nil
		}
		out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := assign(out.Index(i), src.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	}
	if src.Kind() == reflect.Slice {
		if src.Len() == 0 {
			return nil
		}
		src = src.Index(src.Len() - 1)
	}
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := src.Int()
		if dst.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, dst.Type())
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := src.Uint()
		if dst.OverflowUint(n) {
			return fmt.Errorf("value %d overflows %s", n, dst.Type())
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f := src.Float()
		if dst.OverflowFloat(f) {
			return fmt.Errorf("value %g overflows %s", f, dst.Type())
		}
		dst.SetFloat(f)
	default:
		if !src.Type().ConvertibleTo(dst.Type()) {
			return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
		}
		dst.Set(src.Convert(dst.Type()))
	}
	return nil
}

// ParseStruct declares options from the tags of T, parses args and returns
// the filled struct. It returns a nil struct with Terminate when help or
// version output was written.
func ParseStruct[T any](args []string, info AppInfo, opts ...Option) (*T, Result, error) {
	v := new(T)
	fields, groups, err := FieldsOf(v)
	if err != nil {
		return nil, 0, err
	}
	reg, err := NewRegistry(fields, groups...)
	if err != nil {
		return nil, 0, err
	}
	p, err := New(reg, info, opts...)
	if err != nil {
		return nil, 0, err
	}
	st, res, err := p.Parse(args)
	if err != nil || res == Terminate {
		return nil, res, err
	}
	if err := st.Decode(v); err != nil {
		return nil, 0, err
	}
	return v, OK, nil
}
