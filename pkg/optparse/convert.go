// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Converter turns raw argument text into a typed value.
type Converter interface {
	Convert(raw string) (any, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(raw string) (any, error)

// Convert implements Converter.
func (f ConverterFunc) Convert(raw string) (any, error) {
	return f(raw)
}

var converters = map[Kind]Converter{
	KindString:   ConverterFunc(convertString),
	KindInt:      ConverterFunc(convertInt),
	KindUint:     ConverterFunc(convertUint),
	KindFloat:    ConverterFunc(convertFloat),
	KindBool:     ConverterFunc(convertBool),
	KindDuration: ConverterFunc(convertDuration),
}

func convertString(raw string) (any, error) {
	return raw, nil
}

// The strconv parsers reject trailing characters, so "12abc" fails as a
// whole instead of yielding 12.

func convertInt(raw string) (any, error) {
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid int value %q: %w", raw, err)
	}
	return i, nil
}

func convertUint(raw string) (any, error) {
	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid uint value %q: %w", raw, err)
	}
	return u, nil
}

func convertFloat(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float value %q: %w", raw, err)
	}
	return f, nil
}

func convertBool(raw string) (any, error) {
	switch raw {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return nil, fmt.Errorf("invalid bool value %q (want 0, 1, true or false)", raw)
}

func convertDuration(raw string) (any, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return d, nil
}

// normalizeValue coerces a declared default element to kind's Go type.
// Raw strings go through conv; numeric Go values are widened.
func normalizeValue(kind Kind, conv Converter, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("missing %s value", kind)
	}
	want := kind.goType()
	if s, ok := v.(string); ok && kind != KindString {
		cv, err := conv.Convert(s)
		if err != nil {
			return nil, err
		}
		if cv == nil || reflect.TypeOf(cv) != want {
			return nil, fmt.Errorf("converter returned %T, want %s", cv, want)
		}
		return cv, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == want {
		return v, nil
	}
	switch kind {
	case KindInt:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), nil
		}
	case KindUint:
		switch rv.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return rv.Uint(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.Int() >= 0 {
				return uint64(rv.Int()), nil
			}
		}
	case KindFloat:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return rv.Float(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		}
	}
	return nil, fmt.Errorf("cannot use %T as %s", v, kind)
}

// normalizeDefault returns the initial State value for an option.
func normalizeDefault(kind Kind, flags Flags, conv Converter, def any) (any, error) {
	elem := kind.goType()
	if !flags.Has(Multiple) {
		if def == nil {
			return reflect.Zero(elem).Interface(), nil
		}
		return normalizeValue(kind, conv, def)
	}
	out := reflect.MakeSlice(reflect.SliceOf(elem), 0, 0)
	if def == nil {
		return out.Interface(), nil
	}
	rv := reflect.ValueOf(def)
	if rv.Kind() != reflect.Slice {
		v, err := normalizeValue(kind, conv, def)
		if err != nil {
			return nil, err
		}
		return reflect.Append(out, reflect.ValueOf(v)).Interface(), nil
	}
	for i := 0; i < rv.Len(); i++ {
		v, err := normalizeValue(kind, conv, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// formatValue renders a single value the way help text shows defaults.
// Strings are quoted so that empty and space-containing defaults stay visible.
func formatValue(kind Kind, v any) string {
	switch kind {
	case KindString:
		s, _ := v.(string)
		return strconv.Quote(s)
	case KindFloat:
		f, _ := v.(float64)
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindDuration:
		d, _ := v.(time.Duration)
		return d.String()
	}
	return fmt.Sprint(v)
}
