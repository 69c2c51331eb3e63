// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"reflect"
	"slices"
	"time"
)

// State is the outcome of one successful Parse. Every declared option has a
// value: the one given on the command line, or its default.
//
// Accessors take the option's long name. Asking for an undeclared name, or
// with the wrong accessor for the option's Kind, yields the zero value.
type State struct {
	reg     *Registry
	setMask uint64
	values  []any
	// positionals holds indices into args of tokens awaiting the binder.
	positionals []int
	args        []string
}

func newState(reg *Registry, args []string) *State {
	st := &State{
		reg:    reg,
		values: make([]any, len(reg.descs)),
		args:   args,
	}
	for i := range reg.descs {
		st.values[i] = cloneValue(reg.descs[i].def)
	}
	return st
}

// cloneValue copies slice defaults so that appends never reach the
// registry's backing array.
func cloneValue(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return v
	}
	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)
	return out.Interface()
}

func (st *State) isSet(d *descriptor) bool {
	return st.setMask&d.bit() != 0
}

// store records a converted value for d. The first occurrence of a Multiple
// option replaces its default; later ones append.
func (st *State) store(d *descriptor, v any) {
	if d.Flags.Has(Multiple) {
		cur := reflect.ValueOf(st.values[d.index])
		if !st.isSet(d) {
			cur = reflect.MakeSlice(cur.Type(), 0, 1)
		}
		st.values[d.index] = reflect.Append(cur, reflect.ValueOf(v)).Interface()
	} else {
		st.values[d.index] = v
	}
	st.setMask |= d.bit()
}

func (st *State) index(name string) (int, bool) {
	i, ok := st.reg.byName[name]
	return i, ok
}

// Has reports whether the option was given on the command line.
func (st *State) Has(name string) bool {
	i, ok := st.index(name)
	return ok && st.setMask&(1<<uint(i)) != 0
}

// Value returns the option's value as stored: a scalar of the Kind's Go
// type, or a slice of it for Multiple options.
func (st *State) Value(name string) any {
	i, ok := st.index(name)
	if !ok {
		return nil
	}
	return st.values[i]
}

// String returns a string option's value.
func (st *State) String(name string) string {
	s, _ := st.Value(name).(string)
	return s
}

// Int returns an int option's value.
func (st *State) Int(name string) int64 {
	i, _ := st.Value(name).(int64)
	return i
}

// Uint returns a uint option's value.
func (st *State) Uint(name string) uint64 {
	u, _ := st.Value(name).(uint64)
	return u
}

// Float returns a float option's value.
func (st *State) Float(name string) float64 {
	f, _ := st.Value(name).(float64)
	return f
}

// Bool returns a bool option's value.
func (st *State) Bool(name string) bool {
	b, _ := st.Value(name).(bool)
	return b
}

// Duration returns a duration option's value.
func (st *State) Duration(name string) time.Duration {
	d, _ := st.Value(name).(time.Duration)
	return d
}

// Strings returns the values of a Multiple string option.
func (st *State) Strings(name string) []string {
	s, _ := st.Value(name).([]string)
	return slices.Clone(s)
}

// Ints returns the values of a Multiple int option.
func (st *State) Ints(name string) []int64 {
	s, _ := st.Value(name).([]int64)
	return slices.Clone(s)
}

// Floats returns the values of a Multiple float option.
func (st *State) Floats(name string) []float64 {
	s, _ := st.Value(name).([]float64)
	return slices.Clone(s)
}

// Values returns the option's values as a list: every element for a
// Multiple option, a single element otherwise.
func (st *State) Values(name string) []any {
	v := st.Value(name)
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// SetNames returns the names of the options given on the command line, in
// declaration order.
func (st *State) SetNames() []string {
	var names []string
	for i := range st.reg.descs {
		if st.isSet(&st.reg.descs[i]) {
			names = append(names, st.reg.descs[i].Name)
		}
	}
	return names
}

// Map returns every option's value keyed by name.
func (st *State) Map() map[string]any {
	m := make(map[string]any, len(st.values))
	for i := range st.reg.descs {
		m[st.reg.descs[i].Name] = cloneValue(st.values[i])
	}
	return m
}

// Fields returns the declared options in declaration order.
func (st *State) Fields() []Field {
	return st.reg.Fields()
}
