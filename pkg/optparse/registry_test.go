// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewRegistry_ConfigFaults(t *testing.T) {
	manyFields := make([]Field, MaxOptions+1)
	for i := range manyFields {
		manyFields[i] = Field{Name: fmt.Sprintf("opt%d", i)}
	}
	manyGroups := make([]Group, MaxGroups+1)
	for i := range manyGroups {
		manyGroups[i] = Group{Name: fmt.Sprintf("g%d", i)}
	}

	tests := []struct {
		name    string
		fields  []Field
		groups  []Group
		wantMsg string
	}{
		{name: "too many options", fields: manyFields, wantMsg: "at most 64"},
		{name: "too many groups", groups: manyGroups, wantMsg: "at most 32"},
		{name: "empty name", fields: []Field{{Name: ""}}, wantMsg: "empty name"},
		{name: "dashed name", fields: []Field{{Name: "-x"}}, wantMsg: "invalid option name"},
		{name: "name with equals", fields: []Field{{Name: "a=b"}}, wantMsg: "invalid option name"},
		{name: "duplicate name", fields: []Field{{Name: "a"}, {Name: "a"}}, wantMsg: "declared twice"},
		{name: "duplicate short", fields: []Field{{Name: "a", Short: 'x'}, {Name: "b", Short: 'x'}}, wantMsg: `already used by "a"`},
		{name: "dash short", fields: []Field{{Name: "a", Short: '-'}}, wantMsg: "invalid short form"},
		{name: "unknown kind", fields: []Field{{Name: "a", Kind: Kind(99)}}, wantMsg: "unknown kind"},
		{name: "flag not bool", fields: []Field{{Name: "a", Kind: KindInt, Flags: IsFlag}}, wantMsg: "must be of kind bool"},
		{name: "positional flag", fields: []Field{{Name: "a", Kind: KindBool, Flags: IsFlag | Positional}}, wantMsg: "cannot be positional"},
		{name: "bad default", fields: []Field{{Name: "a", Kind: KindInt, Default: "ten"}}, wantMsg: "default"},
		{name: "mistyped default", fields: []Field{{Name: "a", Kind: KindInt, Default: 1.5}}, wantMsg: "cannot use float64 as int"},
		{name: "negative uint default", fields: []Field{{Name: "a", Kind: KindUint, Default: -1}}, wantMsg: "cannot use int as uint"},
		{name: "bad enum member", fields: []Field{{Name: "a", Kind: KindInt, Enum: []string{"1", "two"}}}, wantMsg: `enumeration value "two"`},
		{name: "default outside enum", fields: []Field{{Name: "a", Enum: []string{"x", "y"}, Default: "z"}}, wantMsg: "is not one of x, y"},
		{
			name:    "multiple default outside enum",
			fields:  []Field{{Name: "level", Flags: Multiple, Enum: []string{"low", "high"}, Default: []string{"low", "bogus"}}},
			wantMsg: `default "bogus" is not one of low, high`,
		},
		{name: "flag with enum", fields: []Field{{Name: "a", Kind: KindBool, Flags: IsFlag, Enum: []string{"false"}}}, wantMsg: "cannot have an enumeration"},
		{name: "unnamed group", groups: []Group{{}}, wantMsg: "has no name"},
		{name: "duplicate group", groups: []Group{{Name: "g"}, {Name: "g"}}, wantMsg: `duplicate group "g"`},
		{name: "unknown group", fields: []Field{{Name: "a", Group: "g"}}, wantMsg: `unknown group "g"`},
		{
			name:    "split group",
			fields:  []Field{{Name: "a", Group: "g"}, {Name: "b"}, {Name: "c", Group: "g"}},
			groups:  []Group{{Name: "g"}},
			wantMsg: "not declared contiguously",
		},
		{name: "unknown dependency", fields: []Field{{Name: "a", DependsOn: []string{"b"}}}, wantMsg: `unknown option "b"`},
		{name: "self dependency", fields: []Field{{Name: "a", DependsOn: []string{"a"}}}, wantMsg: "depends on itself"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.fields, tt.groups...)
			if err == nil {
				t.Fatalf("NewRegistry() = %v, want error", reg)
			}
			if !errors.Is(err, ErrConfig) {
				t.Errorf("error %v does not wrap ErrConfig", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("error %T is not a *ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestNewRegistry_Limits(t *testing.T) {
	fields := make([]Field, MaxOptions)
	for i := range fields {
		fields[i] = Field{Name: fmt.Sprintf("opt%d", i), Kind: KindBool, Flags: IsFlag}
	}
	reg, err := NewRegistry(fields)
	if err != nil {
		t.Fatalf("NewRegistry(%d options) error = %v", MaxOptions, err)
	}
	// The last option owns the top bit of the mask.
	st, _, err := MustNew(reg, AppInfo{Name: "tool"}).Parse([]string{"--opt63", "--opt0"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"opt0", "opt63"}, st.SetNames()); diff != "" {
		t.Errorf("SetNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRegistry_NormalizesDefaults(t *testing.T) {
	reg, err := NewRegistry([]Field{
		{Name: "int", Kind: KindInt, Default: 3},
		{Name: "int-text", Kind: KindInt, Default: "-4"},
		{Name: "uint", Kind: KindUint, Default: 5},
		{Name: "float", Kind: KindFloat, Default: 2},
		{Name: "float32", Kind: KindFloat, Default: float32(0.5)},
		{Name: "duration", Kind: KindDuration, Default: time.Second},
		{Name: "bool-text", Kind: KindBool, Default: "1"},
		{Name: "ints", Kind: KindInt, Flags: Multiple, Default: []any{1, "2", int64(3)}},
		{Name: "scalar-multiple", Kind: KindString, Flags: Multiple, Default: "one"},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	st, _, err := MustNew(reg, AppInfo{Name: "tool"}).Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := map[string]any{
		"int":             int64(3),
		"int-text":        int64(-4),
		"uint":            uint64(5),
		"float":           float64(2),
		"float32":         float64(0.5),
		"duration":        time.Second,
		"bool-text":       true,
		"ints":            []int64{1, 2, 3},
		"scalar-multiple": []string{"one"},
	}
	if diff := cmp.Diff(want, st.Map()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Accessors(t *testing.T) {
	fields := []Field{
		{Name: "a", Short: 'a', Kind: KindBool, Flags: IsFlag, Group: "g", Enum: nil},
		{Name: "b", Kind: KindString, DependsOn: []string{"a"}, Group: "g"},
	}
	groups := []Group{{Name: "g", Description: "G", Flags: GroupExclusive}}
	reg := MustRegistry(fields, groups...)

	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
	if diff := cmp.Diff(fields, reg.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(groups, reg.Groups()); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}
	if f, ok := reg.Lookup("b"); !ok || f.Kind != KindString {
		t.Errorf("Lookup(b) = %+v, %v", f, ok)
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Error("Lookup(missing) found an option")
	}

	// Mutating the caller's table must not reach the registry.
	fields[1].DependsOn[0] = "zzz"
	if got := reg.Fields()[1].DependsOn[0]; got != "a" {
		t.Errorf("DependsOn[0] = %q after caller mutation, want %q", got, "a")
	}
}

func TestMustRegistry_Panics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrConfig) {
			t.Errorf("recover() = %v, want a configuration error", r)
		}
	}()
	MustRegistry([]Field{{Name: "a"}, {Name: "a"}})
}

func TestParseNames(t *testing.T) {
	flags, err := ParseFlags([]string{"positional", " required", "", "multiple"})
	if err != nil {
		t.Fatal(err)
	}
	if flags != Positional|Required|Multiple {
		t.Errorf("ParseFlags() = %v", flags)
	}
	if got := flags.String(); got != "positional|required|multiple" {
		t.Errorf("String() = %q", got)
	}
	if _, err := ParseFlags([]string{"sticky"}); err == nil {
		t.Error("ParseFlags(sticky) succeeded")
	}

	pf, err := ParseParserFlags([]string{"no-help", "compact-help"})
	if err != nil {
		t.Fatal(err)
	}
	if pf != NoHelp|CompactHelp {
		t.Errorf("ParseParserFlags() = %v", pf)
	}
	if _, err := ParseParserFlags([]string{"loud"}); err == nil {
		t.Error("ParseParserFlags(loud) succeeded")
	}

	for _, k := range []Kind{KindString, KindInt, KindUint, KindFloat, KindBool, KindDuration} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("complex"); err == nil {
		t.Error("ParseKind(complex) succeeded")
	}
}

func TestNewRegistry_MultipleEnumDefault(t *testing.T) {
	reg, err := NewRegistry([]Field{
		{Name: "level", Flags: Multiple, Enum: []string{"low", "high"}, Default: []string{"high", "low"}},
		{Name: "port", Kind: KindInt, Flags: Multiple, Enum: []string{"80", "443"}, Default: "443"},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	st := mustParse(t, MustNew(reg, AppInfo{Name: "tool"}))
	if diff := cmp.Diff([]string{"high", "low"}, st.Strings("level")); diff != "" {
		t.Errorf("level mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{443}, st.Ints("port")); diff != "" {
		t.Errorf("port mismatch (-want +got):\n%s", diff)
	}
}
