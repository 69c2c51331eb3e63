// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type buildOptions struct {
	Files     []string      `flag:"file" opt:"positional,required" help:"Input files"`
	Verbosity int           `flag:"verbosity" short:"v" default:"6" help:"Log level"`
	Timeout   time.Duration `default:"30s"`
	Force     bool          `short:"f"`
	JSON      bool          `flag:"json" group:"format"`
	YAML      bool          `flag:"yaml" group:"format"`
	Level     uint8         `default:"3" enum:"1,2,3"`
	Ratio     float32       `flag:"ratio"`
	Tags      []string      `flag:"tag" default:"a, b"`
	Token     string        `opt:"hidden" depends:"verbosity"`
	Ignored   string        `flag:"-"`
	internal  string
}

func (buildOptions) Groups() []Group {
	return []Group{{Name: "format", Description: "Output format", Flags: GroupExclusive}}
}

func TestFieldsOf(t *testing.T) {
	fields, groups, err := FieldsOf(buildOptions{})
	if err != nil {
		t.Fatalf("FieldsOf() error = %v", err)
	}
	want := []Field{
		{Name: "file", Kind: KindString, Flags: Positional | Required | Multiple, Description: "Input files"},
		{Name: "verbosity", Short: 'v', Kind: KindInt, Description: "Log level", Default: "6"},
		{Name: "timeout", Kind: KindDuration, Default: "30s"},
		{Name: "force", Short: 'f', Kind: KindBool, Flags: IsFlag},
		{Name: "json", Kind: KindBool, Flags: IsFlag, Group: "format"},
		{Name: "yaml", Kind: KindBool, Flags: IsFlag, Group: "format"},
		{Name: "level", Kind: KindUint, Enum: []string{"1", "2", "3"}, Default: "3"},
		{Name: "ratio", Kind: KindFloat},
		{Name: "tag", Kind: KindString, Flags: Multiple, Default: []string{"a", "b"}},
		{Name: "token", Kind: KindString, Flags: Hidden, DependsOn: []string{"verbosity"}},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("FieldsOf() fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(buildOptions{}.Groups(), groups); diff != "" {
		t.Errorf("FieldsOf() groups mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsOf_Errors(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"not a struct", 42},
		{"nil", nil},
		{"long short", &struct {
			A string `short:"ab"`
		}{}},
		{"bad opt", &struct {
			A string `opt:"sticky"`
		}{}},
		{"unsupported type", &struct {
			A map[string]string
		}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := FieldsOf(tt.v); err == nil {
				t.Error("FieldsOf() succeeded, want error")
			}
		})
	}
}

func TestParseStruct(t *testing.T) {
	info := AppInfo{Name: "build", Version: "0.1"}

	opts, res, err := ParseStruct[buildOptions]([]string{
		"main.go", "-v", "9", "-f", "--timeout", "1m", "util.go", "--tag", "x", "--json", "--ratio", "0.5",
	}, info)
	if err != nil {
		t.Fatalf("ParseStruct() error = %v", err)
	}
	if res != OK {
		t.Fatalf("ParseStruct() result = %v, want ok", res)
	}
	want := &buildOptions{
		Files:     []string{"main.go", "util.go"},
		Verbosity: 9,
		Timeout:   time.Minute,
		Force:     true,
		JSON:      true,
		Level:     3,
		Ratio:     0.5,
		Tags:      []string{"x"},
	}
	if diff := cmp.Diff(want, opts, cmp.AllowUnexported(buildOptions{})); diff != "" {
		t.Errorf("ParseStruct() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStruct_Defaults(t *testing.T) {
	opts, _, err := ParseStruct[buildOptions]([]string{"only.go"}, AppInfo{Name: "build"})
	if err != nil {
		t.Fatalf("ParseStruct() error = %v", err)
	}
	if opts.Verbosity != 6 || opts.Timeout != 30*time.Second || opts.Level != 3 {
		t.Errorf("defaults = %d, %v, %d; want 6, 30s, 3", opts.Verbosity, opts.Timeout, opts.Level)
	}
	if diff := cmp.Diff([]string{"a", "b"}, opts.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStruct_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "missing file", args: nil, wantErr: ErrRequiredArgumentMissing},
		{name: "exclusive", args: []string{"a.go", "--json", "--yaml"}, wantErr: ErrGroupViolation},
		{name: "dependency", args: []string{"a.go", "--token", "t"}, wantErr: ErrDependencyUnmet},
		{name: "enum", args: []string{"a.go", "--level", "4"}, wantErr: ErrEnumViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _, err := ParseStruct[buildOptions](tt.args, AppInfo{Name: "build"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseStruct() error = %v, want %v", err, tt.wantErr)
			}
			if opts != nil {
				t.Errorf("ParseStruct() = %+v on error, want nil", opts)
			}
		})
	}
}

func TestParseStruct_Overflow(t *testing.T) {
	type small struct {
		N int8 `flag:"n"`
	}
	_, _, err := ParseStruct[small]([]string{"--n", "300"}, AppInfo{Name: "tool"})
	if err == nil {
		t.Fatal("ParseStruct() succeeded, want overflow error")
	}
}

func TestParseStruct_Terminate(t *testing.T) {
	var out bytes.Buffer
	opts, res, err := ParseStruct[buildOptions]([]string{"--version"}, AppInfo{Name: "build", Version: "0.1", Output: &out})
	if err != nil {
		t.Fatalf("ParseStruct() error = %v", err)
	}
	if res != Terminate || opts != nil {
		t.Errorf("ParseStruct() = %v, %v; want nil, terminate", opts, res)
	}
	if got := out.String(); got != "build - 0.1\n" {
		t.Errorf("output = %q", got)
	}
}

func TestState_Decode(t *testing.T) {
	reg := MustRegistry([]Field{
		{Name: "count", Kind: KindInt, Flags: Multiple},
		{Name: "name", Kind: KindString},
	})
	st, _, err := MustNew(reg, AppInfo{Name: "tool"}).Parse([]string{"--count", "1", "--count", "2", "--name", "n"})
	if err != nil {
		t.Fatal(err)
	}

	// A scalar field bound to a Multiple option takes the last value, and a
	// slice field bound to a scalar option gets one element.
	var dst struct {
		Count int      `flag:"count"`
		Name  []string `flag:"name"`
		Other string
	}
	if err := st.Decode(&dst); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if dst.Count != 2 || !cmp.Equal(dst.Name, []string{"n"}) || dst.Other != "" {
		t.Errorf("Decode() = %+v", dst)
	}

	if err := st.Decode(dst); err == nil {
		t.Error("Decode(non-pointer) succeeded")
	}
}
