// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"testing"
	"time"
)

func TestConverters(t *testing.T) {
	tests := []struct {
		kind    Kind
		raw     string
		want    any
		wantErr bool
	}{
		{KindString, "", "", false},
		{KindString, " x ", " x ", false},
		{KindInt, "0", int64(0), false},
		{KindInt, "-9223372036854775808", int64(-9223372036854775808), false},
		{KindInt, "9223372036854775808", nil, true},
		{KindInt, "12abc", nil, true},
		{KindInt, " 1", nil, true},
		{KindInt, "0x10", nil, true},
		{KindInt, "", nil, true},
		{KindUint, "42", uint64(42), false},
		{KindUint, "-1", nil, true},
		{KindFloat, "1e3", 1000.0, false},
		{KindFloat, "-0.5", -0.5, false},
		{KindFloat, "1.5.2", nil, true},
		{KindFloat, "3.14abc", nil, true},
		{KindBool, "1", true, false},
		{KindBool, "0", false, false},
		{KindBool, "true", true, false},
		{KindBool, "false", false, false},
		{KindBool, "TRUE", nil, true},
		{KindBool, "yes", nil, true},
		{KindBool, "10", nil, true},
		{KindBool, "", nil, true},
		{KindDuration, "250ms", 250 * time.Millisecond, false},
		{KindDuration, "0", time.Duration(0), false},
		{KindDuration, "5", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.raw, func(t *testing.T) {
			got, err := converters[tt.kind].Convert(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Convert(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Convert(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		kind Kind
		v    any
		want string
	}{
		{KindString, "", `""`},
		{KindString, `say "hi"`, `"say \"hi\""`},
		{KindInt, int64(-3), "-3"},
		{KindUint, uint64(3), "3"},
		{KindFloat, 0.1, "0.1"},
		{KindFloat, 1e21, "1e+21"},
		{KindBool, true, "true"},
		{KindDuration, 90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.kind, tt.v); got != tt.want {
			t.Errorf("formatValue(%v, %#v) = %q, want %q", tt.kind, tt.v, got, tt.want)
		}
	}
}
