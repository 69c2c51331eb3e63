// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env renders parsed options as shell variable assignments.
package env

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/yeetrun/optparse/pkg/optparse"
)

// WriteFile writes the assignments for st to the file name, replacing it.
func WriteFile(name, prefix string, st *optparse.State) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := Marshal(f, prefix, st); err != nil {
		return fmt.Errorf("failed to marshal env: %v", err)
	}
	return f.Close()
}

// Marshal writes one NAME=value line per option, in declaration order. The
// variable name is prefix plus the upper-cased option name with every other
// character replaced by '_'. A Multiple option becomes NAME_COUNT plus
// NAME_0 ... NAME_<n-1>. Values are quoted for POSIX shells when needed.
func Marshal(o io.Writer, prefix string, st *optparse.State) error {
	for _, f := range st.Fields() {
		name := VarName(prefix, f.Name)
		v := reflect.ValueOf(st.Value(f.Name))
		if v.Kind() != reflect.Slice {
			if _, err := fmt.Fprintf(o, "%s=%s\n", name, Quote(text(v.Interface()))); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(o, "%s_COUNT=%d\n", name, v.Len()); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if _, err := fmt.Fprintf(o, "%s_%d=%s\n", name, i, Quote(text(v.Index(i).Interface()))); err != nil {
				return err
			}
		}
	}
	return nil
}

// VarName returns the variable name used for an option.
func VarName(prefix, option string) string {
	return prefix + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, option)
}

func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Duration:
		return v.String()
	}
	return fmt.Sprint(v)
}

// Quote single-quotes s unless it consists only of characters that are
// safe unquoted in a POSIX shell.
func Quote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("_-./:,+=@%", r)
}
