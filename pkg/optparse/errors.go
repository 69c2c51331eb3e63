// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"errors"
	"fmt"
)

// Error kinds. Every *ParseError unwraps to exactly one of these, so callers
// can branch with errors.Is.
var (
	ErrSyntax                  = errors.New("invalid argument syntax")
	ErrUnknownOption           = errors.New("unknown option")
	ErrMissingValue            = errors.New("missing value")
	ErrTypeConversion          = errors.New("invalid value")
	ErrEnumViolation           = errors.New("value not allowed")
	ErrRequiredArgumentMissing = errors.New("required argument missing")
	ErrTooManyPositional       = errors.New("too many positional arguments")
	ErrDependencyUnmet         = errors.New("dependency unmet")
	ErrGroupViolation          = errors.New("group constraint violated")

	// ErrConfig marks faults in the option table itself. These are
	// programming errors and are never produced by Parse.
	ErrConfig = errors.New("invalid option configuration")
)

// Group constraint names carried by GroupViolation errors.
const (
	ConstraintRequired  = "required"
	ConstraintExclusive = "exclusive"
)

// ParseError is returned by Parse for any problem with the arguments.
// Msg is the user-facing message; Err holds the underlying cause, if any.
type ParseError struct {
	Kind   error  // one of the Err* kinds above
	Option string // the option involved, if any
	Arg    string // the offending argument token, if any
	Value  string // the offending value, if any
	Msg    string

	// Group and Constraint are set for ErrGroupViolation.
	Group      string
	Constraint string
	// Missing lists unmet prerequisites for ErrDependencyUnmet.
	Missing []string

	Err error
}

func (e *ParseError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Option != "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Option)
	}
	return e.Kind.Error()
}

func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ConfigError describes an invalid option table.
type ConfigError struct {
	Option string
	Msg    string
}

func (e *ConfigError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("optparse: option %q: %s", e.Option, e.Msg)
	}
	return "optparse: " + e.Msg
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func configErrorf(option, format string, args ...any) error {
	return &ConfigError{Option: option, Msg: fmt.Sprintf(format, args...)}
}
