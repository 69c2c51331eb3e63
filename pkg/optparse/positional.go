// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import "fmt"

// bindPositionals hands queued positional tokens to Positional options in
// declaration order. A Multiple positional takes every remaining token.
// Required options are checked in the same walk, so the first missing one
// in declaration order is reported.
func (p *Parser) bindPositionals(st *State) error {
	next := 0
	for i := range p.reg.descs {
		d := &p.reg.descs[i]
		if d.Flags.Has(Positional) && next < len(st.positionals) && (!st.isSet(d) || d.Flags.Has(Multiple)) {
			n := 1
			if d.Flags.Has(Multiple) {
				n = len(st.positionals) - next
			}
			for _, ai := range st.positionals[next : next+n] {
				arg := st.args[ai]
				if err := st.dispatch(d, arg, arg, true); err != nil {
					return err
				}
			}
			p.logger.Debug("bound positional arguments", "option", d.Name, "count", n)
			next += n
		}
		if d.Flags.Has(Required) && !st.isSet(d) {
			return &ParseError{
				Kind:   ErrRequiredArgumentMissing,
				Option: d.Name,
				Msg:    fmt.Sprintf("missing required argument: %s", d.Name),
			}
		}
	}
	if next < len(st.positionals) {
		if p.info.Flags.Has(IgnoreUnknown) {
			p.logger.Debug("ignoring surplus positional arguments", "count", len(st.positionals)-next)
			return nil
		}
		return &ParseError{
			Kind: ErrTooManyPositional,
			Arg:  st.args[st.positionals[next]],
			Msg:  fmt.Sprintf("unexpected argument: %s", st.args[st.positionals[next]]),
		}
	}
	return nil
}
