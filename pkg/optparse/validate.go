// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"fmt"
	"strings"
)

// validateGroups counts the set members of every group and enforces the
// group constraints, in group declaration order.
func (p *Parser) validateGroups(st *State) error {
	if len(p.reg.groups) == 0 {
		return nil
	}
	active := make([][]string, len(p.reg.groups))
	for i := range p.reg.descs {
		d := &p.reg.descs[i]
		if d.group >= 0 && st.isSet(d) {
			active[d.group] = append(active[d.group], d.Name)
		}
	}
	for gi, g := range p.reg.groups {
		n := len(active[gi])
		p.logger.Debug("checked group", "group", g.Name, "active", n)
		switch {
		case g.Flags.Has(GroupRequired) && n == 0:
			return &ParseError{
				Kind:       ErrGroupViolation,
				Group:      g.Name,
				Constraint: ConstraintRequired,
				Msg:        fmt.Sprintf("one of %s is required", strings.Join(p.memberNames(gi), ", ")),
			}
		case g.Flags.Has(GroupExclusive) && n > 1:
			return &ParseError{
				Kind:       ErrGroupViolation,
				Option:     active[gi][1],
				Group:      g.Name,
				Constraint: ConstraintExclusive,
				Msg:        fmt.Sprintf("options %s are mutually exclusive", dashed(active[gi])),
			}
		}
	}
	return nil
}

// validateDependencies reports the first set option, in declaration order,
// whose prerequisites are not all set.
func (p *Parser) validateDependencies(st *State) error {
	for i := range p.reg.descs {
		d := &p.reg.descs[i]
		if !st.isSet(d) || d.depends == 0 {
			continue
		}
		unmet := d.depends &^ st.setMask
		if unmet == 0 {
			continue
		}
		var missing []string
		for j := range p.reg.descs {
			if unmet&(1<<uint(j)) != 0 {
				missing = append(missing, p.reg.descs[j].Name)
			}
		}
		return &ParseError{
			Kind:    ErrDependencyUnmet,
			Option:  d.Name,
			Missing: missing,
			Msg:     fmt.Sprintf("option --%s requires %s", d.Name, dashed(missing)),
		}
	}
	return nil
}

func (p *Parser) memberNames(group int) []string {
	var names []string
	for i := range p.reg.descs {
		if p.reg.descs[i].group == group {
			names = append(names, "--"+p.reg.descs[i].Name)
		}
	}
	return names
}

func dashed(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "--" + n
	}
	return strings.Join(out, ", ")
}
