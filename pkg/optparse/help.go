// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"fmt"
	"io"
	"strings"
)

// helpColumn is the width the option column is padded to before the
// description starts.
const helpColumn = 28

// RenderHelp writes the help text. Hidden options are included only when
// full is true.
func (p *Parser) RenderHelp(w io.Writer, full bool) error {
	var b strings.Builder
	compact := p.info.Flags.Has(CompactHelp)

	if p.info.Usage != "" {
		b.WriteString(p.info.Usage)
	} else {
		b.WriteString(strings.TrimSpace(p.info.Name + " " + p.info.Version))
	}
	b.WriteString("\n")
	if p.info.Header != "" {
		b.WriteString(strings.TrimRight(p.info.Header, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	lastGroup := -1
	for i := range p.reg.descs {
		d := &p.reg.descs[i]
		if d.Flags.Has(Hidden) && !full {
			continue
		}
		if d.group >= 0 && d.group != lastGroup {
			b.WriteString(p.reg.groups[d.group].title())
			b.WriteString(":\n")
		}
		lastGroup = d.group
		text := annotation(d)
		if d.Description != "" {
			text = d.Description + " " + text
		}
		writeHelpLine(&b, d.Flags.Has(Required), d.Short, d.Name, text)
		if !compact {
			b.WriteString("\n")
		}
	}

	if !p.info.Flags.Has(NoHelp) {
		var short rune
		if p.reg.byRune(helpShort) == nil {
			short = helpShort
		}
		writeHelpLine(&b, false, short, helpName, "show this help and exit")
		if !p.info.Flags.Has(HideHidden) {
			writeHelpLine(&b, false, 0, fullHelpName, "show help including hidden options and exit")
		}
	}
	if !p.info.Flags.Has(NoVersion) {
		writeHelpLine(&b, false, 0, versionName, "show version and exit")
	}

	if p.info.Footer != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(p.info.Footer, "\n"))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeHelpLine(b *strings.Builder, required bool, short rune, name, text string) {
	marker := "   "
	if required {
		marker = " * "
	}
	var flagStr string
	if short != 0 {
		flagStr = fmt.Sprintf("%s-%c, --%s", marker, short, name)
	} else {
		flagStr = fmt.Sprintf("%s    --%s", marker, name)
	}
	if text == "" {
		b.WriteString(flagStr)
	} else {
		b.WriteString(fmt.Sprintf("%-*s %s", helpColumn, flagStr, text))
	}
	b.WriteString("\n")
}

// annotation renders the parenthesised details after a description, e.g.
// `(required; default: "x"; values: a, b)`.
func annotation(d *descriptor) string {
	var parts []string
	if d.Flags.Has(Required) {
		parts = append(parts, "required")
	}
	if d.Flags.Has(Multiple) {
		parts = append(parts, "multiple")
	} else {
		parts = append(parts, "default: "+formatValue(d.Kind, d.def))
	}
	if len(d.Enum) > 0 {
		parts = append(parts, "values: "+strings.Join(d.Enum, ", "))
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

// RenderVersion writes "<name> - <version>".
func (p *Parser) RenderVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s - %s\n", p.info.Name, p.info.Version)
	return err
}

// Usage returns a one-line synopsis such as "tool [OPTIONS] <file...>".
func (p *Parser) Usage() string {
	var b strings.Builder
	b.WriteString(p.info.Name)
	if len(p.reg.descs) > 0 || !p.info.Flags.Has(NoHelp) || !p.info.Flags.Has(NoVersion) {
		b.WriteString(" [OPTIONS]")
	}
	for i := range p.reg.descs {
		d := &p.reg.descs[i]
		if !d.Flags.Has(Positional) || (d.Flags.Has(Hidden) && !d.Flags.Has(Required)) {
			continue
		}
		name := d.Name
		if d.Flags.Has(Multiple) {
			name += "..."
		}
		if d.Flags.Has(Required) {
			b.WriteString(" <" + name + ">")
		} else {
			b.WriteString(" [" + name + "]")
		}
	}
	return b.String()
}
