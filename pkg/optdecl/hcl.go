// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optdecl

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclDecl is the HCL shape of a declaration:
//
//	name    = "tool"
//	version = "1.2.0"
//
//	group "output" {
//	  description = "Output format"
//	  flags       = ["exclusive"]
//	}
//
//	option "verbosity" {
//	  short   = "v"
//	  type    = "int"
//	  default = 6
//	}
type hclDecl struct {
	Name    string       `hcl:"name"`
	Version string       `hcl:"version,optional"`
	Usage   string       `hcl:"usage,optional"`
	Header  string       `hcl:"header,optional"`
	Footer  string       `hcl:"footer,optional"`
	Flags   []string     `hcl:"flags,optional"`
	Groups  []*hclGroup  `hcl:"group,block"`
	Options []*hclOption `hcl:"option,block"`
}

type hclGroup struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	Flags       []string `hcl:"flags,optional"`
}

type hclOption struct {
	Name      string     `hcl:"name,label"`
	Short     string     `hcl:"short,optional"`
	Type      string     `hcl:"type,optional"`
	Help      string     `hcl:"help,optional"`
	Flags     []string   `hcl:"flags,optional"`
	Enum      []string   `hcl:"enum,optional"`
	Group     string     `hcl:"group,optional"`
	DependsOn []string   `hcl:"depends_on,optional"`
	Default   *cty.Value `hcl:"default,optional"`
}

func parseHCL(data []byte, filename string) (*Decl, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s", diags.Error())
	}
	var hd hclDecl
	if diags := gohcl.DecodeBody(file.Body, nil, &hd); diags.HasErrors() {
		return nil, fmt.Errorf("%s", diags.Error())
	}

	d := &Decl{
		Name:    hd.Name,
		Version: hd.Version,
		Usage:   hd.Usage,
		Header:  hd.Header,
		Footer:  hd.Footer,
		Flags:   hd.Flags,
	}
	for _, g := range hd.Groups {
		d.Groups = append(d.Groups, GroupDecl{Name: g.Name, Description: g.Description, Flags: g.Flags})
	}
	for _, o := range hd.Options {
		def, err := ctyDefault(o.Default)
		if err != nil {
			return nil, fmt.Errorf("option %q: default: %w", o.Name, err)
		}
		d.Options = append(d.Options, OptionDecl{
			Name:      o.Name,
			Short:     o.Short,
			Type:      o.Type,
			Help:      o.Help,
			Flags:     o.Flags,
			Enum:      o.Enum,
			Group:     o.Group,
			DependsOn: o.DependsOn,
			Default:   def,
		})
	}
	return d, nil
}

// ctyDefault converts an HCL default to the Go values the other decoders
// produce: string, bool, int64, float64 or []any.
func ctyDefault(v *cty.Value) (any, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return v.AsString(), nil
	case ty.Equals(cty.Bool):
		return v.True(), nil
	case ty.Equals(cty.Number):
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			e, err := ctyDefault(&ev)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
}
