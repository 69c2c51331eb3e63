// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optdecl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a declaration file. The format comes from the file name, and
// zstd-compressed content is decompressed first whatever the name.
func Load(ctx context.Context, path string) (*Decl, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return nil, fmt.Errorf("unknown declaration format for %s (want .toml, .yaml, .yml or .hcl)", path)
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration: %w", err)
	}
	if isZstd(bs) {
		slog.DebugContext(ctx, "Decompressing declaration.", "path", path, "compressed_bytes", len(bs))
		if bs, err = decompress(bs); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	d, err := Parse(bs, format, path)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Loaded declaration.", "path", path, "format", format, "options", len(d.Options), "groups", len(d.Groups))
	return d, nil
}

// Parse decodes a declaration in the given format. filename is used in
// error messages only.
func Parse(data []byte, format Format, filename string) (*Decl, error) {
	var (
		d   *Decl
		err error
	)
	switch format {
	case TOML:
		d, err = parseTOML(data)
	case YAML:
		d, err = parseYAML(data)
	case HCL:
		d, err = parseHCL(data, filename)
	default:
		return nil, fmt.Errorf("unsupported declaration format %v", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return d, nil
}

func parseTOML(data []byte) (*Decl, error) {
	var d Decl
	md, err := toml.Decode(string(data), &d)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return &d, nil
}

func parseYAML(data []byte) (*Decl, error) {
	var d Decl
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &d, nil
}
