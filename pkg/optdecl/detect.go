// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optdecl

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Format is the syntax of a declaration file.
type Format int

const (
	Unknown Format = iota
	TOML
	YAML
	HCL
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	case HCL:
		return "hcl"
	}
	return "unknown"
}

// DetectFormat picks the format from the file name. A trailing .zst or
// .zstd is skipped, so "tool.toml.zst" is TOML.
func DetectFormat(path string) (Format, bool) {
	if path == "" {
		return Unknown, false
	}
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range []string{".zst", ".zstd"} {
		base = strings.TrimSuffix(base, suffix)
	}
	switch filepath.Ext(base) {
	case ".toml":
		return TOML, true
	case ".yml", ".yaml":
		return YAML, true
	case ".hcl":
		return HCL, true
	}
	return Unknown, false
}

// isZstd reports whether bs starts with the zstd frame magic.
func isZstd(bs []byte) bool {
	return len(bs) >= 4 && bs[0] == 0x28 && bs[1] == 0xb5 && bs[2] == 0x2f && bs[3] == 0xfd
}

func decompress(bs []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()
	out, err := decoder.DecodeAll(bs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
