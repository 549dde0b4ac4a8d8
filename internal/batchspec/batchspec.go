// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package batchspec loads a YAML file listing multiple search
// specifications to run back-to-back in one process, so an operator can
// queue several vanity searches without re-invoking the CLI for each.
package batchspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ton-org/vanity/internal/spec"
)

// entry mirrors spec.Spec's fields in the lower-snake-case a YAML batch
// file author would write.
type entry struct {
	Owner             string `yaml:"owner"`
	Start             string `yaml:"start"`
	End               string `yaml:"end"`
	CaseSensitive     bool   `yaml:"case_sensitive"`
	Masterchain       bool   `yaml:"masterchain"`
	NonBounceable     bool   `yaml:"non_bounceable"`
	Testnet           bool   `yaml:"testnet"`
	FixedPrefixLength int    `yaml:"fixed_prefix_length"`
}

// file is the top-level shape of a batch YAML document.
type file struct {
	Specs []entry `yaml:"specs"`
}

// Load parses a YAML batch file into an ordered list of specs, run by
// the dispatcher in file order.
func Load(path string) ([]spec.Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file %q: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse batch file %q: %w", path, err)
	}
	if len(f.Specs) == 0 {
		return nil, fmt.Errorf("batch file %q lists no specs", path)
	}

	out := make([]spec.Spec, len(f.Specs))
	for i, e := range f.Specs {
		out[i] = spec.Spec{
			Owner:             e.Owner,
			Start:             e.Start,
			End:               e.End,
			CaseSensitive:     e.CaseSensitive,
			Masterchain:       e.Masterchain,
			NonBounceable:     e.NonBounceable,
			Testnet:           e.Testnet,
			FixedPrefixLength: e.FixedPrefixLength,
		}
	}
	return out, nil
}
