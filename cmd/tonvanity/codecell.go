// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/ton-org/vanity/internal/codec"
)

// contractBoilerplate is the fixed leading bytes of the wallet contract
// code cell this tool targets. The actual TON smart-contract source is
// outside this core's scope (spec.md §1's Non-goals); the search only
// needs the resulting 64-byte prefix to be stable for a given owner so
// that CodeStateBase can be precomputed once per session.
var contractBoilerplate = [32]byte{
	0xff, 0x00, 0x20, 0xdd, 0x2a, 0x24, 0x7c, 0x21,
	0x2a, 0xbe, 0xe2, 0x38, 0x20, 0x83, 0xc2, 0xf2,
	0x66, 0x04, 0x0a, 0x2e, 0x6f, 0x24, 0x6e, 0x6c,
	0xbe, 0xc9, 0xd4, 0xb4, 0x95, 0x19, 0x2f, 0x3c,
}

// codePrefixForOwner derives the 64-byte fixed code-cell prefix for a
// given owner address: the contract boilerplate followed by the owner's
// 32-byte account hash, matching the "owner ... yields CODE_PREFIX"
// contract of spec.md §4.C. An empty owner yields the all-zero owner
// hash, useful for self-tests and exploratory searches.
func codePrefixForOwner(owner string) ([64]byte, error) {
	var prefix [64]byte
	copy(prefix[:32], contractBoilerplate[:])

	if owner == "" {
		return prefix, nil
	}

	_, _, hash, err := codec.Decode(owner)
	if err != nil {
		return prefix, fmt.Errorf("decode owner address %q: %w", owner, err)
	}
	copy(prefix[32:], hash[:])
	return prefix, nil
}
