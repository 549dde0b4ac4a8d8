// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package spec defines the user-facing search specification consumed by
// the constraint compiler.
package spec

import "errors"

// ErrSpecification is the sentinel wrapped by every error that stems from
// an invalid or unsatisfiable search specification, as opposed to a
// runtime search fault.
var ErrSpecification = errors.New("specification error")

// Spec describes what address the search is looking for and how the
// resulting StateInit should be rendered.
type Spec struct {
	// Owner is the friendly address whose account hash fills the
	// owner-dependent bytes of the code-cell prefix, so it changes every
	// searched hash; empty means an all-zero owner hash. It is also
	// carried through to the match record.
	Owner string

	// Start and End are literal character prefixes/suffixes of the
	// rendered 48-character friendly address. Both may be empty.
	Start string
	End   string

	// CaseSensitive, when false, allows letters in Start/End to match
	// either case at search time.
	CaseSensitive bool

	// Masterchain selects workchain -1 instead of the basechain (0).
	Masterchain bool

	// NonBounceable selects the non-bounceable address tag.
	NonBounceable bool

	// Testnet sets the testnet-only bit in the address tag.
	Testnet bool

	// FixedPrefixLength is the number of leading bits of the StateInit
	// hash the contract declares as free for the miner to choose. This
	// implementation supports only 0 (no freedom) and 8 (the whole first
	// hash byte is free) — see DESIGN.md.
	FixedPrefixLength int
}

// Alphabet is the URL-safe base64 alphabet TON friendly addresses are
// rendered in, in character order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// CharCount is the number of base64 digits in a 36-byte representation.
const CharCount = 48
