// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kernel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ton-org/vanity/internal/constraints"
	"github.com/ton-org/vanity/internal/spec"
)

func testCodePrefix() [64]byte {
	var p [64]byte
	for i := range p {
		p[i] = byte(i)
	}
	return p
}

func TestUnconstrainedSpecMatchesEveryCandidate(t *testing.T) {
	c, err := constraints.Compile(spec.Spec{FixedPrefixLength: 0})
	require.NoError(t, err)
	k := New(c, testCodePrefix())

	out := NewResultBuffer()
	Launch(context.Background(), k, 2, 3, 2, 1, 2, 3, 4, out)

	// With no constraints, stage1/stage2 always pass and the fast path
	// (NeedCRC == false for FixedPrefixLength == 0 with no constraints)
	// emits exactly one match per (t, g, variant).
	require.Equal(t, uint64(2*3*len(c.Variants)), out.FoundCount())
}

func TestRecomputeReproducesMatchHash(t *testing.T) {
	c, err := constraints.Compile(spec.Spec{FixedPrefixLength: 0})
	require.NoError(t, err)
	k := New(c, testCodePrefix())

	out := NewResultBuffer()
	Launch(context.Background(), k, 1, 1, 1, 10, 20, 30, 40, out)
	matches := out.Drain()
	require.NotEmpty(t, matches)

	m := matches[0]
	got := k.Recompute(m.T, m.G, int(m.Variant), 10, 20, 30, 40)
	require.Equal(t, m.MainHash, got)
}

func TestFreePrefixEnumeratesAllHash0Candidates(t *testing.T) {
	c, err := constraints.Compile(spec.Spec{FixedPrefixLength: 8})
	require.NoError(t, err)
	k := New(c, testCodePrefix())

	out := NewResultBuffer()
	Launch(context.Background(), k, 1, 1, 1, 1, 2, 3, 4, out)
	matches := out.Drain()
	// Every one of the 256 admissible free-byte values is a distinct
	// valid rendered address for the same underlying hash, for each
	// variant.
	require.Equal(t, 256*len(c.Variants), len(matches))
}
