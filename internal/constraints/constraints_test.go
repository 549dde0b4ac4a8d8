// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constraints

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ton-org/vanity/internal/codec"
	"github.com/ton-org/vanity/internal/spec"
)

func TestStartDigitBaseMatchesFixedPrefixLength8(t *testing.T) {
	s := spec.Spec{
		Start:             "WERTY",
		CaseSensitive:     true,
		FixedPrefixLength: 8,
	}
	c, err := Compile(s)
	require.NoError(t, err)

	var repr [codec.ReprLen]byte
	copy(repr[:], c.PrefixVal[:])

	for i, want := range "WERTY" {
		digit, err := codec.DigitAt(repr, startDigitBase+i)
		require.NoError(t, err)
		require.Equal(t, byte(want), codec.RenderedChar(digit),
			"character at position %d", startDigitBase+i)
	}
}

func TestCompileRejectsOverlappingStartAndEnd(t *testing.T) {
	s := spec.Spec{
		Start: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrst",
		End:   "uvwxyz",
	}
	_, err := Compile(s)
	require.ErrorIs(t, err, spec.ErrSpecification)
}

func TestCompileRejectsUnsupportedFixedPrefixLength(t *testing.T) {
	_, err := Compile(spec.Spec{FixedPrefixLength: 4})
	require.ErrorIs(t, err, spec.ErrSpecification)
}

func TestCaseInsensitiveLetterProducesCaseConstraint(t *testing.T) {
	// "9a": the leading digit has no case alternative, so it becomes a
	// plain mask/value constraint on character index 3 rather than a
	// CaseConstraint, pushing the letter 'a' to character index 4, whose
	// 6-bit window falls inside bytes [3,33] — clear of byte 2 — so it
	// is routed to CaseConst rather than CaseVar.
	s := spec.Spec{Start: "9a", CaseSensitive: false, FixedPrefixLength: 0}
	c, err := Compile(s)
	require.NoError(t, err)
	require.Len(t, c.CaseConst, 1)
	require.Equal(t, uint8(indexInAlphabet('a')), c.CaseConst[0].Alt0)
	require.Equal(t, uint8(indexInAlphabet('A')), c.CaseConst[0].Alt1)
}

func TestHash0ValuesCoversFullRangeWhenUnconstrained(t *testing.T) {
	c, err := Compile(spec.Spec{FixedPrefixLength: 8})
	require.NoError(t, err)
	require.Len(t, c.Hash0Values, 256)
	require.True(t, c.NeedCRC)
}

func TestRequiresRealMatchWhenNoFreePrefix(t *testing.T) {
	c, err := Compile(spec.Spec{FixedPrefixLength: 0})
	require.NoError(t, err)
	require.True(t, c.RequiresRealMatch)
}
