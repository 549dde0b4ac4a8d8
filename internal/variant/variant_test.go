// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package variant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildEnumeratesAllTickTockCombinations(t *testing.T) {
	variants, err := Build(0)
	require.NoError(t, err)
	require.Len(t, variants, 4)

	seen := make(map[[2]bool]bool)
	for _, v := range variants {
		seen[[2]bool{v.Tick, v.Tock}] = true
		require.LessOrEqual(t, v.Len, MaxTemplateLen)
	}
	require.Len(t, seen, 4)
}

func TestBuildRejectsUnsupportedFixedPrefixLength(t *testing.T) {
	_, err := Build(3)
	require.Error(t, err)
}

func TestBuildSetsFreePrefixFlagOnlyWhenRequested(t *testing.T) {
	plain, err := Build(0)
	require.NoError(t, err)
	withFree, err := Build(8)
	require.NoError(t, err)

	for i := range plain {
		require.Equal(t, plain[i].Tick, withFree[i].Tick)
		require.Equal(t, plain[i].Tock, withFree[i].Tock)
		// The flags byte occupies the top byte of word 0; bit 6 (the
		// free-prefix flag) must differ between the two builds.
		plainFlags := byte(plain[i].PrefixW[0] >> 24)
		freeFlags := byte(withFree[i].PrefixW[0] >> 24)
		require.Equal(t, plainFlags|(1<<6), freeFlags)
	}
}
