// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

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

func TestSelfTestPasses(t *testing.T) {
	require.NoError(t, SelfTest(testCodePrefix()))
}

func TestRunFindsMatchWithNoConstraints(t *testing.T) {
	cfg := Config{
		Spec:                spec.Spec{FixedPrefixLength: 0},
		CodePrefix:          testCodePrefix(),
		Salt0:               1,
		Salt1:               2,
		Salt2:               3,
		Salt3:               4,
		IterationsPerLaunch: 2,
		GlobalSize:          2,
		NumWorkers:          2,
		MaxLaunches:         1,
		StopOnFirstMatch:    true,
	}
	d, err := New(cfg)
	require.NoError(t, err)
	defer d.Close()

	matches, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Len(t, matches[0].Address, 48)
}

func TestCompileRejectsStartPastAddressEnd(t *testing.T) {
	// startDigitBase is 3 and the representation has only 48 character
	// slots, so a 46-character start pushes 3+46=49 past the end of the
	// address and Compile must reject it outright.
	s := spec.Spec{
		Start:             "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		CaseSensitive:     true,
		FixedPrefixLength: 0,
	}
	_, err := constraints.Compile(s)
	require.Error(t, err, "pattern deliberately exceeds the free window so Compile itself should reject it")
}

func TestRunExhaustsMaxLaunchesWithoutStopOnFirstMatch(t *testing.T) {
	cfg := Config{
		Spec:                spec.Spec{Start: "A", CaseSensitive: true, FixedPrefixLength: 8},
		CodePrefix:          testCodePrefix(),
		Salt0:               1,
		Salt1:               2,
		Salt2:               3,
		Salt3:               4,
		IterationsPerLaunch: 1,
		GlobalSize:          1,
		NumWorkers:          1,
		MaxLaunches:         2,
	}
	d, err := New(cfg)
	require.NoError(t, err)
	defer d.Close()

	matches, err := d.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, matches)
}
