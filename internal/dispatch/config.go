// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import "github.com/ton-org/vanity/internal/spec"

// Config describes one search session handed to a Dispatcher.
type Config struct {
	// Spec is the user-facing search specification the Constraint
	// Compiler will compile before the first launch.
	Spec spec.Spec

	// CodePrefix is the fixed 64-byte contract-code prefix (bytes 0..63
	// of the 80-byte code cell); its midstate is precomputed once.
	CodePrefix [64]byte

	// Salt0..Salt3 is the base salt rotated between launches. The
	// caller should pick these at random (or leave them zero for
	// deterministic tests); the dispatcher XORs in the launch index to
	// keep every launch's salt space disjoint.
	Salt0, Salt1, Salt2, Salt3 uint32

	// IterationsPerLaunch and GlobalSize size one kernel launch, i.e.
	// the (t, g) index space of a single call to kernel.Launch.
	IterationsPerLaunch uint32
	GlobalSize          uint32

	// NumWorkers is the number of goroutines a launch is spread across,
	// standing in for the compute device's parallelism.
	NumWorkers uint32

	// MaxLaunches bounds the number of launches Run will perform; zero
	// means unbounded (run until ctx is cancelled or, with
	// StopOnFirstMatch, until the first hit).
	MaxLaunches uint32

	// StopOnFirstMatch ends the session as soon as one match has been
	// recorded.
	StopOnFirstMatch bool

	// MatchLogPath is the directory of the leveldb match log. Empty
	// disables persistence; matches are still returned from Run.
	MatchLogPath string
}
