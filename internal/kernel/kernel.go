// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package kernel implements the Search Kernel: the pure, per-candidate
// algorithm (stages 1 through 3B of the constraint test), the bounded
// result buffer that stands in for the device's fixed-capacity results
// array, and a goroutine worker pool that stands in for the massively
// parallel compute device the algorithm was designed for.
package kernel

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ton-org/vanity/internal/constraints"
	"github.com/ton-org/vanity/internal/crc16"
	"github.com/ton-org/vanity/internal/sha256core"
)

// ResultCapacity is the fixed size of the per-launch results buffer,
// matching the ABI described in spec.md §6.
const ResultCapacity = 1024

// Match is one admissible candidate found during a launch.
type Match struct {
	T        uint32
	G        uint32
	Variant  uint32
	Hash0    byte
	MainHash [32]byte
}

// ResultBuffer accumulates matches from concurrent workers within a
// single launch, dropping anything past ResultCapacity while still
// counting it, exactly as the fixed-size hardware results array would.
type ResultBuffer struct {
	mu           sync.Mutex
	slots        []Match
	foundCounter uint64
}

// NewResultBuffer returns an empty result buffer.
func NewResultBuffer() *ResultBuffer {
	return &ResultBuffer{slots: make([]Match, 0, ResultCapacity)}
}

// Emit records one match, silently dropping it (but still counting it)
// once the buffer is at capacity.
func (r *ResultBuffer) Emit(m Match) {
	n := atomic.AddUint64(&r.foundCounter, 1)
	if n > ResultCapacity {
		return
	}
	r.mu.Lock()
	r.slots = append(r.slots, m)
	r.mu.Unlock()
}

// FoundCount returns how many matches were emitted this launch,
// including ones dropped for exceeding capacity.
func (r *ResultBuffer) FoundCount() uint64 {
	return atomic.LoadUint64(&r.foundCounter)
}

// Drain returns and clears the buffered matches.
func (r *ResultBuffer) Drain() []Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.slots
	r.slots = make([]Match, 0, ResultCapacity)
	atomic.StoreUint64(&r.foundCounter, 0)
	return out
}

// Kernel holds the compiled constraints and precomputed code-cell
// midstate needed to test candidates; it has no other mutable state, so
// a single Kernel is safely shared by every worker goroutine.
type Kernel struct {
	compiled      *constraints.Compiled
	codeStateBase [8]uint32
}

// New builds a Kernel from a compiled constraint table and the 64-byte
// fixed prefix of the code cell.
func New(compiled *constraints.Compiled, codePrefix [64]byte) *Kernel {
	return &Kernel{
		compiled:      compiled,
		codeStateBase: sha256core.CodeStateBase(codePrefix),
	}
}

// mainHashForVariant computes the StateInit hash for one (t, g, variant)
// work item.
func (k *Kernel) mainHashForVariant(s0, s1, s2, s3 uint32, variantIdx int) [32]byte {
	salt := sha256core.SaltBytes(s0, s1, s2, s3)
	codeHash := sha256core.CodeCellHash(k.codeStateBase, salt)
	v := k.compiled.Variants[variantIdx]
	return sha256core.MainHash(v.PrefixW, codeHash, v.Len)
}

// Recompute re-derives the StateInit hash for a specific, previously
// found work item — used both by the host dispatcher when rendering a
// match and by the self-test's reconstruction check.
func (k *Kernel) Recompute(t, g uint32, variantIdx int, s0, s1, s2, s3 uint32) [32]byte {
	return k.mainHashForVariant(s0^t, s1^g, s2, s3, variantIdx)
}

// stage1 checks the CRC- and hash0-independent mask/value constraints.
func (k *Kernel) stage1(mainHash [32]byte) bool {
	for _, i := range k.compiled.PosNoCRC {
		b := mainHash[i-2]
		if b&k.compiled.PrefixMask[i] != k.compiled.PrefixVal[i] {
			return false
		}
	}
	return true
}

// stage2 checks the case-insensitive constraints confined to bytes [3,33].
func (k *Kernel) stage2(mainHash [32]byte) bool {
	get := func(i int) byte { return mainHash[i-2] }
	for _, cc := range k.compiled.CaseConst {
		if !cc.Matches(get) {
			return false
		}
	}
	return true
}

func rewriteHash0(c *constraints.Compiled, raw byte) byte {
	return (raw &^ c.FreeHashMask) | (c.FreeHashVal & c.FreeHashMask)
}

// stage3A is the single-value fast path, used only when NeedCRC is
// false (see DESIGN.md's Open Question resolution).
func (k *Kernel) stage3A(mainHash [32]byte) (byte, bool) {
	hash0 := rewriteHash0(k.compiled, mainHash[0])
	if hash0&k.compiled.PrefixMask[2] != k.compiled.PrefixVal[2] {
		return 0, false
	}
	get := func(i int) byte {
		if i == 2 {
			return hash0
		}
		return mainHash[i-2]
	}
	for _, cc := range k.compiled.CaseVar {
		if !cc.Matches(get) {
			return 0, false
		}
	}
	return hash0, true
}

// stage3B is the CRC-sweep path: it tries every admissible first hash
// byte from Hash0Values, recovering each candidate's CRC in O(1) via the
// precomputed delta table.
func (k *Kernel) stage3B(mainHash [32]byte, emit func(hash0 byte)) {
	var fixed [34]byte
	fixed[0], fixed[1] = k.compiled.Tag, k.compiled.Workchain
	copy(fixed[3:34], mainHash[1:32])
	crcBaseZero := crc16.Checksum(fixed[:])

	realHash0 := mainHash[0]
	for _, b := range k.compiled.Hash0Values {
		if k.compiled.RequiresRealMatch && b != realHash0 {
			continue
		}
		crc := crc16.ReplacePos2(crcBaseZero, k.compiled.CRC16DeltaPos2, b)
		crcHi, crcLo := byte(crc>>8), byte(crc)
		if crcHi&k.compiled.PrefixMask[34] != k.compiled.PrefixVal[34] {
			continue
		}
		if crcLo&k.compiled.PrefixMask[35] != k.compiled.PrefixVal[35] {
			continue
		}
		get := func(i int) byte {
			switch {
			case i == 2:
				return b
			case i == 34:
				return crcHi
			case i == 35:
				return crcLo
			default:
				return mainHash[i-2]
			}
		}
		matched := true
		for _, cc := range k.compiled.CaseVar {
			if !cc.Matches(get) {
				matched = false
				break
			}
		}
		if matched {
			emit(b)
		}
	}
}

// RunWorkItem executes the full per-candidate algorithm for one (t, g)
// pair across every compiled variant, reporting each admissible match to
// out.
func (k *Kernel) RunWorkItem(t, g, s0, s1, s2, s3 uint32, out *ResultBuffer) {
	for vi := range k.compiled.Variants {
		mainHash := k.mainHashForVariant(s0^t, s1^g, s2, s3, vi)
		if !k.stage1(mainHash) {
			continue
		}
		if !k.stage2(mainHash) {
			continue
		}
		if !k.compiled.NeedCRC {
			if hash0, ok := k.stage3A(mainHash); ok {
				out.Emit(Match{T: t, G: g, Variant: uint32(vi), Hash0: hash0, MainHash: mainHash})
			}
			continue
		}
		k.stage3B(mainHash, func(hash0 byte) {
			out.Emit(Match{T: t, G: g, Variant: uint32(vi), Hash0: hash0, MainHash: mainHash})
		})
	}
}

// Launch runs one full launch: every t in [0, iterations) times every g
// in [0, globalSize), spread across numWorkers goroutines, standing in
// for the massively parallel compute device spec.md §5 describes. It
// checks ctx between g values, since the kernel itself has no
// preemption point mid-work-item.
func Launch(ctx context.Context, k *Kernel, iterations, globalSize, numWorkers uint32, s0, s1, s2, s3 uint32, out *ResultBuffer) {
	if numWorkers == 0 {
		numWorkers = 1
	}
	var wg sync.WaitGroup
	gPerWorker := (globalSize + numWorkers - 1) / numWorkers

	for w := uint32(0); w < numWorkers; w++ {
		gStart := w * gPerWorker
		gEnd := gStart + gPerWorker
		if gEnd > globalSize {
			gEnd = globalSize
		}
		if gStart >= gEnd {
			continue
		}
		wg.Add(1)
		go func(gStart, gEnd uint32) {
			defer wg.Done()
			for g := gStart; g < gEnd; g++ {
				select {
				case <-ctx.Done():
					log.Tracef("worker cancelled at g=%d", g)
					return
				default:
				}
				for t := uint32(0); t < iterations; t++ {
					k.RunWorkItem(t, g, s0, s1, s2, s3, out)
				}
			}
		}(gStart, gEnd)
	}
	wg.Wait()
}
