// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dispatch implements the Host Dispatcher (component E): it owns
// the per-launch goroutine-pool "device" loop, rotates salts across
// launches so every work item explores fresh space, drains the bounded
// result buffer, renders and persists matches, and reports throughput —
// the collaborator spec.md §4.E specifies only by its contract with the
// search kernel.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/decred/dcrd/lru"

	"github.com/ton-org/vanity/internal/codec"
	"github.com/ton-org/vanity/internal/constraints"
	"github.com/ton-org/vanity/internal/kernel"
	"github.com/ton-org/vanity/internal/sha256core"
)

const (
	// hpsUpdateSecs is the interval between hash-rate log lines.
	hpsUpdateSecs = 10

	// dedupCacheSize bounds the LRU of rendered addresses used to
	// suppress re-persisting the same match.
	dedupCacheSize = 4096
)

// Dispatcher runs search launches against a compiled constraint table and
// a single shared Kernel, exactly the contract spec.md §4.E describes.
type Dispatcher struct {
	cfg      Config
	compiled *constraints.Compiled
	kernel   *kernel.Kernel
	matchLog *matchLog
	seen     *lru.Cache[string]

	hashesThisInterval uint64
	mu                 sync.Mutex
}

// New validates and compiles cfg.Spec, runs the startup self-test, and
// opens the match log, refusing to start a session on any failure.
func New(cfg Config) (*Dispatcher, error) {
	if err := SelfTest(cfg.CodePrefix); err != nil {
		return nil, err
	}

	compiled, err := constraints.Compile(cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("compile spec: %w", err)
	}

	ml, err := openMatchLog(cfg.MatchLogPath)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		cfg:      cfg,
		compiled: compiled,
		kernel:   kernel.New(compiled, cfg.CodePrefix),
		matchLog: ml,
		seen:     lru.NewCache[string](dedupCacheSize),
	}, nil
}

// Close releases the match log.
func (d *Dispatcher) Close() error {
	return d.matchLog.close()
}

// Run launches searches until ctx is cancelled, cfg.MaxLaunches is
// reached, or (with StopOnFirstMatch) the first match is recorded. It
// returns every rendered, persisted match from the session.
func (d *Dispatcher) Run(ctx context.Context) ([]MatchRecord, error) {
	out := kernel.NewResultBuffer()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.speedMonitor(stop)
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	globalSize := d.cfg.GlobalSize
	var matches []MatchRecord

	for launch := uint32(0); d.cfg.MaxLaunches == 0 || launch < d.cfg.MaxLaunches; launch++ {
		select {
		case <-ctx.Done():
			return matches, ctx.Err()
		default:
		}

		s0, s1, s2, s3 := d.rotatedSalt(launch)
		kernel.Launch(ctx, d.kernel, d.cfg.IterationsPerLaunch, globalSize, d.cfg.NumWorkers, s0, s1, s2, s3, out)

		found := out.FoundCount()
		if found > kernel.ResultCapacity {
			log.Warnf("launch %d: found_counter %d exceeded result capacity %d, shrinking next launch",
				launch, found, kernel.ResultCapacity)
			if globalSize > 1 {
				globalSize /= 2
			}
		}
		d.addHashes(uint64(d.cfg.IterationsPerLaunch) * uint64(globalSize) * uint64(len(d.compiled.Variants)))

		drained := out.Drain()
		for _, m := range drained {
			rec, isNew, err := d.render(m, s0, s1, s2, s3)
			if err != nil {
				return matches, err
			}
			if !isNew {
				continue
			}
			matches = append(matches, rec)
			log.Infof("match: %s", rec.Address)
			if d.cfg.StopOnFirstMatch {
				return matches, nil
			}
		}
	}
	return matches, nil
}

// rotatedSalt derives the base salt for a given launch index. Only the
// third salt word is perturbed: the effective per-candidate salt XORs s0
// with t and s1 with g, so perturbing a word neither index touches keeps
// every launch's (t, g) work-item space disjoint from every other launch's.
func (d *Dispatcher) rotatedSalt(launch uint32) (s0, s1, s2, s3 uint32) {
	return d.cfg.Salt0, d.cfg.Salt1, d.cfg.Salt2 ^ launch, d.cfg.Salt3
}

// render converts a kernel.Match into a MatchRecord, re-deriving the hash
// to satisfy the host re-derivation check of spec.md §8 invariant 1
// before trusting it enough to persist.
func (d *Dispatcher) render(m kernel.Match, s0, s1, s2, s3 uint32) (MatchRecord, bool, error) {
	recomputed := d.kernel.Recompute(m.T, m.G, int(m.Variant), s0, s1, s2, s3)
	if recomputed != m.MainHash {
		return MatchRecord{}, false, fmt.Errorf("%w: match (t=%d,g=%d,v=%d) failed host re-derivation",
			ErrSelfTest, m.T, m.G, m.Variant)
	}

	fullHash := m.MainHash
	fullHash[0] = m.Hash0
	address := codec.Encode(d.compiled.Tag, d.compiled.Workchain, fullHash)

	if d.seen.Contains(address) {
		return MatchRecord{}, false, nil
	}
	d.seen.Add(address)

	salt := sha256core.SaltBytes(s0^m.T, s1^m.G, s2, s3)
	var codeCell [80]byte
	copy(codeCell[:64], d.cfg.CodePrefix[:])
	copy(codeCell[64:], salt[:])

	rec := MatchRecord{
		Hash0:    m.Hash0,
		Address:  address,
		CodeCell: codeCell,
		Variant:  d.compiled.Variants[m.Variant],
		Spec:     d.cfg.Spec,
		FoundAt:  time.Now(),
	}
	if _, err := d.matchLog.append(rec); err != nil {
		return MatchRecord{}, false, err
	}
	return rec, true, nil
}

func (d *Dispatcher) addHashes(n uint64) {
	d.mu.Lock()
	d.hashesThisInterval += n
	d.mu.Unlock()
}

// speedMonitor periodically logs the search throughput, mirroring the
// teacher's hashes-per-second reporting for its own mining loops.
func (d *Dispatcher) speedMonitor(stop <-chan struct{}) {
	ticker := time.NewTicker(hpsUpdateSecs * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.mu.Lock()
			n := d.hashesThisInterval
			d.hashesThisInterval = 0
			d.mu.Unlock()
			log.Infof("search speed: %d kilohashes/s", n/hpsUpdateSecs/1000)
		case <-stop:
			return
		}
	}
}
