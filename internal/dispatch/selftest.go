// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ton-org/vanity/internal/constraints"
	"github.com/ton-org/vanity/internal/kernel"
	"github.com/ton-org/vanity/internal/sha256core"
	"github.com/ton-org/vanity/internal/spec"
)

// ErrSelfTest is the sentinel wrapping every error SelfTest returns, per
// the Hash mismatch error kind of spec.md §7.
var ErrSelfTest = fmt.Errorf("self-test failed")

// abcDigest is the known SHA-256 digest of "abc", used to catch a broken
// Compress before any device work is launched.
var abcDigest = [32]byte{
	0xba, 0x78, 0x16, 0xbf, 0x8f, 0x01, 0xcf, 0xea,
	0x41, 0x41, 0x40, 0xde, 0x5d, 0xae, 0x22, 0x23,
	0xb0, 0x03, 0x61, 0xa3, 0x96, 0x17, 0x7a, 0x9c,
	0xb4, 0x10, 0xff, 0x61, 0xf2, 0x00, 0x15, 0xad,
}

// singleBlockHash pads msg (which must fit one 64-byte block) by hand and
// runs it through sha256core.Compress, exercising the exact compression
// primitive the search kernel relies on rather than a general library.
func singleBlockHash(msg []byte) [32]byte {
	var buf [64]byte
	copy(buf[:], msg)
	buf[len(msg)] = 0x80
	bitLen := uint64(len(msg)) * 8
	for i := 0; i < 8; i++ {
		buf[63-i] = byte(bitLen >> (8 * i))
	}
	var block [16]uint32
	for i := range block {
		block[i] = uint32(buf[i*4])<<24 | uint32(buf[i*4+1])<<16 | uint32(buf[i*4+2])<<8 | uint32(buf[i*4+3])
	}
	digest := sha256core.IV
	sha256core.Compress(&digest, &block)
	return sha256core.DigestToBytes(digest)
}

// selfTestHasher checks sha256core.Compress against a known test vector.
func selfTestHasher() error {
	got := singleBlockHash([]byte("abc"))
	if got != abcDigest {
		return fmt.Errorf("%w: Compress(\"abc\") = %x, want %x", ErrSelfTest, got, abcDigest)
	}
	return nil
}

// selfTestReconstruction compiles an unconstrained spec, runs one tiny
// launch, and checks that every emitted match's hash is exactly
// reproducible from its (t, g, variant, salt) tuple — the host
// re-derivation check spec.md §8 invariant 1 requires of every match,
// run here once up front against synthetic salts rather than waiting for
// the first real hit to discover a codec or compilation bug.
func selfTestReconstruction(codePrefix [64]byte) error {
	c, err := constraints.Compile(spec.Spec{FixedPrefixLength: 0})
	if err != nil {
		return fmt.Errorf("%w: compiling self-test spec: %v", ErrSelfTest, err)
	}
	k := kernel.New(c, codePrefix)

	out := kernel.NewResultBuffer()
	kernel.Launch(context.Background(), k, 2, 2, 1, 0xdead, 0xbeef, 0, 0, out)
	matches := out.Drain()
	if len(matches) == 0 {
		return fmt.Errorf("%w: self-test launch produced no candidates", ErrSelfTest)
	}
	for _, m := range matches {
		got := k.Recompute(m.T, m.G, int(m.Variant), 0xdead, 0xbeef, 0, 0)
		if !bytes.Equal(got[:], m.MainHash[:]) {
			return fmt.Errorf("%w: recomputed hash does not match emitted hash for (t=%d,g=%d,v=%d)",
				ErrSelfTest, m.T, m.G, m.Variant)
		}
	}
	return nil
}

// SelfTest runs the startup checks described in spec.md §7 ("Hash
// mismatch (self-test)"): the hasher is checked against a known SHA-256
// vector, then a small synthetic launch verifies every emitted match
// re-derives bit-for-bit. A session must refuse to start if either check
// fails.
func SelfTest(codePrefix [64]byte) error {
	if err := selfTestHasher(); err != nil {
		return err
	}
	return selfTestReconstruction(codePrefix)
}
