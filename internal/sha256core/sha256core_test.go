// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sha256core

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// singleBlockHash hashes a message known to fit in exactly one 64-byte
// block (length <= 55 bytes) by hand-building the padded block and
// running it through Compress, so Compress itself can be checked against
// the standard library without any of the rest of this package.
func singleBlockHash(msg []byte) [32]byte {
	if len(msg) > 55 {
		panic("message too long for a single block")
	}
	var buf [64]byte
	copy(buf[:], msg)
	buf[len(msg)] = 0x80
	bitLen := uint64(len(msg)) * 8
	for i := 0; i < 8; i++ {
		buf[63-i] = byte(bitLen >> (8 * i))
	}

	var block [16]uint32
	bytesToWordsBE(buf[:], block[:])
	digest := IV
	Compress(&digest, &block)
	return DigestToBytes(digest)
}

func TestCompressMatchesStandardLibrary(t *testing.T) {
	for _, msg := range [][]byte{
		[]byte(""),
		[]byte("abc"),
		[]byte("the quick brown fox"),
	} {
		want := sha256.Sum256(msg)
		got := singleBlockHash(msg)
		require.Equal(t, want, got, "message %q", msg)
	}
}

func TestFunnelShiftInsertMatchesWordAlignedCase(t *testing.T) {
	var codeHash [8]uint32
	for i := range codeHash {
		codeHash[i] = uint32(i+1) * 0x01010101
	}

	var aligned [16]uint32
	FunnelShiftInsert(&aligned, codeHash, 8) // byte offset 8 == word 2, aligned
	for i := 0; i < 8; i++ {
		require.Equal(t, codeHash[i], aligned[2+i])
	}
}

func TestFunnelShiftInsertRoundTripsThroughBytes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		offset := rapid.IntRange(0, 23).Draw(rt, "offset")
		var codeHash [8]uint32
		for i := range codeHash {
			codeHash[i] = uint32(rapid.Uint32().Draw(rt, "word"))
		}

		var block [16]uint32
		FunnelShiftInsert(&block, codeHash, offset)

		var raw [64]byte
		for i, w := range block {
			raw[i*4] = byte(w >> 24)
			raw[i*4+1] = byte(w >> 16)
			raw[i*4+2] = byte(w >> 8)
			raw[i*4+3] = byte(w)
		}

		var want [32]byte
		for i, w := range codeHash {
			want[i*4] = byte(w >> 24)
			want[i*4+1] = byte(w >> 16)
			want[i*4+2] = byte(w >> 8)
			want[i*4+3] = byte(w)
		}

		require.Equal(t, want[:], raw[offset:offset+32])
	})
}
