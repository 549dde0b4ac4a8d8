// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/binary"
)

// randomSaltWord returns a cryptographically random 32-bit word, used to
// seed a session's base salt so repeated invocations explore disjoint
// salt space.
func randomSaltWord() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to
		// a fixed word rather than crash a long-running search over it.
		return 0x9e3779b9
	}
	return binary.BigEndian.Uint32(b[:])
}
