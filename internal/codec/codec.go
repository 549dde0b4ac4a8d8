// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec implements the Address Codec: conversion between the
// 36-byte representation buffer (tag byte, workchain byte, 32-byte
// StateInit hash, CRC16) and the 48-character base64url "friendly
// address" string TON renders to users.
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/kkdai/bstream"

	"github.com/ton-org/vanity/internal/crc16"
)

// ReprLen is the length in bytes of the representation buffer.
const ReprLen = 36

// CharCount is the number of base64 digits the representation encodes to.
const CharCount = 48

const (
	tagBounceable    byte = 0x11
	tagNonBounceable byte = 0x51
	tagTestnetBit    byte = 0x80

	workchainBase        byte = 0x00
	workchainMasterchain byte = 0xff
)

// Flags derives the fixed tag and workchain bytes (repr[0], repr[1]) from
// the address options.
func Flags(masterchain, nonBounceable, testnet bool) (tag, workchain byte) {
	tag = tagBounceable
	if nonBounceable {
		tag = tagNonBounceable
	}
	if testnet {
		tag |= tagTestnetBit
	}
	workchain = workchainBase
	if masterchain {
		workchain = workchainMasterchain
	}
	return tag, workchain
}

// Encode renders a 32-byte StateInit hash into a 48-character base64url
// friendly address.
func Encode(tag, workchain byte, hash [32]byte) string {
	var repr [ReprLen]byte
	repr[0] = tag
	repr[1] = workchain
	copy(repr[2:34], hash[:])
	crc := crc16.Checksum(repr[:34])
	repr[34] = byte(crc >> 8)
	repr[35] = byte(crc)
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(repr[:])
}

// Decode parses a 48-character friendly address back into its tag,
// workchain byte, and 32-byte StateInit hash, verifying the CRC16.
func Decode(address string) (tag, workchain byte, hash [32]byte, err error) {
	if len(address) != CharCount {
		return 0, 0, hash, fmt.Errorf("address must be %d characters, got %d", CharCount, len(address))
	}
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(address)
	if err != nil {
		return 0, 0, hash, fmt.Errorf("decode base64: %w", err)
	}
	if len(raw) != ReprLen {
		return 0, 0, hash, fmt.Errorf("decoded representation must be %d bytes, got %d", ReprLen, len(raw))
	}

	want := crc16.Checksum(raw[:34])
	got := uint16(raw[34])<<8 | uint16(raw[35])
	if want != got {
		return 0, 0, hash, fmt.Errorf("crc16 mismatch: computed %04x, encoded %04x", want, got)
	}

	tag = raw[0]
	workchain = raw[1]
	copy(hash[:], raw[2:34])
	return tag, workchain, hash, nil
}

// CharBitPos returns the absolute bit offset (0..287, MSB-first) of the
// first bit of the 6-bit base64 digit at character position p (0..47)
// within the 288-bit representation.
func CharBitPos(p int) int {
	return 6 * p
}

// CharByteRange returns the inclusive range of representation byte
// indices that the 6-bit window of character position p overlaps.
func CharByteRange(p int) (lo, hi int) {
	bit := CharBitPos(p)
	return bit / 8, (bit + 5) / 8
}

// Alphabet is the URL-safe base64 alphabet, in character order, that TON
// friendly addresses are rendered in.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// DigitAt extracts the 6-bit base64 digit at character position p from a
// full 36-byte representation buffer, using a bit-addressable reader
// since the digit's window does not generally align to a byte boundary.
func DigitAt(repr [ReprLen]byte, p int) (uint8, error) {
	br := bstream.NewBStreamReader(bytes.NewReader(repr[:]))
	if _, err := br.ReadBits(int(CharBitPos(p))); err != nil {
		return 0, fmt.Errorf("seek to character %d: %w", p, err)
	}
	v, err := br.ReadBits(6)
	if err != nil {
		return 0, fmt.Errorf("read character %d: %w", p, err)
	}
	return uint8(v), nil
}

// RenderedChar returns the alphabet letter for a 6-bit base64 digit.
func RenderedChar(digit uint8) byte {
	return Alphabet[digit&0x3f]
}
