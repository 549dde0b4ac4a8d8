// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package constraints implements the Constraint Compiler: it turns a
// spec.Spec into the mask/value tables, case-alternation lists, and
// CRC16 lookup tables the search kernel tests every candidate against.
package constraints

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/ton-org/vanity/internal/codec"
	"github.com/ton-org/vanity/internal/crc16"
	"github.com/ton-org/vanity/internal/spec"
	"github.com/ton-org/vanity/internal/variant"
)

// startDigitBase is the first character index the compiler will ever
// force from a user-supplied Start pattern. Characters 0 and 1 fall
// entirely within the fixed tag/workchain bytes, and character 2 mixes
// those fixed bits with the first two bits of the (possibly free) hash
// byte; reserving characters 0-2 keeps every forced character either
// fully fixed (and therefore checked for free) or fully free/hash-derived.
const startDigitBase = 3

// CaseConstraint records a bit-window whose rendered character may take
// either of two 6-bit values (case-insensitive letter matching).
type CaseConstraint struct {
	// LoBit is the absolute bit offset (0..287) of the constraint's
	// 6-bit window.
	LoBit int
	Alt0  uint8
	Alt1  uint8
}

func (c CaseConstraint) byteRange() (lo, hi int) {
	return c.LoBit / 8, (c.LoBit + 5) / 8
}

// touchesHash0 reports whether the constraint's window overlaps byte 2
// (the, possibly free, first StateInit hash byte).
func (c CaseConstraint) touchesHash0() bool {
	lo, hi := c.byteRange()
	return lo <= 2 && hi >= 2
}

// touchesCRC reports whether the constraint's window overlaps either CRC
// byte (34 or 35).
func (c CaseConstraint) touchesCRC() bool {
	_, hi := c.byteRange()
	return hi >= 34
}

// Extract reads the constraint's 6-bit field out of whatever bytes get()
// supplies, aligning for the (at most 3-byte) span the window covers.
func (c CaseConstraint) Extract(get func(i int) byte) uint8 {
	lo, hi := c.byteRange()
	var buf uint32
	for i := lo; i <= hi; i++ {
		buf = buf<<8 | uint32(get(i))
	}
	totalBits := (hi - lo + 1) * 8
	shift := totalBits - (c.LoBit - lo*8) - 6
	return uint8((buf >> uint(shift)) & 0x3f)
}

// Matches reports whether the rendered 6-bit field equals either
// admissible alternative.
func (c CaseConstraint) Matches(get func(i int) byte) bool {
	v := c.Extract(get)
	return v == c.Alt0 || v == c.Alt1
}

// Compiled is the output of compiling a spec.Spec: everything the search
// kernel needs to test one candidate hash.
type Compiled struct {
	PrefixMask [codec.ReprLen]byte
	PrefixVal  [codec.ReprLen]byte

	// PosNoCRC lists representation indices in [3,33] with a forced
	// mask, checkable directly against the StateInit hash with no CRC
	// or free-byte dependency.
	PosNoCRC []int

	// Hash0Values enumerates the admissible final values of repr[2]
	// (the rewritten first hash byte), given the byte-2 mask/value and
	// any CaseVar constraint confined to byte 2.
	Hash0Values []byte

	// RequiresRealMatch is set when FixedPrefixLength == 0: since byte 2
	// isn't free in that configuration, a candidate from Hash0Values is
	// only valid if it also equals the real computed first hash byte.
	RequiresRealMatch bool

	// NeedCRC selects the CRC-sweep path (stage 3B) over the plain
	// single-value fast path (stage 3A). It is forced true whenever the
	// first hash byte is free, per the resolved Open Question recorded
	// in DESIGN.md.
	NeedCRC bool

	CaseConst []CaseConstraint // fully within bytes [3,33]
	CaseVar   []CaseConstraint // touches byte 2 and/or the CRC bytes

	CRC16DeltaPos2 [256]uint16

	FreeHashMask byte
	FreeHashVal  byte

	Tag        byte
	Workchain  byte
	Variants   []variant.Variant
}

// Compile validates s and builds its Compiled form.
func Compile(s spec.Spec) (*Compiled, error) {
	if err := validateCharset(s.Start); err != nil {
		return nil, fmt.Errorf("%w: start: %v", spec.ErrSpecification, err)
	}
	if err := validateCharset(s.End); err != nil {
		return nil, fmt.Errorf("%w: end: %v", spec.ErrSpecification, err)
	}
	if s.FixedPrefixLength != 0 && s.FixedPrefixLength != 8 {
		return nil, fmt.Errorf("%w: fixed_prefix_length must be 0 or 8, got %d", spec.ErrSpecification, s.FixedPrefixLength)
	}

	endDigitBase := codec.CharCount - len(s.End)
	if startDigitBase+len(s.Start) > endDigitBase {
		return nil, fmt.Errorf("%w: start pattern longer than the free window plus the first hash byte can satisfy", spec.ErrSpecification)
	}

	variants, err := variant.Build(s.FixedPrefixLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", spec.ErrSpecification, err)
	}

	c := &Compiled{}
	c.Tag, c.Workchain = codec.Flags(s.Masterchain, s.NonBounceable, s.Testnet)
	c.Variants = variants

	setBitsMaskVal(&c.PrefixMask, &c.PrefixVal, 0, 8, uint64(c.Tag))
	setBitsMaskVal(&c.PrefixMask, &c.PrefixVal, 8, 8, uint64(c.Workchain))

	if s.FixedPrefixLength == 8 {
		c.FreeHashMask = 0xff
	}

	var caseConstraints []CaseConstraint
	apply := func(pattern string, base int) error {
		for i, ch := range pattern {
			charIdx := base + i
			digit, alt, isCase, err := charDigit(byte(ch), s.CaseSensitive)
			if err != nil {
				return err
			}
			bitPos := codec.CharBitPos(charIdx)
			if isCase {
				caseConstraints = append(caseConstraints, CaseConstraint{LoBit: bitPos, Alt0: digit, Alt1: alt})
				continue
			}
			setBitsMaskVal(&c.PrefixMask, &c.PrefixVal, bitPos, 6, uint64(digit))
		}
		return nil
	}
	if err := apply(s.Start, startDigitBase); err != nil {
		return nil, fmt.Errorf("%w: start: %v", spec.ErrSpecification, err)
	}
	if err := apply(s.End, endDigitBase); err != nil {
		return nil, fmt.Errorf("%w: end: %v", spec.ErrSpecification, err)
	}

	for _, cc := range caseConstraints {
		if cc.touchesHash0() || cc.touchesCRC() {
			c.CaseVar = append(c.CaseVar, cc)
		} else {
			c.CaseConst = append(c.CaseConst, cc)
		}
	}

	for i := 3; i <= 33; i++ {
		if c.PrefixMask[i] != 0 {
			c.PosNoCRC = append(c.PosNoCRC, i)
		}
	}

	needCRC := c.PrefixMask[34] != 0 || c.PrefixMask[35] != 0
	for _, cc := range c.CaseVar {
		if cc.touchesCRC() {
			needCRC = true
		}
	}
	if s.FixedPrefixLength == 8 {
		// The whole first hash byte is free: a single computed hash can
		// back multiple valid rendered addresses, one per admissible
		// free-byte choice, so always enumerate rather than take the
		// single-value fast path. See DESIGN.md's Open Question note.
		needCRC = true
	}
	c.NeedCRC = needCRC
	c.RequiresRealMatch = s.FixedPrefixLength == 0

	byte2ConstraintsOnly := make([]CaseConstraint, 0, len(c.CaseVar))
	for _, cc := range c.CaseVar {
		if !cc.touchesCRC() {
			byte2ConstraintsOnly = append(byte2ConstraintsOnly, cc)
		}
	}
	for b := 0; b < 256; b++ {
		bb := byte(b)
		if bb&c.PrefixMask[2] != c.PrefixVal[2] {
			continue
		}
		ok := true
		for _, cc := range byte2ConstraintsOnly {
			if !cc.Matches(func(i int) byte {
				if i == 2 {
					return bb
				}
				return c.PrefixVal[i]
			}) {
				ok = false
				break
			}
		}
		if ok {
			c.Hash0Values = append(c.Hash0Values, bb)
		}
	}

	var fixed [34]byte
	fixed[0], fixed[1] = c.Tag, c.Workchain
	c.CRC16DeltaPos2 = crc16.DeltaPos2(fixed)

	if log != nil {
		log.Debugf("compiled constraint table: %s", spew.Sdump(c))
	}

	return c, nil
}

// charDigit maps a single pattern character to its 6-bit base64 digit.
// When the character is a letter and caseSensitive is false, it reports
// both admissible alternatives and isCase=true.
func charDigit(ch byte, caseSensitive bool) (digit, alt uint8, isCase bool, err error) {
	idx := indexInAlphabet(ch)
	if idx < 0 {
		return 0, 0, false, fmt.Errorf("character %q is not part of the address alphabet", ch)
	}
	if caseSensitive {
		return uint8(idx), 0, false, nil
	}
	if other, ok := caseAlternate(ch); ok {
		otherIdx := indexInAlphabet(other)
		return uint8(idx), uint8(otherIdx), true, nil
	}
	return uint8(idx), 0, false, nil
}

func indexInAlphabet(ch byte) int {
	for i := 0; i < len(codec.Alphabet); i++ {
		if codec.Alphabet[i] == ch {
			return i
		}
	}
	return -1
}

func caseAlternate(ch byte) (byte, bool) {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return ch - 'A' + 'a', true
	case ch >= 'a' && ch <= 'z':
		return ch - 'a' + 'A', true
	default:
		return 0, false
	}
}

func validateCharset(pattern string) error {
	for _, ch := range pattern {
		if indexInAlphabet(byte(ch)) < 0 {
			return fmt.Errorf("character %q is not part of the address alphabet", ch)
		}
	}
	return nil
}

// setBitsMaskVal sets nbits bits of value, starting at the MSB-first
// absolute bit position startBit, into mask (forced) and val (their
// required value).
func setBitsMaskVal(mask, val *[codec.ReprLen]byte, startBit, nbits int, value uint64) {
	for i := 0; i < nbits; i++ {
		bit := startBit + i
		byteIdx := bit / 8
		bitInByte := uint(7 - bit%8)
		v := (value >> uint(nbits-1-i)) & 1
		mask[byteIdx] |= 1 << bitInByte
		if v == 1 {
			val[byteIdx] |= 1 << bitInByte
		} else {
			val[byteIdx] &^= 1 << bitInByte
		}
	}
}
