// Package simd provides the portable vector primitives spec §4.4/§4.10/§9
// ask for: splat, saturating add/sub, popcount of a 16-bit bitmask, and
// leading/trailing-zero helpers over 16-byte "lanes" (Lane16, a [16]byte
// processed one byte at a time). SaturatingAdd, SaturatingSub and
// PopCount16 have scalar-loop equivalents in scalar.go, and property
// tests assert that each pair agrees.
//
// No hardware vector instructions are used: `Accelerated` only reports
// ISA support, and the lane helpers below always run in
// pure Go, since Go has no portable vector-intrinsic story outside
// per-arch assembly. See DESIGN.md for why no third-party vector library
// in the retrieval pack covers byte/word lanes.
package simd

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// Lane16 holds sixteen byte lanes, the unit spec §4.4/§4.10 calls a
// "128-bit lane" (16 bytes at a time).
type Lane16 [16]byte

// Splat returns a lane with every byte set to v.
func Splat(v byte) Lane16 {
	var l Lane16
	for i := range l {
		l[i] = v
	}
	return l
}

// SaturatingAdd adds inc to every lane byte, saturating at 255.
func (l Lane16) SaturatingAdd(inc byte) Lane16 {
	var out Lane16
	for i, b := range l {
		sum := uint16(b) + uint16(inc)
		if sum > 255 {
			sum = 255
		}
		out[i] = byte(sum)
	}
	return out
}

// SaturatingSub subtracts dec from every lane byte, saturating at 0 (the
// "was-zero mask" semantics spec §7 requires: a zero byte must stay zero,
// never wrap to 255).
func (l Lane16) SaturatingSub(dec byte) Lane16 {
	var out Lane16
	for i, b := range l {
		if b < dec {
			out[i] = 0
		} else {
			out[i] = b - dec
		}
	}
	return out
}

// GreaterEq returns a lane with 0xFF in every byte position where l[i] >= v
// and 0x00 elsewhere, modelling wasm_u8x16_ge from the source kernels.
func (l Lane16) GreaterEq(v byte) Lane16 {
	var out Lane16
	for i, b := range l {
		if b >= v {
			out[i] = 0xFF
		}
	}
	return out
}

// Blend selects l[i] where mask[i] != 0, else other[i] (byte-level blend,
// spec §4.10 "choose per-pixel... by mask blending").
func (l Lane16) Blend(other, mask Lane16) Lane16 {
	var out Lane16
	for i := range l {
		if mask[i] != 0 {
			out[i] = l[i]
		} else {
			out[i] = other[i]
		}
	}
	return out
}

// And returns the lane-wise bitwise AND of l and other, used to combine
// two 0x00/0xFF masks (e.g. "alive AND survives") before a Blend.
func (l Lane16) And(other Lane16) Lane16 {
	var out Lane16
	for i := range l {
		out[i] = l[i] & other[i]
	}
	return out
}

// Or returns the lane-wise bitwise OR of l and other.
func (l Lane16) Or(other Lane16) Lane16 {
	var out Lane16
	for i := range l {
		out[i] = l[i] | other[i]
	}
	return out
}

// Not returns the lane-wise bitwise complement of l, used to turn an
// "is alive" mask into "is dead" (or any other mask) before combining it
// with And/Or.
func (l Lane16) Not() Lane16 {
	var out Lane16
	for i := range l {
		out[i] = ^l[i]
	}
	return out
}

// Bitmask packs byte i's high bit into bit i of the result (wasm's
// i8x16_bitmask), MSB-of-byte-0 in bit 0.
func (l Lane16) Bitmask() uint16 {
	var m uint16
	for i, b := range l {
		if b&0x80 != 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

// PopCount16 returns the number of set bits in a 16-bit mask — used to
// turn a GreaterEq/Bitmask result into a births/deaths delta (spec §4.2
// "births = popcount(new & ~old)").
func PopCount16(mask uint16) int {
	return bits.OnesCount16(mask)
}

// LeadingZeros16 and TrailingZeros16 back the bounding-box refinement in
// package tile (spec §4.1 "counting leading/trailing zeros inside the
// extremal chunk word").
func LeadingZeros16(w uint16) int  { return bits.LeadingZeros16(w) }
func TrailingZeros16(w uint16) int { return bits.TrailingZeros16(w) }

// Accelerated reports whether the running CPU exposes a vector ISA wide
// enough to make a real hand-written assembly path worthwhile (SSE4.1 or
// better on amd64, ASIMD on arm64). Every kernel in this module has
// exactly one Go implementation that behaves identically regardless of
// this flag — it exists purely so a future assembly path has a detection
// point to hang off, per spec §9's SIMD-portability note.
func Accelerated() bool {
	switch {
	case cpu.X86.HasSSE41:
		return true
	case cpu.ARM64.HasASIMD:
		return true
	default:
		return false
	}
}
