package simd

import (
	"math/rand"
	"testing"
)

func toLane(b []byte) Lane16 {
	var l Lane16
	copy(l[:], b)
	return l
}

func TestSaturatingAddMatchesScalar(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		cells := make([]byte, 16)
		for i := range cells {
			cells[i] = byte(r.Intn(256))
		}
		inc := byte(r.Intn(256))

		want := ScalarSaturatingAdd(cells, inc)
		got := toLane(cells).SaturatingAdd(inc)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d byte %d: got %d want %d (cells=%v inc=%d)", trial, i, got[i], want[i], cells, inc)
			}
		}
	}
}

func TestSaturatingSubMatchesScalarAndNeverWraps(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for trial := 0; trial < 200; trial++ {
		cells := make([]byte, 16)
		for i := range cells {
			cells[i] = byte(r.Intn(256))
		}
		dec := byte(r.Intn(256))

		want := ScalarSaturatingSub(cells, dec)
		got := toLane(cells).SaturatingSub(dec)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d byte %d: got %d want %d", trial, i, got[i], want[i])
			}
			if cells[i] == 0 && got[i] != 0 {
				t.Fatalf("a zero byte must stay zero, got %d", got[i])
			}
		}
	}
}

func TestPopCount16MatchesScalar(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		mask := uint16(r.Uint32())
		if got, want := PopCount16(mask), ScalarPopCount16(mask); got != want {
			t.Errorf("mask %#04x: got %d want %d", mask, got, want)
		}
	}
}

func TestBitmaskTracksHighBits(t *testing.T) {
	l := Splat(0)
	l[0] = 0x80
	l[15] = 0xFF
	m := l.Bitmask()
	if m&1 == 0 {
		t.Errorf("bit 0 should be set")
	}
	if m&(1<<15) == 0 {
		t.Errorf("bit 15 should be set")
	}
	if PopCount16(m) != 2 {
		t.Errorf("expected exactly 2 bits set, got mask %#04x", m)
	}
}

func TestAndOrNotCombineMasks(t *testing.T) {
	full := Splat(0xFF)
	zero := Splat(0x00)
	mixed := zero
	mixed[5] = 0xFF

	if got := full.And(mixed); got != mixed {
		t.Errorf("full AND mixed should equal mixed, got %v", got)
	}
	if got := zero.Or(mixed); got != mixed {
		t.Errorf("zero OR mixed should equal mixed, got %v", got)
	}
	if got := full.Not(); got != zero {
		t.Errorf("NOT full should equal zero, got %v", got)
	}
	if got := mixed.Not().And(mixed); got != zero {
		t.Errorf("a mask ANDed with its own complement should be zero, got %v", got)
	}
}

func TestBlendSelectsByMask(t *testing.T) {
	a := Splat(1)
	b := Splat(2)
	mask := Splat(0)
	mask[3] = 0xFF

	out := a.Blend(b, mask)
	for i := range out {
		if i == 3 {
			if out[i] != 1 {
				t.Errorf("index 3: got %d want 1", out[i])
			}
		} else if out[i] != 2 {
			t.Errorf("index %d: got %d want 2", i, out[i])
		}
	}
}
