package gribjump

import "testing"

func TestBitmapScannerSingleByte(t *testing.T) {
	// 0b10110000 = 0xB0: bits 0,2,3 set -> points 0,2,3 present.
	buf := make([]byte, bitmapWordBytes)
	buf[0] = 0xB0
	r := NewMemoryByteReader(buf)
	var s BitmapScanner

	cases := []struct {
		i        int64
		missing  bool
		wantSlot int64
	}{
		{0, false, 0},
		{1, true, 0},
		{2, false, 1},
		{3, false, 2},
		{4, true, 0},
	}
	for _, c := range cases {
		got, err := s.scanOne(r, 0, c.i)
		if err != nil {
			t.Fatalf("scanOne(%d): %v", c.i, err)
		}
		if got.missing != c.missing {
			t.Errorf("scanOne(%d).missing = %v, want %v", c.i, got.missing, c.missing)
		}
		if !got.missing && got.slot != c.wantSlot {
			t.Errorf("scanOne(%d).slot = %d, want %d", c.i, got.slot, c.wantSlot)
		}
	}
}

func TestBitmapScannerRangeMatchesPerIndex(t *testing.T) {
	buf := make([]byte, bitmapWordBytes)
	buf[0] = 0xB0 // points 0,2,3 present (within first byte of the word)
	r := NewMemoryByteReader(buf)
	var s BitmapScanner

	rangeResults, err := s.scanRange(r, 0, 0, 8)
	if err != nil {
		t.Fatalf("scanRange: %v", err)
	}
	for i := int64(0); i < 8; i++ {
		single, err := s.scanOne(r, 0, i)
		if err != nil {
			t.Fatalf("scanOne(%d): %v", i, err)
		}
		if rangeResults[i] != single {
			t.Errorf("index %d: range gave %+v, per-index gave %+v", i, rangeResults[i], single)
		}
	}
}

func TestBitmapScannerCrossesWordBoundary(t *testing.T) {
	// Two 64-bit words. Word 0 all zero bits (all missing). Word 1's
	// first byte is 0xFF (points 64..71 present). Point 70 should
	// resolve to slot 6 (7th present point, 0-indexed).
	buf := make([]byte, 2*bitmapWordBytes)
	buf[bitmapWordBytes] = 0xFF
	r := NewMemoryByteReader(buf)
	var s BitmapScanner

	got, err := s.scanOne(r, 0, 70)
	if err != nil {
		t.Fatalf("scanOne(70): %v", err)
	}
	if got.missing {
		t.Fatal("scanOne(70): got missing, want present")
	}
	if got.slot != 6 {
		t.Errorf("scanOne(70).slot = %d, want 6", got.slot)
	}
}

func TestBitmapScannerLastPresentEqualsNumberOfValuesMinusOne(t *testing.T) {
	// Bitmap consistency property from spec.md §8: the physical slot for
	// the last present index equals numberOfValues-1.
	buf := make([]byte, bitmapWordBytes)
	buf[0] = 0b10110000 // 3 set bits: positions 0,2,3
	r := NewMemoryByteReader(buf)
	var s BitmapScanner

	got, err := s.scanOne(r, 0, 3)
	if err != nil {
		t.Fatalf("scanOne(3): %v", err)
	}
	if got.missing {
		t.Fatal("scanOne(3): expected present")
	}
	const numberOfValues = 3
	if got.slot != numberOfValues-1 {
		t.Errorf("slot for last present index = %d, want %d", got.slot, numberOfValues-1)
	}
}

func TestBitmapScannerEmptyRangeIsInvalidArgument(t *testing.T) {
	buf := make([]byte, bitmapWordBytes)
	r := NewMemoryByteReader(buf)
	var s BitmapScanner
	if _, err := s.scanRange(r, 0, 5, 5); err == nil {
		t.Fatal("scanRange with start==end: expected error, got nil")
	}
}

// FuzzBitmapScannerNeverPanics checks that scanRange never panics
// regardless of bitmap contents or range bounds, following the
// teacher's fuzz-test pattern of a seed corpus plus a no-panic
// assertion.
func FuzzBitmapScannerNeverPanics(f *testing.F) {
	f.Add([]byte{0xB0, 0x00, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00}, int64(0), int64(8))
	f.Add([]byte{}, int64(0), int64(1))
	f.Add(make([]byte, 16), int64(5), int64(70))

	f.Fuzz(func(t *testing.T, buf []byte, start, end int64) {
		if start < 0 || end < 0 || start >= end || end-start > 10000 {
			return
		}
		r := NewMemoryByteReader(buf)
		var s BitmapScanner
		_, _ = s.scanRange(r, 0, start, end)
	})
}
