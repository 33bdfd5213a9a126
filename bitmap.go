package gribjump

import (
	"encoding/binary"
	"math/bits"
)

// slotResult is the tagged outcome of resolving one logical index
// against the bitmap: either the point is missing, or it occupies
// physical slot Slot within the packed data section. Spec.md §9
// requires this tagged form specifically to avoid the source bug of
// aliasing "missing" with the maximum unsigned value.
type slotResult struct {
	missing bool
	slot    int64
}

// BitmapScanner resolves logical point indices to physical slots
// within the packed data section, using a presence bitmap. When no
// bitmap is present the map is the identity (slot == index) and no I/O
// is performed — see Extractor, which only calls into BitmapScanner
// when GribInfo reports a bitmap offset.
//
// GRIB2 bitmaps are MSB-first: bit 0 (the top bit of byte 0) is grid
// point 0, bit 1 is grid point 1, and so on — the same convention the
// teacher's bitmapBit/countSetBits helpers used for the full-grid
// expansion this scanner replaces with slot resolution.
type BitmapScanner struct{}

const bitmapWordBytes = 8
const bitmapWordBits = bitmapWordBytes * 8

// scanOne resolves a single logical index. absBitmapOffset is the
// resource-absolute byte offset of the bitmap's first byte (already
// msgStartOffset-adjusted by the caller).
func (s BitmapScanner) scanOne(r ByteReader, absBitmapOffset int64, index int64) (slotResult, error) {
	results, err := s.scanRange(r, absBitmapOffset, index, index+1)
	if err != nil {
		return slotResult{}, err
	}
	return results[0], nil
}

// scanRange resolves every logical index in [start, end) against the
// bitmap in a single forward pass, carrying a running popcount across
// the whole span rather than re-seeking and rescanning from the start
// of the bitmap per index — the known-buggy quadratic behaviour spec.md
// §9 explicitly rejects.
//
// Algorithm (spec.md §4.3): the bitmap is a contiguous MSB-first bit
// stream. Read it in 8-byte big-endian words. For every whole word
// before the one containing the bit of interest, add its popcount to a
// running total. For the word containing the bit, mask to keep bits
// [0, i mod 64] inclusive, popcount that, and look at the bit itself to
// decide missing/present; the slot is (running total - 1) when
// present.
func (BitmapScanner) scanRange(r ByteReader, absBitmapOffset int64, start, end int64) ([]slotResult, error) {
	if start >= end {
		return nil, invalidArgf("bitmap scan: empty or inverted range [%d,%d)", start, end)
	}

	results := make([]slotResult, 0, end-start)

	var word [bitmapWordBytes]byte
	wordIdx := int64(-1) // index of the word currently loaded into `word`
	var count int64      // popcount of all bits strictly before the current word

	loadWord := func(idx int64) error {
		if _, err := r.Seek(absBitmapOffset + idx*bitmapWordBytes); err != nil {
			return err
		}
		if _, err := r.Read(word[:], bitmapWordBytes); err != nil {
			return err
		}
		return nil
	}

	for i := start; i < end; i++ {
		targetWord := i / bitmapWordBits
		bitInWord := uint(i % bitmapWordBits)

		for wordIdx < targetWord {
			if wordIdx >= 0 {
				count += int64(bits.OnesCount64(binary.BigEndian.Uint64(word[:])))
			}
			wordIdx++
			if err := loadWord(wordIdx); err != nil {
				return nil, err
			}
		}

		n := binary.BigEndian.Uint64(word[:])
		// Keep bits [0, bitInWord] inclusive (MSB-first: bit 0 is the
		// top bit of the word), i.e. the top bitInWord+1 bits.
		shift := bitmapWordBits - 1 - int(bitInWord)
		masked := n >> uint(shift)
		prefixCount := count + int64(bits.OnesCount64(masked))

		if masked&1 != 0 {
			results = append(results, slotResult{missing: false, slot: prefixCount - 1})
		} else {
			results = append(results, slotResult{missing: true})
		}
	}

	return results, nil
}
