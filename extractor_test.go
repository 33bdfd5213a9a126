package gribjump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packBitsMSB packs each value in values using its corresponding width
// in widths, MSB-first and contiguous, the same layout BitDecoder
// reads back. Used to build synthetic packed-data sections for tests.
func packBitsMSB(values []uint64, widths []int) []byte {
	totalBits := 0
	for _, w := range widths {
		totalBits += w
	}
	buf := make([]byte, (totalBits+7)/8)
	bitPos := 0
	for vi, v := range values {
		w := widths[vi]
		for b := w - 1; b >= 0; b-- {
			bit := (v >> uint(b)) & 1
			if bit != 0 {
				buf[bitPos/8] |= 1 << uint(7-bitPos%8)
			}
			bitPos++
		}
	}
	return buf
}

// explodingByteReader fails any Seek/Read call, used to assert that a
// code path performs zero I/O.
type explodingByteReader struct{}

func (explodingByteReader) Seek(int64) (int64, error) { panic("unexpected Seek") }
func (explodingByteReader) Read([]byte, int) (int, error) { panic("unexpected Read") }

func TestExtractorConstantFieldNoIO(t *testing.T) {
	info := &GribInfo{
		BitsPerValue:       0,
		ReferenceValue:     42.5,
		NumberOfDataPoints: 100,
		NumberOfValues:     100,
		BinaryMultiplier:   1,
		DecimalMultiplier:  1,
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)

	values, err := ex.ValuesInRanges(explodingByteReader{}, []Range{{Start: 0, End: 100}})
	require.NoError(t, err)
	assert.Len(t, values, 100)
	for _, v := range values {
		assert.Equal(t, 42.5, v)
	}
}

func TestExtractorNoBitmap8Bit(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50}
	info := &GribInfo{
		BitsPerValue:       8,
		ReferenceValue:     0,
		OffsetBeforeData:   0,
		NumberOfDataPoints: 5,
		NumberOfValues:     5,
		BinaryMultiplier:   1,
		DecimalMultiplier:  1,
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)
	r := NewMemoryByteReader(data)

	for i, want := range []float64{10, 20, 30, 40, 50} {
		v, err := ex.ValueAt(r, int64(i))
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestExtractor12BitPacking(t *testing.T) {
	raw := []uint64{0, 1, 2047, 1000, 4095}
	widths := make([]int, len(raw))
	for i := range widths {
		widths[i] = 12
	}
	data := packBitsMSB(raw, widths)

	info := &GribInfo{
		BitsPerValue:       12,
		ReferenceValue:     0,
		OffsetBeforeData:   0,
		NumberOfDataPoints: uint64(len(raw)),
		NumberOfValues:     uint64(len(raw)),
		BinaryMultiplier:   1,
		DecimalMultiplier:  1,
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)
	r := NewMemoryByteReader(data)

	values, err := ex.ValuesInRanges(r, []Range{{Start: 0, End: int64(len(raw))}})
	require.NoError(t, err)
	for i, want := range raw {
		assert.Equal(t, float64(want), values[i])
	}
}

func TestExtractorBitmapWithMissingPoints(t *testing.T) {
	// Bitmap 0xB0: points 0,2,3 present out of 5 grid points (4 is missing too).
	bitmap := make([]byte, bitmapWordBytes)
	bitmap[0] = 0xB0

	// 3 present values packed 8-bit at the start of the buffer, with the
	// bitmap word right after them (offsetBeforeBitmap==0 means "no bitmap").
	packed := []byte{11, 22, 33}
	dataOffset := int64(0)
	bitmapOffset := int64(len(packed))

	buf := append(append([]byte{}, packed...), bitmap...)

	info := &GribInfo{
		BitsPerValue:       8,
		ReferenceValue:     0,
		OffsetBeforeData:   uint64(dataOffset),
		OffsetBeforeBitmap: uint64(bitmapOffset),
		NumberOfDataPoints: 5,
		NumberOfValues:     3,
		BinaryMultiplier:   1,
		DecimalMultiplier:  1,
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)
	r := NewMemoryByteReader(buf)

	values, err := ex.ValuesInRanges(r, []Range{{Start: 0, End: 5}})
	require.NoError(t, err)
	want := []float64{11, MissingValue, 22, 33, MissingValue}
	assert.Equal(t, want, values)
}

func TestExtractorScalingFormula(t *testing.T) {
	// Literal scenario from spec.md §8: E=3, R=5, D=-2, p=10 ->
	// v = ((10*8)+5)*100 = 8500.
	data := []byte{10}
	info := &GribInfo{
		BitsPerValue:       8,
		ReferenceValue:     5,
		BinaryScaleFactor:  3,
		DecimalScaleFactor: -2,
		NumberOfDataPoints: 1,
		NumberOfValues:     1,
		BinaryMultiplier:   8,   // 2^3
		DecimalMultiplier:  100, // 10^-(-2)
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)
	r := NewMemoryByteReader(data)

	v, err := ex.ValueAt(r, 0)
	require.NoError(t, err)
	assert.Equal(t, 8500.0, v)
}

func TestExtractorSphericalHarmonicsUnsupported(t *testing.T) {
	info := &GribInfo{
		NumberOfValues:     10,
		NumberOfDataPoints: 10,
		SphericalHarmonics: 1,
	}
	_, err := NewExtractor(info)
	require.Error(t, err)
}

func TestExtractorRangeEqualsPerIndex(t *testing.T) {
	raw := make([]uint64, 20)
	widths := make([]int, 20)
	for i := range raw {
		raw[i] = uint64(i * 7 % 1024)
		widths[i] = 10
	}
	data := packBitsMSB(raw, widths)
	info := &GribInfo{
		BitsPerValue:       10,
		NumberOfDataPoints: 20,
		NumberOfValues:     20,
		BinaryMultiplier:   1,
		DecimalMultiplier:  1,
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)
	r := NewMemoryByteReader(data)

	ranged, err := ex.ValuesInRanges(r, []Range{{Start: 0, End: 20}})
	require.NoError(t, err)
	for i := int64(0); i < 20; i++ {
		single, err := ex.ValueAt(r, i)
		require.NoError(t, err)
		assert.Equal(t, single, ranged[i])
	}
}

func TestExtractorConcatenatesMultipleRanges(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	info := &GribInfo{
		BitsPerValue:       8,
		NumberOfDataPoints: 8,
		NumberOfValues:     8,
		BinaryMultiplier:   1,
		DecimalMultiplier:  1,
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)
	r := NewMemoryByteReader(data)

	values, err := ex.ValuesInRanges(r, []Range{{Start: 0, End: 2}, {Start: 5, End: 8}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 6, 7, 8}, values)
}

func TestExtractorRejectsSlotBeyondNumberOfValues(t *testing.T) {
	// A corrupt bitmap/numberOfValues pair: no bitmap, so resolution is
	// the identity mapping, but numberOfValues understates the data
	// points, so index 4 (like any index >= 3) resolves to a slot the DRS
	// never packed data for. spec.md §4.5.1/§7: this must fail as CorruptMessage, not
	// silently decode bytes past the declared data section.
	data := []byte{1, 2, 3, 4, 5}
	info := &GribInfo{
		BitsPerValue:       8,
		NumberOfDataPoints: 5,
		NumberOfValues:     3,
		BinaryMultiplier:   1,
		DecimalMultiplier:  1,
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)
	r := NewMemoryByteReader(data)

	_, err = ex.ValueAt(r, 4)
	require.Error(t, err)
}

func TestExtractorInvalidRangeRejected(t *testing.T) {
	info := &GribInfo{
		BitsPerValue:       8,
		NumberOfDataPoints: 8,
		NumberOfValues:     8,
		BinaryMultiplier:   1,
		DecimalMultiplier:  1,
	}
	ex, err := NewExtractor(info)
	require.NoError(t, err)
	r := NewMemoryByteReader(make([]byte, 8))

	_, err = ex.ValuesInRanges(r, []Range{{Start: 6, End: 20}})
	require.Error(t, err)
}
