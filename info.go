package gribjump

import "math"

// currentInfoVersion is the schema version written by this package.
// FromJSON/FromJSONFile and ReadMetaFile reject anything else.
const currentInfoVersion uint32 = 1

// HeaderSource is the opaque "header reader" collaborator spec.md §1
// treats as external: something that has already parsed a GRIB
// message's header and can answer the ten raw questions GribInfo
// needs. A real deployment backs this with a GRIB library binding;
// harvest.go's sectionHeaderSource backs it with this repo's own
// section-5/6 walk for tests and the CLI's extract command.
type HeaderSource interface {
	BinaryScaleFactor() (int64, error)
	DecimalScaleFactor() (int64, error)
	BitsPerValue() (uint64, error)
	ReferenceValue() (float64, error)
	OffsetBeforeData() (uint64, error)
	BitmapPresent() (bool, error)
	OffsetBeforeBitmap() (uint64, error)
	NumberOfDataPoints() (uint64, error)
	NumberOfValues() (uint64, error)
	SphericalHarmonics() (int64, error)
}

// GribInfo is the persisted, immutable-after-harvest metadata record
// for one GRIB message. See spec.md §3 for the field semantics and
// invariants.
type GribInfo struct {
	Version uint32

	ReferenceValue      float64
	BinaryScaleFactor   int64
	DecimalScaleFactor  int64
	BitsPerValue        uint64
	OffsetBeforeData    uint64
	OffsetBeforeBitmap  uint64
	NumberOfDataPoints  uint64
	NumberOfValues      uint64
	SphericalHarmonics  int64
	MsgStartOffset      uint64
	TotalLength         uint64

	BinaryMultiplier  float64
	DecimalMultiplier float64
}

// NewGribInfo returns an empty record in the Empty state (spec.md
// §4.5.3): Update or FromJSONFile must run before it can be harvested.
func NewGribInfo() *GribInfo {
	return &GribInfo{
		Version:           currentInfoVersion,
		BinaryMultiplier:  1,
		DecimalMultiplier: 1,
	}
}

// Update pulls the raw fields from h and computes the derived
// multipliers, transitioning GribInfo from Empty to Harvested.
func (g *GribInfo) Update(h HeaderSource) error {
	var err error
	if g.BinaryScaleFactor, err = h.BinaryScaleFactor(); err != nil {
		return wrapIO(err, "read binaryScaleFactor")
	}
	if g.DecimalScaleFactor, err = h.DecimalScaleFactor(); err != nil {
		return wrapIO(err, "read decimalScaleFactor")
	}
	if g.BitsPerValue, err = h.BitsPerValue(); err != nil {
		return wrapIO(err, "read bitsPerValue")
	}
	if g.ReferenceValue, err = h.ReferenceValue(); err != nil {
		return wrapIO(err, "read referenceValue")
	}
	if g.OffsetBeforeData, err = h.OffsetBeforeData(); err != nil {
		return wrapIO(err, "read offsetBeforeData")
	}
	if g.NumberOfDataPoints, err = h.NumberOfDataPoints(); err != nil {
		return wrapIO(err, "read numberOfDataPoints")
	}
	if g.NumberOfValues, err = h.NumberOfValues(); err != nil {
		return wrapIO(err, "read numberOfValues")
	}
	if g.SphericalHarmonics, err = h.SphericalHarmonics(); err != nil {
		return wrapIO(err, "read sphericalHarmonics")
	}

	bitmapPresent, err := h.BitmapPresent()
	if err != nil {
		return wrapIO(err, "read bitmapPresent")
	}
	if bitmapPresent {
		if g.OffsetBeforeBitmap, err = h.OffsetBeforeBitmap(); err != nil {
			return wrapIO(err, "read offsetBeforeBitmap")
		}
	} else {
		g.OffsetBeforeBitmap = 0
	}

	g.Version = currentInfoVersion
	g.BinaryMultiplier = math.Ldexp(1, int(g.BinaryScaleFactor))
	g.DecimalMultiplier = math.Pow(10, -float64(g.DecimalScaleFactor))

	return g.validate()
}

// validate checks the invariants of spec.md §3 against the current
// field values. Called at the end of Update, FromJSON and ReadMetaFile so
// a malformed harvest or a tampered persisted record is caught at the
// boundary rather than surfacing as a confusing CorruptMessage later.
func (g *GribInfo) validate() error {
	if g.NumberOfValues > g.NumberOfDataPoints {
		return parsef("numberOfValues (%d) exceeds numberOfDataPoints (%d)", g.NumberOfValues, g.NumberOfDataPoints)
	}
	hasBitmap := g.OffsetBeforeBitmap != 0
	allPresent := g.NumberOfValues == g.NumberOfDataPoints
	if hasBitmap == allPresent {
		// offsetBeforeBitmap==0 must coincide with numberOfValues==numberOfDataPoints
		return parsef("offsetBeforeBitmap=%d inconsistent with numberOfValues=%d, numberOfDataPoints=%d",
			g.OffsetBeforeBitmap, g.NumberOfValues, g.NumberOfDataPoints)
	}
	return nil
}

// Ready reports whether this record has been successfully harvested.
func (g *GribInfo) Ready() bool {
	return g.NumberOfValues > 0
}

// IsExtractable reports whether Extractor operations are defined for
// this record: harvested, and not a spherical-harmonics field (out of
// scope per spec.md §1).
func (g *GribInfo) IsExtractable() bool {
	return g.Ready() && g.SphericalHarmonics == 0
}

// HasBitmap reports whether a presence bitmap accompanies this
// message's data section.
func (g *GribInfo) HasBitmap() bool {
	return g.OffsetBeforeBitmap != 0
}
