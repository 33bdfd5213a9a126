package gribjump

import (
	"encoding/json"
	"os"
)

// gribInfoJSON is the wire shape of GribInfo's JSON form. Floats are
// tagged with no special encoding hint: encoding/json already emits
// float64 with enough digits to round-trip exactly (Go's strconv
// shortest-repr algorithm), which satisfies spec.md §8's "round trip
// at >=15 significant digits" property without a custom MarshalJSON.
type gribInfoJSON struct {
	Version uint32 `json:"version"`

	ReferenceValue     float64 `json:"referenceValue"`
	BinaryScaleFactor  int64   `json:"binaryScaleFactor"`
	DecimalScaleFactor int64   `json:"decimalScaleFactor"`
	BitsPerValue       uint64  `json:"bitsPerValue"`
	OffsetBeforeData   uint64  `json:"offsetBeforeData"`
	OffsetBeforeBitmap uint64  `json:"offsetBeforeBitmap"`
	NumberOfDataPoints uint64  `json:"numberOfDataPoints"`
	NumberOfValues     uint64  `json:"numberOfValues"`
	SphericalHarmonics int64   `json:"sphericalHarmonics"`
	MsgStartOffset     uint64  `json:"msgStartOffset"`
	TotalLength        uint64  `json:"totalLength"`

	BinaryMultiplier  float64 `json:"binaryMultiplier"`
	DecimalMultiplier float64 `json:"decimalMultiplier"`
}

func (g *GribInfo) toWire() gribInfoJSON {
	return gribInfoJSON{
		Version:            g.Version,
		ReferenceValue:     g.ReferenceValue,
		BinaryScaleFactor:  g.BinaryScaleFactor,
		DecimalScaleFactor: g.DecimalScaleFactor,
		BitsPerValue:       g.BitsPerValue,
		OffsetBeforeData:   g.OffsetBeforeData,
		OffsetBeforeBitmap: g.OffsetBeforeBitmap,
		NumberOfDataPoints: g.NumberOfDataPoints,
		NumberOfValues:     g.NumberOfValues,
		SphericalHarmonics: g.SphericalHarmonics,
		MsgStartOffset:     g.MsgStartOffset,
		TotalLength:        g.TotalLength,
		BinaryMultiplier:   g.BinaryMultiplier,
		DecimalMultiplier:  g.DecimalMultiplier,
	}
}

func (g *GribInfo) fromWire(w gribInfoJSON) {
	g.Version = w.Version
	g.ReferenceValue = w.ReferenceValue
	g.BinaryScaleFactor = w.BinaryScaleFactor
	g.DecimalScaleFactor = w.DecimalScaleFactor
	g.BitsPerValue = w.BitsPerValue
	g.OffsetBeforeData = w.OffsetBeforeData
	g.OffsetBeforeBitmap = w.OffsetBeforeBitmap
	g.NumberOfDataPoints = w.NumberOfDataPoints
	g.NumberOfValues = w.NumberOfValues
	g.SphericalHarmonics = w.SphericalHarmonics
	g.MsgStartOffset = w.MsgStartOffset
	g.TotalLength = w.TotalLength
	g.BinaryMultiplier = w.BinaryMultiplier
	g.DecimalMultiplier = w.DecimalMultiplier
}

// ToJSON renders this record as indented JSON.
func (g *GribInfo) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(g.toWire(), "", "  ")
	if err != nil {
		return nil, parsef("marshal GribInfo: %v", err)
	}
	return b, nil
}

// FromJSON populates g from previously-serialized JSON and re-checks
// the invariants, since the bytes may have come from an untrusted or
// hand-edited file.
func (g *GribInfo) FromJSON(data []byte) error {
	var w gribInfoJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return parsef("unmarshal GribInfo: %v", err)
	}
	if w.Version != currentInfoVersion {
		return parsef("GribInfo JSON version %d, expected %d", w.Version, currentInfoVersion)
	}
	g.fromWire(w)
	return g.validate()
}

// FromJSONFile loads a GribInfo previously written by ToJSON, the
// second path (besides Update) by which a record may reach the
// Harvested state (spec.md §4.5.3).
func (g *GribInfo) FromJSONFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return wrapIO(err, "read GribInfo JSON file %q", path)
	}
	return g.FromJSON(data)
}

// WriteJSONFile persists this record as JSON at path.
func (g *GribInfo) WriteJSONFile(path string) error {
	data, err := g.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrapIO(err, "write GribInfo JSON file %q", path)
	}
	return nil
}
