package gribjump

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/Basekick-Labs/msgpack/v6"
)

// Persisted binary metadata file layout (spec.md §6 leaves the exact
// on-disk format an open question; this is this repo's answer):
//
//	uint32 version (big-endian, == currentInfoVersion)
//	uint32 count   (big-endian, number of records)
//	count * {
//	    uint32 recordLength (big-endian)
//	    recordLength bytes of msgpack-encoded metaRecord
//	}
//
// One file holds the harvested GribInfo for every message of a GRIB
// file, indexed by message position.

type metaRecord struct {
	ReferenceValue      float64 `msgpack:"referenceValue"`
	BinaryScaleFactor   int64   `msgpack:"binaryScaleFactor"`
	DecimalScaleFactor  int64   `msgpack:"decimalScaleFactor"`
	BitsPerValue        uint64  `msgpack:"bitsPerValue"`
	OffsetBeforeData    uint64  `msgpack:"offsetBeforeData"`
	OffsetBeforeBitmap  uint64  `msgpack:"offsetBeforeBitmap"`
	NumberOfDataPoints  uint64  `msgpack:"numberOfDataPoints"`
	NumberOfValues      uint64  `msgpack:"numberOfValues"`
	SphericalHarmonics  int64   `msgpack:"sphericalHarmonics"`
	MsgStartOffset      uint64  `msgpack:"msgStartOffset"`
	TotalLength         uint64  `msgpack:"totalLength"`
	BinaryMultiplier    float64 `msgpack:"binaryMultiplier"`
	DecimalMultiplier   float64 `msgpack:"decimalMultiplier"`
}

func (g *GribInfo) toRecord() metaRecord {
	return metaRecord{
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

func gribInfoFromRecord(rec metaRecord) *GribInfo {
	return &GribInfo{
		Version:            currentInfoVersion,
		ReferenceValue:     rec.ReferenceValue,
		BinaryScaleFactor:  rec.BinaryScaleFactor,
		DecimalScaleFactor: rec.DecimalScaleFactor,
		BitsPerValue:       rec.BitsPerValue,
		OffsetBeforeData:   rec.OffsetBeforeData,
		OffsetBeforeBitmap: rec.OffsetBeforeBitmap,
		NumberOfDataPoints: rec.NumberOfDataPoints,
		NumberOfValues:     rec.NumberOfValues,
		SphericalHarmonics: rec.SphericalHarmonics,
		MsgStartOffset:     rec.MsgStartOffset,
		TotalLength:        rec.TotalLength,
		BinaryMultiplier:   rec.BinaryMultiplier,
		DecimalMultiplier:  rec.DecimalMultiplier,
	}
}

// WriteMetaFile persists infos, in order, to path in the binary layout
// described above.
func WriteMetaFile(path string, infos []*GribInfo) error {
	f, err := os.Create(path)
	if err != nil {
		return wrapIO(err, "create metadata file %q", path)
	}
	defer f.Close()

	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], currentInfoVersion)
	binary.BigEndian.PutUint32(header[4:8], uint32(len(infos)))
	if _, err := f.Write(header[:]); err != nil {
		return wrapIO(err, "write metadata header %q", path)
	}

	for i, info := range infos {
		encoded, err := msgpack.Marshal(info.toRecord())
		if err != nil {
			return parsef("encode metadata record %d: %v", i, err)
		}
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(encoded)))
		if _, err := f.Write(lenBuf[:]); err != nil {
			return wrapIO(err, "write metadata record %d length", i)
		}
		if _, err := f.Write(encoded); err != nil {
			return wrapIO(err, "write metadata record %d", i)
		}
	}
	return nil
}

// ReadMetaFile loads every GribInfo record previously written by
// WriteMetaFile, in order.
func ReadMetaFile(path string) ([]*GribInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIO(err, "open metadata file %q", path)
	}
	defer f.Close()

	var header [8]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return nil, wrapIO(err, "read metadata header %q", path)
	}
	version := binary.BigEndian.Uint32(header[0:4])
	if version != currentInfoVersion {
		return nil, parsef("metadata file %q has version %d, expected %d", path, version, currentInfoVersion)
	}
	count := binary.BigEndian.Uint32(header[4:8])

	infos := make([]*GribInfo, 0, count)
	for i := uint32(0); i < count; i++ {
		var lenBuf [4]byte
		if _, err := io.ReadFull(f, lenBuf[:]); err != nil {
			return nil, wrapIO(err, "read metadata record %d length", i)
		}
		recLen := binary.BigEndian.Uint32(lenBuf[:])
		buf := make([]byte, recLen)
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, wrapIO(err, "read metadata record %d", i)
		}
		var rec metaRecord
		if err := msgpack.Unmarshal(buf, &rec); err != nil {
			return nil, parsef("decode metadata record %d: %v", i, err)
		}
		info := gribInfoFromRecord(rec)
		if err := info.validate(); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
