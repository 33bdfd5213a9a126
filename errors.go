package gribjump

import (
	"github.com/cockroachdb/errors"
)

// Sentinel error kinds. Callers distinguish them with errors.Is; every
// error GribJump returns unwraps to exactly one of these.
var (
	// ErrIO marks a failure of the underlying ByteReader (short read,
	// rejected seek, network failure for a remote reader).
	ErrIO = errors.New("gribjump: i/o error")

	// ErrInvalidArgument marks a caller mistake: an out-of-range index,
	// an empty ranges slice, a malformed range pair.
	ErrInvalidArgument = errors.New("gribjump: invalid argument")

	// ErrUnsupported marks a field this package cannot extract:
	// spherical harmonics, or a packing scheme other than simple
	// bit-packed grid-point (DRS template 5.0).
	ErrUnsupported = errors.New("gribjump: unsupported field")

	// ErrCorruptMessage marks an internal invariant violated after
	// harvest — e.g. a bitmap scan producing a slot beyond
	// numberOfValues. Never silently recovered.
	ErrCorruptMessage = errors.New("gribjump: corrupt message")

	// ErrParse marks a malformed persisted metadata record (JSON or
	// binary). Only ever raised by the loaders, never by extraction.
	ErrParse = errors.New("gribjump: parse error")
)

// wrapIO wraps err (if non-nil) as an ErrIO with the given context,
// preserving err's own message and stack while making errors.Is(result,
// ErrIO) succeed.
func wrapIO(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrIO)
}

func invalidArgf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func unsupportedf(format string, args ...any) error {
	return errors.Wrapf(ErrUnsupported, format, args...)
}

func corruptf(format string, args ...any) error {
	return errors.Wrapf(ErrCorruptMessage, format, args...)
}

func parsef(format string, args ...any) error {
	return errors.Wrapf(ErrParse, format, args...)
}
