package gribjump

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// ByteReader is a seek/read capability over a file-like GRIB resource.
// The Extractor only ever issues positional reads: it computes an
// absolute offset (msgStartOffset plus a message-relative offset from
// GribInfo), seeks there, and reads a small aligned chunk. No buffering
// semantics are required of implementations.
//
// A ByteReader is owned exclusively for the duration of a single
// extraction call; the seek pointer is mutated and must not be shared
// across concurrent callers unless the implementation serializes
// access itself.
type ByteReader interface {
	// Seek moves to absoluteOffset and returns the new position. Fails
	// with ErrIO if the underlying resource rejects the seek.
	Seek(absoluteOffset int64) (int64, error)

	// Read fills buf[:n] by reading exactly n bytes from the current
	// position, advancing it by n. A short read is an ErrIO, not a
	// partial result.
	Read(buf []byte, n int) (int, error)
}

// FileByteReader is a ByteReader backed by an *os.File.
type FileByteReader struct {
	f   *os.File
	pos int64
}

// NewFileByteReader wraps an already-open file. Seek and Read never
// close f; calling Close on the returned reader does.
func NewFileByteReader(f *os.File) *FileByteReader {
	return &FileByteReader{f: f}
}

// OpenFileByteReader opens name and returns a FileByteReader that owns
// the resulting handle — Close releases it.
func OpenFileByteReader(name string) (*FileByteReader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, wrapIO(err, "open %q", name)
	}
	return &FileByteReader{f: f}, nil
}

func (r *FileByteReader) Seek(absoluteOffset int64) (int64, error) {
	pos, err := r.f.Seek(absoluteOffset, io.SeekStart)
	if err != nil {
		return 0, wrapIO(err, "seek to %d", absoluteOffset)
	}
	r.pos = pos
	return pos, nil
}

func (r *FileByteReader) Read(buf []byte, n int) (int, error) {
	got, err := io.ReadFull(r.f, buf[:n])
	r.pos += int64(got)
	if err != nil {
		return got, wrapIO(err, "read %d bytes at %d", n, r.pos-int64(got))
	}
	return got, nil
}

// Close closes the underlying file handle, whether this reader opened
// it (OpenFileByteReader) or was handed it (NewFileByteReader).
func (r *FileByteReader) Close() error {
	return r.f.Close()
}

// MemoryByteReader is a ByteReader backed by an in-memory byte slice.
// Used heavily in tests, and anywhere a whole message has already been
// buffered (e.g. after HTTPByteReader's range fetch).
type MemoryByteReader struct {
	buf []byte
	pos int64
}

// NewMemoryByteReader wraps buf directly (no copy).
func NewMemoryByteReader(buf []byte) *MemoryByteReader {
	return &MemoryByteReader{buf: buf}
}

func (r *MemoryByteReader) Seek(absoluteOffset int64) (int64, error) {
	if absoluteOffset < 0 || absoluteOffset > int64(len(r.buf)) {
		return 0, wrapIO(fmt.Errorf("offset %d out of bounds (len=%d)", absoluteOffset, len(r.buf)), "seek")
	}
	r.pos = absoluteOffset
	return r.pos, nil
}

func (r *MemoryByteReader) Read(buf []byte, n int) (int, error) {
	if r.pos+int64(n) > int64(len(r.buf)) {
		return 0, wrapIO(fmt.Errorf("read %d bytes at %d overflows buffer (len=%d)", n, r.pos, len(r.buf)), "read")
	}
	copy(buf[:n], r.buf[r.pos:r.pos+int64(n)])
	r.pos += int64(n)
	return n, nil
}

// HTTPByteReader fetches a single message's bytes from a remote object
// over HTTP (e.g. a GRIB2 message sitting in S3) using one ranged GET,
// then serves Seek/Read from the buffered result. Adapted from the
// range-fetch mechanics of a NOAA HRRR client: one Range request for
// the whole message rather than one request per aligned chunk, since
// GribJump's reads are all tiny (<=8 bytes) and re-fetching per read
// would be far slower than buffering once.
type HTTPByteReader struct {
	*MemoryByteReader
}

// NewHTTPByteReader fetches byteStart..byteEnd (inclusive) of url and
// returns a reader over the fetched bytes. byteEnd may be -1 to mean
// "to end of object".
func NewHTTPByteReader(ctx context.Context, client *http.Client, url string, byteStart, byteEnd int64) (*HTTPByteReader, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, wrapIO(err, "build request for %s", url)
	}
	if byteEnd < 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(byteStart, 10)+"-")
	} else {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(byteStart, 10)+"-"+strconv.FormatInt(byteEnd, 10))
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, wrapIO(err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return nil, wrapIO(fmt.Errorf("HTTP %d", resp.StatusCode), "fetch %s", url)
	}

	const maxMessageBytes = 256 << 20 // generous cap on a single GRIB message
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMessageBytes))
	if err != nil {
		return nil, wrapIO(err, "read body of %s", url)
	}

	return &HTTPByteReader{MemoryByteReader: NewMemoryByteReader(body)}, nil
}

// DefaultHTTPTimeout is a client timeout for fetches made with
// NewHTTPByteReader. Nothing in this package or in cmd/gribjump applies
// it automatically.
const DefaultHTTPTimeout = 60 * time.Second
