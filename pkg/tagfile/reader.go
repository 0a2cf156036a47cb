package tagfile

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

const (
	// DefaultCompressionLevel is the default zstd level for encoding.
	// Dumped tags are written once and rarely reread, so favor speed.
	DefaultCompressionLevel = zstd.BestSpeed
)

// Reader wraps an io.ReadSeeker to provide decompression of tag-file
// data.
type Reader struct {
	header    *Header
	zReader   io.ReadCloser
	headerBuf [HeaderSize]byte
}

// NewReader creates a tag-file reader from the given source. It reads
// and validates the header, then returns a reader for the decompressed
// tag bytes.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	reader := &Reader{
		header: &Header{},
	}

	if _, err := io.ReadFull(r, reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if err := reader.header.UnmarshalBinary(reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	reader.zReader = zstd.NewReader(r)
	return reader, nil
}

// Header returns the tag-file header.
func (r *Reader) Header() *Header {
	return r.header
}

// Read reads decompressed tag data into p.
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.zReader.Read(p)
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// Length returns the uncompressed tag length.
func (r *Reader) Length() int {
	return int(r.header.Length)
}

// ReadAll reads a whole tag file, returning its header and the exact
// decompressed tag bytes.
func ReadAll(r io.ReadSeeker) (*Header, []byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()

	data := make([]byte, reader.Length())
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, nil, fmt.Errorf("read content: %w", err)
	}

	return reader.Header(), data, nil
}
