// Package tagfile implements the compressed on-disk container h5dump
// writes for extracted tags.
//
// A tag file is a fixed header followed by a zstd-compressed copy of the
// tag's reconstructed bytes. The header records the identity fields an
// indexing tool needs without decompressing the body: group tag, global
// tag id, asset id, and asset checksum, straight from the module's file
// entry.
package tagfile

import (
	"encoding/binary"
	"fmt"
)

// Magic bytes identifying a tag file.
var Magic = [4]byte{'H', '5', 'T', 'G'}

// HeaderSize is the fixed binary size of a tag-file header.
const HeaderSize = 48

// Header describes the tag stored in a tag file.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	Length           uint64 // uncompressed tag size
	CompressedLength uint64
	GroupTag         [4]byte
	GlobalTagID      int32
	AssetID          int64
	AssetChecksum    int64
}

// Meta carries the identity fields copied from a module file entry into
// a tag-file header.
type Meta struct {
	GroupTag      string
	GlobalTagID   int32
	AssetID       int64
	AssetChecksum int64
}

// Meta returns the header's identity fields.
func (h *Header) Meta() Meta {
	return Meta{
		GroupTag:      trimNul(string(h.GroupTag[:])),
		GlobalTagID:   h.GlobalTagID,
		AssetID:       h.AssetID,
		AssetChecksum: h.AssetChecksum,
	}
}

// Size returns the binary size of the header.
func (h *Header) Size() int {
	return HeaderSize
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %x, got %x", Magic, h.Magic)
	}
	if h.HeaderLength != HeaderSize {
		return fmt.Errorf("invalid header length: expected %d, got %d", HeaderSize, h.HeaderLength)
	}
	if h.Length == 0 {
		return fmt.Errorf("uncompressed size is zero")
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("compressed size is zero")
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
	binary.LittleEndian.PutUint64(buf[16:24], h.CompressedLength)
	copy(buf[24:28], h.GroupTag[:])
	binary.LittleEndian.PutUint32(buf[28:32], uint32(h.GlobalTagID))
	binary.LittleEndian.PutUint64(buf[32:40], uint64(h.AssetID))
	binary.LittleEndian.PutUint64(buf[40:48], uint64(h.AssetChecksum))
}

// UnmarshalBinary decodes the header from binary format and validates it.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	h.Length = binary.LittleEndian.Uint64(data[8:16])
	h.CompressedLength = binary.LittleEndian.Uint64(data[16:24])
	copy(h.GroupTag[:], data[24:28])
	h.GlobalTagID = int32(binary.LittleEndian.Uint32(data[28:32]))
	h.AssetID = int64(binary.LittleEndian.Uint64(data[32:40]))
	h.AssetChecksum = int64(binary.LittleEndian.Uint64(data[40:48]))
}

// NewHeader creates a tag-file header for the given tag identity and
// uncompressed size. The compressed length is filled in by the writer.
func NewHeader(meta Meta, uncompressedSize uint64) *Header {
	h := &Header{
		Magic:         Magic,
		HeaderLength:  HeaderSize,
		Length:        uncompressedSize,
		GlobalTagID:   meta.GlobalTagID,
		AssetID:       meta.AssetID,
		AssetChecksum: meta.AssetChecksum,
	}
	copy(h.GroupTag[:], meta.GroupTag)
	return h
}

func trimNul(s string) string {
	for len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	return s
}
