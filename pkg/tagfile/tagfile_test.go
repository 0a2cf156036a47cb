package tagfile

import (
	"bytes"
	"testing"
)

func TestHeader(t *testing.T) {
	t.Run("MarshalUnmarshal", func(t *testing.T) {
		original := &Header{
			Magic:            Magic,
			HeaderLength:     HeaderSize,
			Length:           4096,
			CompressedLength: 1024,
			GroupTag:         [4]byte{'b', 'i', 't', 'm'},
			GlobalTagID:      0x1234,
			AssetID:          -9000,
			AssetChecksum:    77,
		}

		data, err := original.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		decoded := &Header{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if *decoded != *original {
			t.Errorf("mismatch: got %+v, want %+v", decoded, original)
		}
		if got := decoded.Meta().GroupTag; got != "bitm" {
			t.Errorf("group tag: got %q, want %q", got, "bitm")
		}
	})

	t.Run("InvalidMagic", func(t *testing.T) {
		h := &Header{
			HeaderLength:     HeaderSize,
			Length:           1024,
			CompressedLength: 512,
		}
		if err := h.Validate(); err == nil {
			t.Error("expected error for invalid magic")
		}
	})

	t.Run("ZeroLength", func(t *testing.T) {
		h := &Header{
			Magic:            Magic,
			HeaderLength:     HeaderSize,
			Length:           0,
			CompressedLength: 512,
		}
		if err := h.Validate(); err == nil {
			t.Error("expected error for zero length")
		}
	})

	t.Run("ShortData", func(t *testing.T) {
		h := &Header{}
		if err := h.UnmarshalBinary(make([]byte, HeaderSize-1)); err == nil {
			t.Error("expected error for short header data")
		}
	})
}

func TestReadWrite(t *testing.T) {
	original := bytes.Repeat([]byte("reconstructed tag bytes. "), 100)
	meta := Meta{
		GroupTag:      "scnr",
		GlobalTagID:   42,
		AssetID:       1234567,
		AssetChecksum: -1,
	}

	t.Run("EncodeDecodeRoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		ws := &seekableBuffer{Buffer: &buf}

		if err := Encode(ws, meta, original); err != nil {
			t.Fatalf("encode: %v", err)
		}

		header, decoded, err := ReadAll(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}

		if !bytes.Equal(decoded, original) {
			t.Error("data mismatch after round trip")
		}
		if header.Length != uint64(len(original)) {
			t.Errorf("length: got %d, want %d", header.Length, len(original))
		}
		if header.CompressedLength == 0 {
			t.Error("compressed length not rewritten")
		}
		if header.Meta() != meta {
			t.Errorf("meta: got %+v, want %+v", header.Meta(), meta)
		}
	})

	t.Run("TruncatedBody", func(t *testing.T) {
		var buf bytes.Buffer
		ws := &seekableBuffer{Buffer: &buf}
		if err := Encode(ws, meta, original); err != nil {
			t.Fatalf("encode: %v", err)
		}
		if _, _, err := ReadAll(bytes.NewReader(buf.Bytes()[:HeaderSize+4])); err == nil {
			t.Error("expected error for truncated body")
		}
	})
}

type seekableBuffer struct {
	*bytes.Buffer
	pos int64
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case 0:
		newPos = offset
	case 1:
		newPos = s.pos + offset
	case 2:
		newPos = int64(s.Buffer.Len()) + offset
	}
	s.pos = newPos
	return newPos, nil
}

func (s *seekableBuffer) Write(p []byte) (n int, err error) {
	for int64(s.Buffer.Len()) < s.pos {
		s.Buffer.WriteByte(0)
	}
	if s.pos < int64(s.Buffer.Len()) {
		data := s.Buffer.Bytes()
		n = copy(data[s.pos:], p)
		if n < len(p) {
			m, err := s.Buffer.Write(p[n:])
			n += m
			if err != nil {
				return n, err
			}
		}
	} else {
		n, err = s.Buffer.Write(p)
	}
	s.pos += int64(n)
	return n, err
}
