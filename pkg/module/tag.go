package module

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ReadTag reconstructs the byte stream of the tag described by
// m.Files[index]. Blocks are read through r at absolute offsets, so one
// handle may serve concurrent calls.
func (m *Module) ReadTag(r io.ReaderAt, index int) ([]byte, error) {
	if index < 0 || index >= len(m.Files) {
		return nil, fmt.Errorf("file entry %d out of range (%d entries)", index, len(m.Files))
	}
	entry := &m.Files[index]
	if entry.TotalUncompressedSize == 0 {
		return nil, fmt.Errorf("entry %d (%s): %w", index, entry.Name, ErrEmptyTag)
	}

	base := m.DataOffset + int64(entry.DataOffset)

	if !entry.Flags.Has(FlagHasBlocks) {
		return m.readSingleTag(r, entry, base)
	}

	first := int(entry.FirstBlockIndex)
	last := first + int(entry.BlockCount)
	if first < 0 || last > len(m.Blocks) {
		return nil, fmt.Errorf("entry %d (%s): block range [%d, %d) outside block table of %d",
			index, entry.Name, first, last, len(m.Blocks))
	}

	out := make([]byte, entry.TotalUncompressedSize)
	for i := first; i < last; i++ {
		if err := readBlock(r, &m.Blocks[i], i, base, out); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", index, entry.Name, err)
		}
	}
	return out, nil
}

// readBlock reads, optionally inflates, and places one block into the
// tag's output buffer. Blocks have no data dependency on each other, so
// calls for distinct blocks of one tag may run in any order.
func readBlock(r io.ReaderAt, b *Block, index int, base int64, out []byte) error {
	end := int64(b.UncompressedOffset) + int64(b.UncompressedSize)
	if end > int64(len(out)) {
		return &BlockBoundsError{
			Block:      index,
			Offset:     b.UncompressedOffset,
			Size:       b.UncompressedSize,
			BufferSize: len(out),
		}
	}

	raw := make([]byte, b.CompressedSize)
	if _, err := r.ReadAt(raw, base+int64(b.CompressedOffset)); err != nil {
		return fmt.Errorf("read block %d: %w", index, err)
	}

	dst := out[b.UncompressedOffset:end]
	if !b.Compressed {
		if len(raw) != len(dst) {
			return fmt.Errorf("block %d: raw block is %d bytes, want %d", index, len(raw), len(dst))
		}
		copy(dst, raw)
		return nil
	}
	if err := inflate(raw, dst); err != nil {
		return fmt.Errorf("block %d: %w", index, err)
	}
	return nil
}

// readSingleTag handles entries stored as one monolithic zlib stream.
func (m *Module) readSingleTag(r io.ReaderAt, entry *FileEntry, base int64) ([]byte, error) {
	raw := make([]byte, entry.TotalCompressedSize)
	if _, err := r.ReadAt(raw, base); err != nil {
		return nil, fmt.Errorf("read tag %s: %w", entry.Name, err)
	}

	if !entry.Flags.Has(FlagCompressed) {
		return nil, fmt.Errorf("tag %s: %w", entry.Name, ErrUncompressedSingleTag)
	}

	out := make([]byte, entry.TotalUncompressedSize)
	if err := inflate(raw, out); err != nil {
		return nil, fmt.Errorf("tag %s: %w", entry.Name, err)
	}
	return out, nil
}

// inflate decompresses the zlib stream in src into dst, which must be
// exactly the declared uncompressed size. Producing fewer bytes than
// len(dst) is an error.
func inflate(src, dst []byte) error {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("open zlib stream: %w", err)
	}
	defer zr.Close()

	if _, err := io.ReadFull(zr, dst); err != nil {
		return fmt.Errorf("inflate: %w", err)
	}
	return nil
}
