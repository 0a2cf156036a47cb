package module

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Module is a fully parsed module container: descriptor tables only, no
// tag data. Tag bytes are produced on demand by ReadTag or ExtractTags
// and owned by the caller; the tables are never mutated after Read.
type Module struct {
	Header          Header
	Files           []FileEntry
	ResourceIndices []int32
	Blocks          []Block

	// DataOffset is the absolute stream position immediately after the
	// block table. All entry and block offsets are relative to it.
	DataOffset int64
}

// Read parses a module's header and descriptor tables from r. The phases
// are strictly ordered: header, file entries, name resolution, resource
// indices, blocks, then the data-region base offset. Later phases depend
// on the stream position left by earlier ones.
func Read(r io.ReadSeeker) (*Module, error) {
	m := &Module{}
	if err := m.Header.Read(r); err != nil {
		return nil, err
	}

	m.Files = make([]FileEntry, m.Header.ItemCount)
	buf := make([]byte, fileEntrySize)
	for i := range m.Files {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read file entry %d: %w", i, err)
		}
		m.Files[i].DecodeFrom(buf)
	}

	nameBase, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locate name table: %w", err)
	}
	for i := range m.Files {
		if err := m.Files[i].readName(r, nameBase); err != nil {
			return nil, fmt.Errorf("resolve name for entry %d: %w", i, err)
		}
	}

	// Name resolution seeks per entry, so the position after the loop is
	// wherever the last name happened to end. The resource-index table
	// starts at the end of the strings blob.
	if _, err := r.Seek(nameBase+int64(m.Header.StringsSize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek resource indices: %w", err)
	}

	m.ResourceIndices = make([]int32, m.Header.ResourceCount)
	if err := binary.Read(r, binary.LittleEndian, m.ResourceIndices); err != nil {
		return nil, fmt.Errorf("read resource indices: %w", err)
	}

	forge := m.Header.IsForge()
	m.Blocks = make([]Block, m.Header.BlockCount)
	blockBuf := make([]byte, blockRecordSize(forge))
	for i := range m.Blocks {
		if _, err := io.ReadFull(r, blockBuf); err != nil {
			return nil, fmt.Errorf("read block %d: %w", i, err)
		}
		m.Blocks[i].DecodeFrom(blockBuf, forge)
	}

	if m.DataOffset, err = r.Seek(0, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("locate data region: %w", err)
	}

	return m, nil
}
