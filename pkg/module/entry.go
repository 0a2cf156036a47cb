package module

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FileFlags is the per-entry capability bit set. Flags are independent
// booleans, not an enumeration: a block-split entry may also be marked
// compressed.
type FileFlags uint8

const (
	// FlagCompressed marks entries whose data is zlib-compressed.
	FlagCompressed FileFlags = 1 << iota
	// FlagHasBlocks marks entries whose data is split across records of
	// the module's block table.
	FlagHasBlocks
	// FlagRawFile marks entries holding raw (non-tag) file data.
	FlagRawFile
)

// Has reports whether all bits of flag are set.
func (f FileFlags) Has(flag FileFlags) bool {
	return f&flag == flag
}

// fileEntrySize is the encoded size of one file-entry record.
const fileEntrySize = 88

// FileEntry describes one tag contained in a module.
type FileEntry struct {
	NameOffset               uint32
	ParentFileIndex          int32
	ResourceCount            uint32
	FirstResourceIndex       int32
	BlockCount               uint32
	FirstBlockIndex          int32
	DataOffset               uint64
	TotalCompressedSize      uint32
	TotalUncompressedSize    uint32
	HeaderAlignment          uint8
	TagAlignment             uint8
	ResourceAlignment        uint8
	Flags                    FileFlags
	GlobalTagID              int32
	AssetID                  int64
	AssetChecksum            int64
	GroupTag                 string // four-character code, stored reversed on disk
	UncompressedHeaderSize   uint32
	UncompressedTagSize      uint32
	UncompressedResourceSize uint32
	HeaderBlockCount         int16
	TagBlockCount            int16
	ResourceBlockCount       int16
	Padding                  int16

	// Name is resolved from the module's name table after the whole
	// entry table has been read.
	Name string
}

// DecodeFrom reads the entry from one fileEntrySize-byte record.
func (e *FileEntry) DecodeFrom(data []byte) {
	e.NameOffset = binary.LittleEndian.Uint32(data[0:4])
	e.ParentFileIndex = int32(binary.LittleEndian.Uint32(data[4:8]))
	e.ResourceCount = binary.LittleEndian.Uint32(data[8:12])
	e.FirstResourceIndex = int32(binary.LittleEndian.Uint32(data[12:16]))
	e.BlockCount = binary.LittleEndian.Uint32(data[16:20])
	e.FirstBlockIndex = int32(binary.LittleEndian.Uint32(data[20:24]))
	e.DataOffset = binary.LittleEndian.Uint64(data[24:32])
	e.TotalCompressedSize = binary.LittleEndian.Uint32(data[32:36])
	e.TotalUncompressedSize = binary.LittleEndian.Uint32(data[36:40])
	e.HeaderAlignment = data[40]
	e.TagAlignment = data[41]
	e.ResourceAlignment = data[42]
	e.Flags = FileFlags(data[43])
	e.GlobalTagID = int32(binary.LittleEndian.Uint32(data[44:48]))
	e.AssetID = int64(binary.LittleEndian.Uint64(data[48:56]))
	e.AssetChecksum = int64(binary.LittleEndian.Uint64(data[56:64]))
	e.GroupTag = reverseTag(data[64:68])
	e.UncompressedHeaderSize = binary.LittleEndian.Uint32(data[68:72])
	e.UncompressedTagSize = binary.LittleEndian.Uint32(data[72:76])
	e.UncompressedResourceSize = binary.LittleEndian.Uint32(data[76:80])
	e.HeaderBlockCount = int16(binary.LittleEndian.Uint16(data[80:82]))
	e.TagBlockCount = int16(binary.LittleEndian.Uint16(data[82:84]))
	e.ResourceBlockCount = int16(binary.LittleEndian.Uint16(data[84:86]))
	e.Padding = int16(binary.LittleEndian.Uint16(data[86:88]))
}

// reverseTag returns the four group-tag bytes in display order. Group
// tags are stored byte-reversed in the file: "mtib" on disk reads as
// "bitm". Null padding is trimmed before reversing.
func reverseTag(b []byte) string {
	s := trimNul(string(b))
	out := make([]byte, len(s))
	for i := range out {
		out[i] = s[len(s)-1-i]
	}
	return string(out)
}

// readName resolves the entry's display name from the name table based
// at tableBase. Each entry seeks independently; no prior position is
// restored.
func (e *FileEntry) readName(r io.ReadSeeker, tableBase int64) error {
	if _, err := r.Seek(tableBase+int64(e.NameOffset), io.SeekStart); err != nil {
		return fmt.Errorf("seek name table: %w", err)
	}
	name, err := readCString(r)
	if err != nil {
		return err
	}
	e.Name = name
	return nil
}
