package module

import "encoding/binary"

// Encoded block-record sizes. Forge records carry a leading checksum and
// trailing padding.
const (
	blockSize      = 20
	blockSizeForge = 32
)

// Block describes one independently addressed, optionally compressed
// chunk of a tag's data. Offsets are relative to the owning entry's
// region inside the module's data region. The blocks of one entry form a
// contiguous slice of the module's block table.
type Block struct {
	Checksum           uint64 // Forge only
	CompressedOffset   uint32
	CompressedSize     uint32
	UncompressedOffset uint32
	UncompressedSize   uint32
	Compressed         bool
	Padding            int32 // Forge only
}

// DecodeFrom reads the block from one record. The forge flag is derived
// once from the header version and selects the wider record layout. The
// compressed field is a u32 on disk, false only when exactly zero.
func (b *Block) DecodeFrom(data []byte, forge bool) {
	if forge {
		b.Checksum = binary.LittleEndian.Uint64(data[0:8])
		data = data[8:]
	}
	b.CompressedOffset = binary.LittleEndian.Uint32(data[0:4])
	b.CompressedSize = binary.LittleEndian.Uint32(data[4:8])
	b.UncompressedOffset = binary.LittleEndian.Uint32(data[8:12])
	b.UncompressedSize = binary.LittleEndian.Uint32(data[12:16])
	b.Compressed = binary.LittleEndian.Uint32(data[16:20]) != 0
	if forge {
		b.Padding = int32(binary.LittleEndian.Uint32(data[20:24]))
	}
}

// blockRecordSize returns the on-disk record size for the given format
// variant.
func blockRecordSize(forge bool) int {
	if forge {
		return blockSizeForge
	}
	return blockSize
}
