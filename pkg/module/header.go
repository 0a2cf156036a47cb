// Package module implements reading of Halo 5 module container files.
//
// A module holds many game assets ("tags"). Each tag is described by a
// fixed-size file entry and stored zlib-compressed in the module's data
// region, either as one monolithic stream or split across independently
// compressed blocks at arbitrary offsets. The package decodes the header,
// file-entry, resource-index, and block tables, then reconstructs each
// tag's byte stream on demand.
package module

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic identifies a module file.
var Magic = [4]byte{'m', 'o', 'h', 'd'}

// Supported module versions. Forge modules carry checksum and padding
// fields absent from campaign modules.
const (
	VersionCampaign uint32 = 23 // Halo 5: Guardians
	VersionForge    uint32 = 27 // Halo 5: Forge
)

// headerBaseSize is the encoded header size without the Forge-only checksum.
const headerBaseSize = 48

// Header is the fixed-size record at the start of every module.
type Header struct {
	Magic         [4]byte
	Version       uint32
	ModuleID      uint64
	ItemCount     uint32
	ManifestCount uint32
	ResourceIndex int32
	StringsSize   uint32
	ResourceCount uint32
	BlockCount    uint32
	BuildVersion  uint64
	Checksum      uint64 // Forge only
}

// IsForge reports whether the header describes the newer Forge variant
// of the format.
func (h *Header) IsForge() bool {
	return h.Version == VersionForge
}

// Read decodes the header from r, validating magic and version.
func (h *Header) Read(r io.Reader) error {
	buf := make([]byte, headerBaseSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	copy(h.Magic[:], buf[0:4])
	if h.Magic != Magic {
		return &InvalidMagicError{Found: trimNul(string(h.Magic[:]))}
	}
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	if h.Version != VersionForge && h.Version != VersionCampaign {
		return &InvalidVersionError{Found: h.Version}
	}
	h.ModuleID = binary.LittleEndian.Uint64(buf[8:16])
	h.ItemCount = binary.LittleEndian.Uint32(buf[16:20])
	h.ManifestCount = binary.LittleEndian.Uint32(buf[20:24])
	h.ResourceIndex = int32(binary.LittleEndian.Uint32(buf[24:28]))
	h.StringsSize = binary.LittleEndian.Uint32(buf[28:32])
	h.ResourceCount = binary.LittleEndian.Uint32(buf[32:36])
	h.BlockCount = binary.LittleEndian.Uint32(buf[36:40])
	h.BuildVersion = binary.LittleEndian.Uint64(buf[40:48])

	if h.IsForge() {
		var csum [8]byte
		if _, err := io.ReadFull(r, csum[:]); err != nil {
			return fmt.Errorf("read header checksum: %w", err)
		}
		h.Checksum = binary.LittleEndian.Uint64(csum[:])
	}

	return nil
}
