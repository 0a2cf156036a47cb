package module

import (
	"errors"
	"fmt"
)

// ErrEmptyTag is returned for a file entry whose declared uncompressed
// size is zero. Well-formed modules never contain such entries.
var ErrEmptyTag = errors.New("tag has zero uncompressed size")

// ErrUncompressedSingleTag is returned for a monolithic (non-block) tag
// that lacks the compressed flag. The single-stream data path is only
// defined for compressed data.
var ErrUncompressedSingleTag = errors.New("single-stream tag without compressed flag")

// InvalidMagicError is returned when a module does not start with the
// "mohd" magic.
type InvalidMagicError struct {
	Found string
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("module magic mismatch: expected %q, found %q", string(Magic[:]), e.Found)
}

// InvalidVersionError is returned for any header version other than the
// two supported values.
type InvalidVersionError struct {
	Found uint32
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("unsupported module version %d: must be %d or %d",
		e.Found, VersionCampaign, VersionForge)
}

// BlockBoundsError is returned when a block declares a destination range
// that does not fit its tag's output buffer.
type BlockBoundsError struct {
	Block      int
	Offset     uint32
	Size       uint32
	BufferSize int
}

func (e *BlockBoundsError) Error() string {
	return fmt.Sprintf("block %d destination [%d, %d) exceeds tag buffer of %d bytes",
		e.Block, e.Offset, uint64(e.Offset)+uint64(e.Size), e.BufferSize)
}
