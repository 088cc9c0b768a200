// Package format defines the in-band block header layout used by the simulated
// heap and the size constants every other package agrees on. Decoding stays
// allocation-free and independent of the engine so diagnostics can inspect a
// raw arena without going through the allocator.
package format

// HeaderMagic is the four-byte signature at the start of every block header.
// Layout:
//
//	0x00  'h' 'b' 'l' 'k'
var HeaderMagic = []byte{'h', 'b', 'l', 'k'}

const (
	// HeaderSize is the number of bytes reserved in front of every payload
	// (free or in-use). Two machine words, matching a size field plus a
	// status word on 64-bit targets.
	HeaderSize = 16

	// MinBlockSize is the smallest payload the allocator hands out. Smaller
	// requests are rounded up to it.
	MinBlockSize = 16

	// SplitThreshold is the smallest remainder that is carved off into its
	// own free block. Anything below stays attached to the allocation, so a
	// split can never produce a payload smaller than MinBlockSize.
	SplitThreshold = MinBlockSize + HeaderSize

	// MinCapacity is the smallest arena that can hold one block.
	MinCapacity = HeaderSize + MinBlockSize

	// DefaultCapacity is the arena size used when none is configured (1 MiB).
	DefaultCapacity = 1 << 20
)

// Header field offsets within a block header.
const (
	HeaderMagicOffset = 0x00 // 4 bytes, HeaderMagic
	HeaderFlagsOffset = 0x04 // 1 byte, FlagAllocated
	HeaderSizeOffset  = 0x08 // 8 bytes, payload size (little-endian)

	HeaderMagicLen = HeaderFlagsOffset - HeaderMagicOffset
)

// Header flag bits.
const (
	FlagAllocated = 0x01
)
