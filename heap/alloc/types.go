package alloc

import "github.com/joshuapare/heapsim/internal/format"

// Handle is the arena offset of an allocated block's payload.
type Handle int

// NilHandle is returned when nothing was allocated. No payload starts at
// offset 0 because a header always precedes it.
const NilHandle Handle = 0

// Layout constants, re-exported from internal/format for callers.
const (
	HeaderSize     = format.HeaderSize
	MinBlockSize   = format.MinBlockSize
	SplitThreshold = format.SplitThreshold
	MinCapacity    = format.MinCapacity
)

// BlockInfo describes one block of the ledger.
type BlockInfo struct {
	Offset    int  // Header offset in the arena
	Size      int  // Payload size (excludes the header)
	Allocated bool // In use
}

// Handle returns the payload handle of the block.
func (b BlockInfo) Handle() Handle {
	return Handle(b.Offset + HeaderSize)
}

// End returns the offset one past the block's payload, which is where the
// physically next block starts.
func (b BlockInfo) End() int {
	return b.Offset + HeaderSize + b.Size
}

// Stats is the aggregate view of the ledger.
type Stats struct {
	AllocatedBytes  int     // Sum of allocated payload sizes
	FreeBytes       int     // Sum of free payload sizes
	AllocatedBlocks int     // Number of allocated blocks
	FreeBlocks      int     // Number of free blocks
	LargestFree     int     // Largest free payload, 0 when nothing is free
	Fragmentation   float64 // 1 - LargestFree/FreeBytes, 0 when nothing is free
}

// Blocks returns the total number of blocks.
func (s Stats) Blocks() int {
	return s.AllocatedBlocks + s.FreeBlocks
}

// Counters holds running operation counts for instrumentation and tests.
type Counters struct {
	AllocCalls       int // Total Alloc() calls
	AllocFailures    int // Alloc() calls that returned an error
	FreeCalls        int // Total Free() calls
	FreeFailures     int // Free() calls that returned an error
	Splits           int // Blocks carved in two
	CoalesceForward  int // Merges with the following block
	CoalesceBackward int // Merges into the preceding block
	Resets           int // Reset() calls
}
