// Package alloc implements the simulated heap: a fixed-size arena carved into
// blocks by an explicit-free-list allocator with first-fit and best-fit
// placement, block splitting, and eager coalescing.
//
// # Overview
//
// An Allocator owns a single []byte arena for its whole lifetime. The arena is
// partitioned, with no gaps and no overlaps, into blocks. Every block starts
// with a HeaderSize-byte header followed by its payload:
//
//	offset 0                                                     capacity
//	| hdr | payload A (alloc) | hdr | payload B (free) | hdr | payload C ... |
//
// The ledger of blocks is kept as index-based records in physical order; the
// header bytes in the arena are a write-through mirror that Check compares
// against the ledger to detect scribbled memory.
//
// # Allocation
//
//	a, err := alloc.New(1<<20, alloc.FirstFit)
//	if err != nil {
//	    return err
//	}
//
//	h, err := a.Alloc(100)
//	if errors.Is(err, alloc.ErrNoSpace) {
//	    // nothing large enough is free; free something and retry
//	}
//
//	payload, _ := a.Bytes(h)
//	copy(payload, data)
//
//	err = a.Free(h)
//
// Requests below MinBlockSize are rounded up. A chosen block is split when the
// remainder is at least SplitThreshold (MinBlockSize + HeaderSize); otherwise
// the caller receives the whole block.
//
// # Strategies
//
//   - FirstFit: lowest-addressed free block that is large enough
//   - BestFit: smallest free block that is large enough, lowest address on ties
//
// SetStrategy switches placement at any time without touching the layout.
//
// # Freeing
//
// Free validates the handle (arena bounds first, then ledger membership, then
// allocation state), marks the block free and merges it with a free successor
// and then a free predecessor, so two free blocks are never adjacent.
//
// # Statistics
//
// Stats are recomputed by a full ledger scan after every mutation and always
// match a fresh scan. Fragmentation is 1 - LargestFree/FreeBytes.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must serialize access
// externally; the heap/server package does so with a single mutex.
package alloc
