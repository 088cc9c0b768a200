package alloc

import (
	"fmt"

	"github.com/joshuapare/heapsim/internal/format"
)

// Check verifies the ledger invariants and returns an error wrapping
// ErrCorrupt for the first violation found:
//   - blocks tile the arena exactly, in address order, starting at offset 0
//   - every payload is at least MinBlockSize
//   - prev/next links and the offset index agree with the walk
//   - no two free blocks are adjacent
//   - every in-band header matches its record
//   - the free index holds exactly the free blocks
//   - cached stats match a fresh scan
func (a *Allocator) Check() error {
	if a.head == nilIdx {
		return fmt.Errorf("%w: empty ledger", ErrCorrupt)
	}
	if a.blocks[a.head].prev != nilIdx {
		return fmt.Errorf("%w: head block has a predecessor", ErrCorrupt)
	}

	expect := 0
	seen := 0
	freeSeen := 0
	prev := nilIdx
	prevFree := false

	for idx := a.head; idx != nilIdx; idx = a.blocks[idx].next {
		seen++
		if seen > len(a.blocks) {
			return fmt.Errorf("%w: cycle in block chain", ErrCorrupt)
		}
		b := &a.blocks[idx]

		if b.off != expect {
			return fmt.Errorf("%w: block at %d, expected %d", ErrCorrupt, b.off, expect)
		}
		if b.size < MinBlockSize {
			return fmt.Errorf("%w: block at %d has payload %d < %d", ErrCorrupt, b.off, b.size, MinBlockSize)
		}
		if b.prev != prev {
			return fmt.Errorf("%w: block at %d has a stale back link", ErrCorrupt, b.off)
		}
		if got, ok := a.byOff[b.off]; !ok || got != idx {
			return fmt.Errorf("%w: block at %d missing from offset index", ErrCorrupt, b.off)
		}

		if !b.allocated {
			if prevFree {
				return fmt.Errorf("%w: adjacent free blocks at %d", ErrCorrupt, b.off)
			}
			if !a.free.has(b) {
				return fmt.Errorf("%w: free block at %d missing from free index", ErrCorrupt, b.off)
			}
			freeSeen++
		}
		prevFree = !b.allocated

		h, err := format.ReadHeader(a.arena, b.off)
		if err != nil {
			return fmt.Errorf("%w: header at %d: %w", ErrCorrupt, b.off, err)
		}
		if h.Size != b.size || h.Allocated != b.allocated {
			return fmt.Errorf("%w: header at %d says size=%d allocated=%t, ledger says size=%d allocated=%t",
				ErrCorrupt, b.off, h.Size, h.Allocated, b.size, b.allocated)
		}

		expect = b.off + HeaderSize + b.size
		prev = idx
	}

	if expect != len(a.arena) {
		return fmt.Errorf("%w: blocks cover %d of %d bytes", ErrCorrupt, expect, len(a.arena))
	}
	if len(a.byOff) != seen {
		return fmt.Errorf("%w: offset index holds %d entries for %d blocks", ErrCorrupt, len(a.byOff), seen)
	}
	if a.free.len() != freeSeen {
		return fmt.Errorf("%w: free index holds %d entries for %d free blocks", ErrCorrupt, a.free.len(), freeSeen)
	}
	if got := a.scan(); got != a.stats {
		return fmt.Errorf("%w: cached stats %+v differ from ledger %+v", ErrCorrupt, a.stats, got)
	}
	return nil
}
