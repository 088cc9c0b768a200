package alloc

import "github.com/joshuapare/heapsim/internal/format"

// nilIdx terminates the prev/next chains.
const nilIdx int32 = -1

// block is one ledger record. Records live in Allocator.blocks and refer to
// their neighbours by index, never by pointer, so growing the slab is safe.
type block struct {
	off       int   // Header offset in the arena
	size      int   // Payload size
	allocated bool  // In use
	prev      int32 // Physically preceding block, or nilIdx
	next      int32 // Physically following block, or nilIdx
}

func (b *block) info() BlockInfo {
	return BlockInfo{Offset: b.off, Size: b.size, Allocated: b.allocated}
}

// newBlock takes a record slot, reusing a released one when possible.
// The returned record is unlinked.
func (a *Allocator) newBlock(off, size int, allocated bool) int32 {
	var idx int32
	if n := len(a.spare); n > 0 {
		idx = a.spare[n-1]
		a.spare = a.spare[:n-1]
	} else {
		idx = int32(len(a.blocks))
		a.blocks = append(a.blocks, block{})
	}
	a.blocks[idx] = block{off: off, size: size, allocated: allocated, prev: nilIdx, next: nilIdx}
	a.byOff[off] = idx
	return idx
}

// releaseBlock returns an unlinked record's slot and wipes its header.
func (a *Allocator) releaseBlock(idx int32) {
	b := &a.blocks[idx]
	delete(a.byOff, b.off)
	format.ClearHeader(a.arena, b.off)
	*b = block{prev: nilIdx, next: nilIdx}
	a.spare = append(a.spare, idx)
}

// split trims the block at idx to size payload bytes and turns the rest into
// a new free block right after it, if the rest is at least SplitThreshold.
// The block at idx must already be out of the free index.
func (a *Allocator) split(idx int32, size int) bool {
	rem := a.blocks[idx].size - size
	if rem < SplitThreshold {
		return false
	}

	tailOff := a.blocks[idx].off + HeaderSize + size
	tail := a.newBlock(tailOff, rem-HeaderSize, false)

	// newBlock may have grown the slab; take pointers afterwards.
	b, t := &a.blocks[idx], &a.blocks[tail]
	b.size = size
	t.prev = idx
	t.next = b.next
	if b.next != nilIdx {
		a.blocks[b.next].prev = tail
	}
	b.next = tail

	a.free.insert(t)
	a.stamp(tail)
	a.counters.Splits++
	return true
}

// coalesce merges the just-freed block at idx with a free successor, then
// with a free predecessor, and returns the surviving record. The block at idx
// must not be in the free index; the survivor is returned out of it too.
func (a *Allocator) coalesce(idx int32) int32 {
	if next := a.blocks[idx].next; next != nilIdx && !a.blocks[next].allocated {
		a.free.remove(&a.blocks[next])
		a.absorbNext(idx)
		a.counters.CoalesceForward++
	}
	if prev := a.blocks[idx].prev; prev != nilIdx && !a.blocks[prev].allocated {
		a.free.remove(&a.blocks[prev])
		a.absorbNext(prev)
		a.counters.CoalesceBackward++
		idx = prev
	}
	return idx
}

// absorbNext folds the successor of idx (header and payload) into idx and
// unlinks it.
func (a *Allocator) absorbNext(idx int32) {
	b := &a.blocks[idx]
	next := b.next
	n := a.blocks[next]

	b.size += HeaderSize + n.size
	b.next = n.next
	if n.next != nilIdx {
		a.blocks[n.next].prev = idx
	}
	a.releaseBlock(next)
}

// Walk calls fn for every block in address order until fn returns false.
func (a *Allocator) Walk(fn func(BlockInfo) bool) {
	for idx := a.head; idx != nilIdx; idx = a.blocks[idx].next {
		if !fn(a.blocks[idx].info()) {
			return
		}
	}
}

// Blocks returns the ledger in address order.
func (a *Allocator) Blocks() []BlockInfo {
	out := make([]BlockInfo, 0, a.stats.Blocks())
	a.Walk(func(b BlockInfo) bool {
		out = append(out, b)
		return true
	})
	return out
}
