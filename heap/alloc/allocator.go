package alloc

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/joshuapare/heapsim/internal/buf"
	"github.com/joshuapare/heapsim/internal/format"
	"github.com/joshuapare/heapsim/internal/logger"
)

// Allocator manages a fixed-size arena with an explicit block ledger.
// - blocks is a slab of records linked in physical order through prev/next indices
// - byOff maps a header offset to its record for O(1) handle lookup
// - free is a size-ordered index of free blocks for best-fit placement
// - stats is recomputed from the ledger after every mutation.
type Allocator struct {
	arena []byte

	blocks []block
	spare  []int32 // Released record slots, reused before growing blocks
	head   int32   // Record of the block at offset 0
	byOff  map[int]int32

	free     *freeIndex
	strategy Strategy

	stats    Stats
	counters Counters

	log logrus.FieldLogger
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithLogger routes operation traces to l. Traces are logged at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an allocator over a freshly allocated arena of capacity bytes.
func New(capacity int, s Strategy, opts ...Option) (*Allocator, error) {
	if capacity < MinCapacity {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrCapacityTooSmall, capacity, MinCapacity)
	}
	return NewFromBuffer(make([]byte, capacity), s, opts...)
}

// NewFromBuffer creates an allocator that takes ownership of arena. The
// caller must not touch arena afterwards except through handle payloads.
func NewFromBuffer(arena []byte, s Strategy, opts ...Option) (*Allocator, error) {
	if len(arena) < MinCapacity {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrCapacityTooSmall, len(arena), MinCapacity)
	}

	a := &Allocator{
		arena:    arena,
		blocks:   make([]block, 0, 64),
		byOff:    make(map[int]int32, 64),
		free:     newFreeIndex(),
		strategy: s,
		log:      logger.Component("alloc"),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.init()
	a.log.WithFields(logrus.Fields{
		"capacity": len(arena),
		"strategy": s,
	}).Debug("arena initialised")
	return a, nil
}

// init lays a single free block over the whole arena.
func (a *Allocator) init() {
	clear(a.arena)
	a.blocks = a.blocks[:0]
	a.spare = a.spare[:0]
	clear(a.byOff)
	a.free.clear()

	a.head = a.newBlock(0, len(a.arena)-HeaderSize, false)
	a.free.insert(&a.blocks[a.head])
	a.stamp(a.head)
	a.refresh()
}

// Capacity returns the arena size in bytes.
func (a *Allocator) Capacity() int {
	return len(a.arena)
}

// Strategy returns the current placement strategy.
func (a *Allocator) Strategy() Strategy {
	return a.strategy
}

// SetStrategy changes placement for future allocations. The layout is untouched.
func (a *Allocator) SetStrategy(s Strategy) {
	if s != a.strategy {
		a.log.WithFields(logrus.Fields{"from": a.strategy, "to": s}).Debug("strategy switched")
	}
	a.strategy = s
}

// Alloc reserves a block with at least size payload bytes and returns its handle.
// Sizes below MinBlockSize are rounded up. It returns ErrBadSize for size <= 0
// and ErrNoSpace when no free block fits; in both cases nothing changes.
func (a *Allocator) Alloc(size int) (Handle, error) {
	a.counters.AllocCalls++

	if size <= 0 {
		a.counters.AllocFailures++
		return NilHandle, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	need := max(size, MinBlockSize)

	idx := a.place(need)
	if idx == nilIdx {
		a.counters.AllocFailures++
		a.log.WithFields(logrus.Fields{
			"need":         need,
			"free_bytes":   a.stats.FreeBytes,
			"largest_free": a.stats.LargestFree,
		}).Debug("alloc: no fit")
		return NilHandle, fmt.Errorf("%w: need %d bytes, largest free block is %d",
			ErrNoSpace, need, a.stats.LargestFree)
	}

	a.free.remove(&a.blocks[idx])
	split := a.split(idx, need)

	b := &a.blocks[idx]
	b.allocated = true
	a.stamp(idx)
	a.refresh()

	h := Handle(b.off + HeaderSize)
	a.log.WithFields(logrus.Fields{
		"size":     size,
		"granted":  b.size,
		"handle":   int(h),
		"split":    split,
		"strategy": a.strategy,
	}).Debug("alloc")
	return h, nil
}

// Free releases the block behind h and merges it with free neighbours.
// It returns an error wrapping ErrInvalidHandle for nil, out-of-bounds and
// unknown handles, and ErrDoubleFree for blocks that are already free. A
// failed Free changes nothing.
func (a *Allocator) Free(h Handle) error {
	a.counters.FreeCalls++

	idx, err := a.lookup(h)
	if err != nil {
		a.counters.FreeFailures++
		return err
	}
	if !a.blocks[idx].allocated {
		a.counters.FreeFailures++
		return fmt.Errorf("%w: handle %d", ErrDoubleFree, h)
	}

	freed := a.blocks[idx].size
	a.blocks[idx].allocated = false
	idx = a.coalesce(idx)
	a.free.insert(&a.blocks[idx])
	a.stamp(idx)
	a.refresh()

	a.log.WithFields(logrus.Fields{
		"handle": int(h),
		"size":   freed,
		"merged": a.blocks[idx].size,
	}).Debug("free")
	return nil
}

// FreeAll releases every allocated block and returns how many were freed.
func (a *Allocator) FreeAll() int {
	var handles []Handle
	a.Walk(func(b BlockInfo) bool {
		if b.Allocated {
			handles = append(handles, b.Handle())
		}
		return true
	})

	n := 0
	for _, h := range handles {
		if err := a.Free(h); err == nil {
			n++
		}
	}
	return n
}

// Reset discards every block and zeroes the arena, leaving one free block.
// Outstanding handles become invalid.
func (a *Allocator) Reset() {
	a.counters.Resets++
	a.init()
	a.log.Debug("reset")
}

// Bytes returns the payload of an allocated block. The slice is capped at the
// payload size, so appending to it never reaches the next header.
func (a *Allocator) Bytes(h Handle) ([]byte, error) {
	idx, err := a.lookup(h)
	if err != nil {
		return nil, err
	}
	b := &a.blocks[idx]
	if !b.allocated {
		return nil, fmt.Errorf("%w: handle %d refers to a free block", ErrInvalidHandle, h)
	}
	payload, ok := buf.Slice(a.arena, b.off+HeaderSize, b.size)
	if !ok {
		return nil, fmt.Errorf("%w: block at %d overruns the arena", ErrCorrupt, b.off)
	}
	return payload, nil
}

// Lookup returns the block behind h, allocated or not.
func (a *Allocator) Lookup(h Handle) (BlockInfo, error) {
	idx, err := a.lookup(h)
	if err != nil {
		return BlockInfo{}, err
	}
	return a.blocks[idx].info(), nil
}

// lookup resolves a handle to its ledger record. Arena bounds are checked
// before the ledger so wild handles are rejected without touching it.
func (a *Allocator) lookup(h Handle) (int32, error) {
	off := int(h) - HeaderSize
	if h == NilHandle || off < 0 || int(h) >= len(a.arena) {
		return nilIdx, fmt.Errorf("%w: %d is outside the arena [%d, %d)",
			ErrInvalidHandle, h, HeaderSize, len(a.arena))
	}
	idx, ok := a.byOff[off]
	if !ok {
		return nilIdx, fmt.Errorf("%w: %d is not the start of a block payload", ErrInvalidHandle, h)
	}
	return idx, nil
}

// stamp writes the in-band header for the record at idx.
func (a *Allocator) stamp(idx int32) {
	b := &a.blocks[idx]
	format.PutHeader(a.arena, b.off, format.Header{Size: b.size, Allocated: b.allocated})
}
