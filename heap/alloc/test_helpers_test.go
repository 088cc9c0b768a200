package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapsim/internal/logger"
)

// newTestAllocator creates an allocator with logging silenced.
func newTestAllocator(t testing.TB, capacity int, s Strategy) *Allocator {
	t.Helper()

	a, err := New(capacity, s, WithLogger(logger.Discard()))
	require.NoError(t, err, "failed to create allocator")
	return a
}

// mustAlloc allocates size bytes and fails the test on error.
func mustAlloc(t testing.TB, a *Allocator, size int) Handle {
	t.Helper()

	h, err := a.Alloc(size)
	require.NoError(t, err, "Alloc(%d) should succeed", size)
	require.NotEqual(t, NilHandle, h)
	return h
}

// mustFree frees h and fails the test on error.
func mustFree(t testing.TB, a *Allocator, h Handle) {
	t.Helper()
	require.NoError(t, a.Free(h), "Free(%d) should succeed", h)
}

// assertInvariants runs Check and cross-checks the byte accounting by hand.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()

	require.NoError(t, a.Check(), "ledger invariants")

	blocks := a.Blocks()
	require.NotEmpty(t, blocks)

	total := 0
	for i, b := range blocks {
		if i > 0 {
			require.Equal(t, blocks[i-1].End(), b.Offset, "block %d is not contiguous", i)
		}
		total += HeaderSize + b.Size
	}
	require.Equal(t, a.Capacity(), total, "blocks must cover the arena exactly")

	s := a.Stats()
	require.Equal(t, a.Capacity(), s.AllocatedBytes+s.FreeBytes+s.Blocks()*HeaderSize,
		"payload bytes plus headers must equal capacity")
	require.Equal(t, len(blocks), s.Blocks())
}

// layout returns the ledger as (size, allocated) pairs for compact assertions.
func layout(a *Allocator) [][2]int {
	var out [][2]int
	for _, b := range a.Blocks() {
		state := 0
		if b.Allocated {
			state = 1
		}
		out = append(out, [2]int{b.Size, state})
	}
	return out
}
