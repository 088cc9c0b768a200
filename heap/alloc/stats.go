package alloc

// Stats returns the aggregate view of the ledger as of the last mutation.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// Counters returns running operation counts.
func (a *Allocator) Counters() Counters {
	return a.counters
}

// refresh recomputes stats from the ledger.
func (a *Allocator) refresh() {
	a.stats = a.scan()
}

// scan walks the ledger once and derives every aggregate from it.
func (a *Allocator) scan() Stats {
	var s Stats
	for idx := a.head; idx != nilIdx; idx = a.blocks[idx].next {
		b := &a.blocks[idx]
		if b.allocated {
			s.AllocatedBytes += b.size
			s.AllocatedBlocks++
			continue
		}
		s.FreeBytes += b.size
		s.FreeBlocks++
		s.LargestFree = max(s.LargestFree, b.size)
	}
	if s.FreeBytes > 0 {
		s.Fragmentation = 1 - float64(s.LargestFree)/float64(s.FreeBytes)
	}
	return s
}
