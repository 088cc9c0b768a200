package alloc

import "github.com/google/btree"

// freeIndexDegree is the btree degree; free lists in practice stay small.
const freeIndexDegree = 16

// freeKey orders free blocks by payload size, then by offset.
type freeKey struct {
	size int
	off  int
}

func lessFreeKey(a, b freeKey) bool {
	if a.size != b.size {
		return a.size < b.size
	}
	return a.off < b.off
}

// freeIndex is a size-ordered view of the free blocks, used for best-fit.
// It is derived from the ledger and kept in step on every split, merge and
// state change.
type freeIndex struct {
	tree *btree.BTreeG[freeKey]
}

func newFreeIndex() *freeIndex {
	return &freeIndex{tree: btree.NewG(freeIndexDegree, lessFreeKey)}
}

func (x *freeIndex) insert(b *block) {
	x.tree.ReplaceOrInsert(freeKey{size: b.size, off: b.off})
}

func (x *freeIndex) remove(b *block) {
	x.tree.Delete(freeKey{size: b.size, off: b.off})
}

func (x *freeIndex) has(b *block) bool {
	return x.tree.Has(freeKey{size: b.size, off: b.off})
}

// bestFit returns the offset of the smallest free block with size >= need.
func (x *freeIndex) bestFit(need int) (off int, ok bool) {
	x.tree.AscendGreaterOrEqual(freeKey{size: need}, func(k freeKey) bool {
		off, ok = k.off, true
		return false
	})
	return off, ok
}

func (x *freeIndex) len() int {
	return x.tree.Len()
}

func (x *freeIndex) clear() {
	x.tree.Clear(false)
}
