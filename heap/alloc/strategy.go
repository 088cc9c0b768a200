package alloc

import (
	"fmt"
	"strings"
)

// Strategy selects which free block satisfies an allocation.
type Strategy uint8

const (
	// FirstFit picks the lowest-addressed free block that is large enough.
	FirstFit Strategy = iota

	// BestFit picks the smallest free block that is large enough, lowest
	// address first among equals.
	BestFit
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{FirstFit, BestFit}

func (s Strategy) String() string {
	switch s {
	case FirstFit:
		return "first-fit"
	case BestFit:
		return "best-fit"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy accepts "first-fit", "best-fit" and the usual spellings of
// them ("first", "FIRST_FIT", "bestfit", ...).
func ParseStrategy(name string) (Strategy, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch norm {
	case "first-fit", "firstfit", "first", "ff":
		return FirstFit, nil
	case "best-fit", "bestfit", "best", "bf":
		return BestFit, nil
	}
	return FirstFit, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	switch s {
	case FirstFit, BestFit:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// place returns the record chosen for a payload of size bytes, or nilIdx.
// Unknown strategies fall back to first-fit.
func (a *Allocator) place(size int) int32 {
	if a.strategy == BestFit {
		return a.bestFit(size)
	}
	return a.firstFit(size)
}

// firstFit walks the ledger in address order.
func (a *Allocator) firstFit(size int) int32 {
	for idx := a.head; idx != nilIdx; idx = a.blocks[idx].next {
		b := &a.blocks[idx]
		if !b.allocated && b.size >= size {
			return idx
		}
	}
	return nilIdx
}

// bestFit asks the size-ordered free index for the smallest fitting block.
// The index orders equal sizes by offset, which is ledger order.
func (a *Allocator) bestFit(size int) int32 {
	off, ok := a.free.bestFit(size)
	if !ok {
		return nilIdx
	}
	return a.byOff[off]
}
