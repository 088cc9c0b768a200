package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSpace indicates that no free block is large enough for the request.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadSize indicates a zero or negative allocation request.
	ErrBadSize = errors.New("alloc: size must be positive")

	// ErrInvalidHandle indicates a nil, out-of-bounds, or unknown handle.
	ErrInvalidHandle = errors.New("alloc: invalid handle")

	// ErrDoubleFree indicates a Free of a block that is already free.
	// It matches ErrInvalidHandle under errors.Is.
	ErrDoubleFree = fmt.Errorf("%w: block already free", ErrInvalidHandle)

	// ErrCapacityTooSmall indicates the arena cannot hold a single minimum block.
	ErrCapacityTooSmall = errors.New("alloc: capacity too small")

	// ErrUnknownStrategy indicates an unrecognised strategy name.
	ErrUnknownStrategy = errors.New("alloc: unknown strategy")

	// ErrCorrupt indicates that Check found a broken ledger invariant.
	ErrCorrupt = errors.New("alloc: ledger corrupt")
)
