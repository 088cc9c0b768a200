package format

import (
	"bytes"
	"errors"

	"github.com/joshuapare/heapsim/internal/buf"
)

var (
	// ErrTruncated indicates the buffer is too short to hold a header at the offset.
	ErrTruncated = errors.New("format: truncated header")

	// ErrSignature indicates the header magic does not match HeaderMagic.
	ErrSignature = errors.New("format: bad header signature")
)

// Header is the decoded form of an in-band block header.
type Header struct {
	Size      int
	Allocated bool
}

// PutHeader stamps h at off. The caller guarantees off+HeaderSize <= len(b).
func PutHeader(b []byte, off int, h Header) {
	copy(b[off+HeaderMagicOffset:off+HeaderMagicOffset+HeaderMagicLen], HeaderMagic)
	var flags byte
	if h.Allocated {
		flags |= FlagAllocated
	}
	b[off+HeaderFlagsOffset] = flags
	for i := off + HeaderFlagsOffset + 1; i < off+HeaderSizeOffset; i++ {
		b[i] = 0
	}
	buf.PutU64LE(b[off+HeaderSizeOffset:], uint64(h.Size))
}

// ClearHeader zeroes the header at off so a merged-away block no longer
// looks like a live one.
func ClearHeader(b []byte, off int) {
	clear(b[off : off+HeaderSize])
}

// ReadHeader decodes the header at off.
func ReadHeader(b []byte, off int) (Header, error) {
	raw, ok := buf.Slice(b, off, HeaderSize)
	if !ok {
		return Header{}, ErrTruncated
	}
	if !bytes.Equal(raw[HeaderMagicOffset:HeaderMagicOffset+HeaderMagicLen], HeaderMagic) {
		return Header{}, ErrSignature
	}
	return Header{
		Size:      int(buf.U64LE(raw[HeaderSizeOffset:])),
		Allocated: raw[HeaderFlagsOffset]&FlagAllocated != 0,
	}, nil
}
