package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/heapsim/internal/buf"
)

// ParseSize parses a byte count with an optional K or M suffix (binary units,
// 1K = 1024). The sign is preserved; callers decide what range is valid.
// Values whose scaled size does not fit in an int are rejected.
func ParseSize(s string) (int, error) {
	mult := 1
	num := strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(num, "K"), strings.HasSuffix(num, "k"):
		mult, num = 1<<10, num[:len(num)-1]
	case strings.HasSuffix(num, "M"), strings.HasSuffix(num, "m"):
		mult, num = 1<<20, num[:len(num)-1]
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	size, ok := buf.MulOverflowSafe(n, mult)
	if !ok {
		return 0, fmt.Errorf("size %q overflows int", s)
	}
	return size, nil
}
