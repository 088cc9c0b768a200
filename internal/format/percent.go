package format

import "golang.org/x/exp/constraints"

// Percent returns part as a percentage of whole, or 0 when whole is zero.
func Percent[T constraints.Integer | constraints.Float](part, whole T) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}
