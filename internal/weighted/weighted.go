// Package weighted implements sampling of an index in proportion to a
// slice of relative weights.
package weighted

import (
	"errors"
	"math/rand/v2"

	"golang.org/x/exp/constraints"
)

// ErrNoWeight is returned when no entry carries positive weight, in which
// case there is nothing to sample from.
var ErrNoWeight = errors.New("weighted: no entry with positive weight")

// Index picks an index into weights with probability proportional to the
// weight at that index. Entries with non-positive weight are never picked.
func Index[F constraints.Float](rng *rand.Rand, weights []F) (int, error) {
	var total F
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0, ErrNoWeight
	}
	x := F(rng.Float64()) * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if x < w {
			return i, nil
		}
		x -= w
		last = i
	}
	// x landed exactly on the total due to rounding; fall back to the
	// last positive entry.
	return last, nil
}
