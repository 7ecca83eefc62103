package pattern

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/nvandessel/radonsim/internal/constants"
)

// Layouts returns the doubling layouts for a level: each layout lists the
// tuple positions whose room fills two adjacent slots, ascending.
func Layouts(l Level) [][]int {
	if !l.Valid() {
		return nil
	}
	return combin.Combinations(int(l), l.Doubled())
}

// Tuples calls yield with every ordered k-tuple of distinct indices in [0, n).
// The slice passed to yield is reused between calls; copy it to retain it.
// Enumeration stops early when yield returns false.
func Tuples(n, k int, yield func([]int) bool) {
	if k <= 0 || k > n {
		return
	}
	gen := combin.NewPermutationGenerator(n, k)
	tuple := make([]int, k)
	for gen.Next() {
		if !yield(gen.Permutation(tuple)) {
			return
		}
	}
}

// Expand turns a k-tuple into a six-slot room scheme, duplicating the tuple
// entries named by doubled in place. doubled must be ascending.
func Expand(tuple []int, doubled []int) []int {
	scheme := make([]int, 0, constants.RoomSlots)
	d := 0
	for pos, v := range tuple {
		scheme = append(scheme, v)
		if d < len(doubled) && doubled[d] == pos {
			scheme = append(scheme, v)
			d++
		}
	}
	return scheme
}

// InsertionPoints returns the cellar positions for a room scheme. Position p
// places the cellar before scheme[p]; len(scheme) appends it. A position
// between two equal neighbours would split a doubled room and is skipped.
func InsertionPoints(scheme []int) []int {
	points := make([]int, 0, len(scheme)+1)
	for p := 0; p <= len(scheme); p++ {
		if p > 0 && p < len(scheme) && scheme[p-1] == scheme[p] {
			continue
		}
		points = append(points, p)
	}
	return points
}

// Count returns the number of patterns Generate produces for a level given r
// normal rooms and c cellars.
func Count(r, c int, l Level) int {
	k := int(l)
	if !l.Valid() || k > r || c <= 0 {
		return 0
	}
	return combin.NumPermutations(r, k) * c * combin.Binomial(k, l.Doubled()) * l.InsertionCount()
}
