package pattern

import (
	"errors"
	"fmt"

	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/room"
)

// ErrInsufficientRooms is returned when a building has fewer than three normal
// rooms or no cellar. No patterns are generated at any level in that case.
var ErrInsufficientRooms = errors.New("insufficient rooms for pattern generation")

// Variations holds the generated patterns of every diversity level.
// It is immutable once returned by Generate.
type Variations struct {
	byLevel [len(levelSlots)][]Pattern
}

var levelSlots = [...]Level{Three, Four, Five, Six}

// Get returns the patterns generated for level l. Callers must not modify it.
func (v Variations) Get(l Level) []Pattern {
	if !l.Valid() {
		return nil
	}
	return v.byLevel[l.index()]
}

// Len returns the total number of patterns across all levels.
func (v Variations) Len() int {
	n := 0
	for _, ps := range v.byLevel {
		n += len(ps)
	}
	return n
}

// Empty reports whether no level holds a pattern.
func (v Variations) Empty() bool {
	return v.Len() == 0
}

// Counts returns the number of patterns per level.
func (v Variations) Counts() map[Level]int {
	out := make(map[Level]int, len(levelSlots))
	for _, l := range levelSlots {
		out[l] = len(v.Get(l))
	}
	return out
}

// Select returns a view restricted to the given levels. An empty selection
// keeps every level.
func (v Variations) Select(levels ...Level) Variations {
	if len(levels) == 0 {
		return v
	}
	var out Variations
	for _, l := range levels {
		if l.Valid() {
			out.byLevel[l.index()] = v.byLevel[l.index()]
		}
	}
	return out
}

// At returns the i-th pattern of the concatenation of all levels in level
// order (three, four, five, six) without materializing the concatenation.
func (v Variations) At(i int) (Pattern, Level) {
	for idx, ps := range v.byLevel {
		if i < len(ps) {
			return ps[i], levelSlots[idx]
		}
		i -= len(ps)
	}
	panic(fmt.Sprintf("pattern index out of range [%d]", i))
}

// All returns the concatenation of all levels in level order.
func (v Variations) All() []Pattern {
	out := make([]Pattern, 0, v.Len())
	for _, ps := range v.byLevel {
		out = append(out, ps...)
	}
	return out
}

// Generate produces the patterns of every diversity level from a building's
// normal rooms and cellars. Levels above len(rooms) are empty. When there are
// fewer than three rooms or no cellar, Generate returns empty Variations and
// ErrInsufficientRooms.
func Generate(rooms, cellars []*room.Room) (Variations, error) {
	var v Variations
	if len(rooms) < constants.MinRooms || len(cellars) < constants.MinCellars {
		return v, fmt.Errorf("%w: %d rooms, %d cellars (need at least %d and %d)",
			ErrInsufficientRooms, len(rooms), len(cellars), constants.MinRooms, constants.MinCellars)
	}
	for _, l := range levelSlots {
		v.byLevel[l.index()] = generateLevel(rooms, cellars, l)
	}
	return v, nil
}

// GenerateLevel produces the patterns of a single diversity level.
func GenerateLevel(rooms, cellars []*room.Room, l Level) []Pattern {
	if !l.Valid() {
		return nil
	}
	return generateLevel(rooms, cellars, l)
}

func generateLevel(rooms, cellars []*room.Room, l Level) []Pattern {
	k := int(l)
	if k > len(rooms) || len(cellars) == 0 {
		return nil
	}

	layouts := Layouts(l)
	out := make([]Pattern, 0, Count(len(rooms), len(cellars), l))

	Tuples(len(rooms), k, func(tuple []int) bool {
		for _, doubled := range layouts {
			scheme := Expand(tuple, doubled)
			points := InsertionPoints(scheme)
			for _, cellar := range cellars {
				for _, at := range points {
					out = append(out, place(rooms, scheme, cellar, at))
				}
			}
		}
		return true
	})

	return out
}

// place builds a pattern from a room scheme with the cellar inserted before
// scheme[at].
func place(rooms []*room.Room, scheme []int, cellar *room.Room, at int) Pattern {
	var p Pattern
	slot := 0
	for i, idx := range scheme {
		if i == at {
			p[slot] = cellar
			slot++
		}
		p[slot] = rooms[idx]
		slot++
	}
	if at == len(scheme) {
		p[slot] = cellar
	}
	return p
}
