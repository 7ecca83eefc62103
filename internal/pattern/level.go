package pattern

import (
	"fmt"

	"github.com/nvandessel/radonsim/internal/constants"
)

// Level is the number of distinct normal rooms used to fill the six room slots.
type Level int

const (
	Three Level = 3
	Four  Level = 4
	Five  Level = 5
	Six   Level = 6
)

// Levels lists every diversity level in generation order.
var Levels = []Level{Three, Four, Five, Six}

// Valid reports whether l is one of the four diversity levels.
func (l Level) Valid() bool {
	return l >= Three && l <= Six
}

// Doubled returns how many distinct rooms fill two slots at this level.
func (l Level) Doubled() int {
	return constants.RoomSlots - int(l)
}

// InsertionCount returns the number of cellar positions per room scheme.
// Positions that would split a doubled room are excluded.
func (l Level) InsertionCount() int {
	return constants.Slots - l.Doubled()
}

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case Three:
		return "three"
	case Four:
		return "four"
	case Five:
		return "five"
	case Six:
		return "six"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel converts an integer from user input into a Level.
func ParseLevel(n int) (Level, error) {
	l := Level(n)
	if !l.Valid() {
		return 0, fmt.Errorf("invalid diversity level %d (valid: 3, 4, 5, 6)", n)
	}
	return l, nil
}

func (l Level) index() int {
	return int(l - Three)
}
