package pattern

import (
	"strings"

	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/room"
)

// Pattern is one seven-slot room assignment. Exactly one slot holds a cellar.
type Pattern [constants.Slots]*room.Room

// CellarSlot returns the index of the cellar slot, or -1 if there is none.
func (p Pattern) CellarSlot() int {
	for i, r := range p {
		if r != nil && r.IsCellar() {
			return i
		}
	}
	return -1
}

// IDs returns the room identifiers in slot order.
func (p Pattern) IDs() []string {
	ids := make([]string, len(p))
	for i, r := range p {
		if r != nil {
			ids[i] = r.ID()
		}
	}
	return ids
}

// Distinct returns the number of distinct rooms among the non-cellar slots.
func (p Pattern) Distinct() int {
	seen := make(map[*room.Room]struct{}, constants.RoomSlots)
	for _, r := range p {
		if r == nil || r.IsCellar() {
			continue
		}
		seen[r] = struct{}{}
	}
	return len(seen)
}

// Key returns a stable string form, suitable as a map key in tests and logs.
func (p Pattern) Key() string {
	return strings.Join(p.IDs(), ",")
}

// String implements fmt.Stringer.
func (p Pattern) String() string {
	return "[" + strings.Join(p.IDs(), " ") + "]"
}
