// Package room defines the measured room: an identifier, a type derived from
// that identifier, and an hourly radon concentration series.
package room

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Type categorizes a room by the role it plays in a campaign.
type Type string

const (
	TypeRoom   Type = "room"   // Normal living room, fills one of the six room slots
	TypeCellar Type = "cellar" // Cellar, fills the single cellar slot
	TypeMisc   Type = "misc"   // Stored with the building but never placed in a pattern
)

// MiscSentinelID is the identifier given to rooms constructed with an empty id.
const MiscSentinelID = "misc"

// TypeOf derives a room type from the first character of id:
// 'c' or 'C' is a cellar, a decimal digit is a normal room, anything else is misc.
func TypeOf(id string) Type {
	r, _ := utf8.DecodeRuneInString(id)
	switch {
	case r == 'c' || r == 'C':
		return TypeCellar
	case r < utf8.RuneSelf && unicode.IsDigit(r):
		return TypeRoom
	default:
		return TypeMisc
	}
}

// ParseType maps a type name back to a Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeRoom, TypeCellar, TypeMisc:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown room type %q", s)
}

// Room is an immutable measured room. The zero value is not useful; use New.
type Room struct {
	id     string
	typ    Type
	values []float64
}

// New creates a room. The values are copied so later changes to the caller's
// slice are not observed. An empty id is replaced by MiscSentinelID.
func New(id string, values []float64) *Room {
	if id == "" {
		id = MiscSentinelID
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Room{id: id, typ: TypeOf(id), values: v}
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Type returns the room type derived at construction.
func (r *Room) Type() Type { return r.typ }

// Len returns the number of hourly values.
func (r *Room) Len() int { return len(r.values) }

// Values returns the hourly series. Callers must not modify the returned slice.
func (r *Room) Values() []float64 { return r.values }

// Window returns n values starting at offset without copying.
// It panics like a slice expression when the window is out of range.
func (r *Room) Window(offset, n int) []float64 {
	return r.values[offset : offset+n : offset+n]
}

// IsCellar reports whether the room fills the cellar slot.
func (r *Room) IsCellar() bool { return r.typ == TypeCellar }

// String implements fmt.Stringer.
func (r *Room) String() string { return r.id }

// Partition splits rooms by type, preserving input order within each group.
func Partition(all []*Room) (rooms, cellars, miscs []*Room) {
	for _, r := range all {
		switch r.typ {
		case TypeRoom:
			rooms = append(rooms, r)
		case TypeCellar:
			cellars = append(cellars, r)
		default:
			miscs = append(miscs, r)
		}
	}
	return rooms, cellars, miscs
}

// IDs returns the identifiers of rooms in order.
func IDs(rooms []*Room) []string {
	ids := make([]string, len(rooms))
	for i, r := range rooms {
		ids[i] = r.id
	}
	return ids
}
