// Package building owns a building's rooms and keeps its four variation
// schemes consistent with them.
//
// Regenerating the schemes is expensive (falling-factorial in the number of
// rooms), so it only happens on construction and on an explicit Rebuild,
// SetRooms or SetCellars. Generation runs outside the lock and the finished
// result is swapped in under a write lock: readers see either the old or the
// new schemes, never a partial state.
package building

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nvandessel/radonsim/internal/campaign"
	"github.com/nvandessel/radonsim/internal/pattern"
	"github.com/nvandessel/radonsim/internal/room"
)

// ErrValueCountMismatch is returned when rooms of one building carry series of
// different lengths.
var ErrValueCountMismatch = errors.New("rooms have different value counts")

// Building is an analyzed building with its rooms and cached variation schemes.
// It is safe for concurrent use: any number of readers, one writer at a time.
type Building struct {
	name  string
	start time.Time

	// writeMu serializes regeneration so two writers never race to swap.
	writeMu sync.Mutex

	mu         sync.RWMutex
	valueCount int
	rooms      []*room.Room
	cellars    []*room.Room
	miscs      []*room.Room
	variations pattern.Variations
	genErr     error
	epoch      uint64
}

// New creates a building from all of its rooms. Rooms are partitioned by type
// (see room.TypeOf) and the variation schemes are generated immediately.
//
// A building with too few rooms is still returned without error; its schemes
// are empty and GenerationErr reports pattern.ErrInsufficientRooms.
func New(name string, start time.Time, all []*room.Room) (*Building, error) {
	valueCount, err := commonLength(all)
	if err != nil {
		return nil, err
	}

	rooms, cellars, miscs := room.Partition(all)
	b := &Building{
		name:       name,
		start:      start,
		valueCount: valueCount,
		rooms:      rooms,
		cellars:    cellars,
		miscs:      miscs,
	}
	b.variations, b.genErr = pattern.Generate(rooms, cellars)
	b.epoch = 1
	return b, nil
}

// Name returns the building name.
func (b *Building) Name() string { return b.name }

// StartDate returns the time of the first hourly value.
func (b *Building) StartDate() time.Time { return b.start }

// ValueCount returns the number of hourly values per room.
func (b *Building) ValueCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.valueCount
}

// RoomCount returns the number of normal rooms.
func (b *Building) RoomCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms)
}

// Rooms returns the normal rooms. Callers must not modify the slice.
func (b *Building) Rooms() []*room.Room {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rooms
}

// Cellars returns the cellar rooms. Callers must not modify the slice.
func (b *Building) Cellars() []*room.Room {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cellars
}

// Miscs returns rooms that are stored but never placed in a pattern.
func (b *Building) Miscs() []*room.Room {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.miscs
}

// All returns rooms, cellars and miscs in that order.
func (b *Building) All() []*room.Room {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*room.Room, 0, len(b.rooms)+len(b.cellars)+len(b.miscs))
	out = append(out, b.rooms...)
	out = append(out, b.cellars...)
	return append(out, b.miscs...)
}

// Variations returns the cached variation schemes.
func (b *Building) Variations() pattern.Variations {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.variations
}

// Snapshot returns the variation schemes together with the epoch they belong to.
func (b *Building) Snapshot() (pattern.Variations, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.variations, b.epoch
}

// GenerationErr returns the error of the last generation, if any.
func (b *Building) GenerationErr() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.genErr
}

// Epoch increases by one every time the variation schemes are replaced.
func (b *Building) Epoch() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.epoch
}

// SetRooms replaces the normal rooms and regenerates every variation scheme.
// This is long-running; do not call it on a hot path.
func (b *Building) SetRooms(rooms []*room.Room) error {
	return b.replace(func(cur *state) { cur.rooms = rooms })
}

// SetCellars replaces the cellars and regenerates every variation scheme.
// This is long-running; do not call it on a hot path.
func (b *Building) SetCellars(cellars []*room.Room) error {
	return b.replace(func(cur *state) { cur.cellars = cellars })
}

// Rebuild regenerates every variation scheme from the current rooms.
// It returns pattern.ErrInsufficientRooms when no pattern can be built.
func (b *Building) Rebuild() error {
	return b.replace(func(*state) {})
}

type state struct {
	rooms   []*room.Room
	cellars []*room.Room
}

func (b *Building) replace(edit func(*state)) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	b.mu.RLock()
	next := state{rooms: b.rooms, cellars: b.cellars}
	miscs := b.miscs
	b.mu.RUnlock()

	edit(&next)
	for _, r := range next.rooms {
		if r.Type() != room.TypeRoom {
			return fmt.Errorf("room %s has type %s, want %s", r.ID(), r.Type(), room.TypeRoom)
		}
	}
	for _, r := range next.cellars {
		if r.Type() != room.TypeCellar {
			return fmt.Errorf("room %s has type %s, want %s", r.ID(), r.Type(), room.TypeCellar)
		}
	}

	all := make([]*room.Room, 0, len(next.rooms)+len(next.cellars)+len(miscs))
	all = append(all, next.rooms...)
	all = append(all, next.cellars...)
	all = append(all, miscs...)
	valueCount, err := commonLength(all)
	if err != nil {
		return err
	}

	variations, genErr := pattern.Generate(next.rooms, next.cellars)

	b.mu.Lock()
	b.rooms = next.rooms
	b.cellars = next.cellars
	b.valueCount = valueCount
	b.variations = variations
	b.genErr = genErr
	b.epoch++
	b.mu.Unlock()

	return genErr
}

// Campaign builds the campaign for the index-th pattern of a level, starting
// at hour start. It is meant for ad hoc inspection of single campaigns.
func (b *Building) Campaign(start int, level pattern.Level, index int) (*campaign.Campaign, error) {
	patterns := b.Variations().Get(level)
	if index < 0 || index >= len(patterns) {
		return nil, fmt.Errorf("pattern index %d out of range for level %v (%d patterns)", index, level, len(patterns))
	}
	return campaign.New(start, patterns[index])
}

func commonLength(rooms []*room.Room) (int, error) {
	if len(rooms) == 0 {
		return 0, nil
	}
	n := rooms[0].Len()
	for _, r := range rooms[1:] {
		if r.Len() != n {
			return 0, fmt.Errorf("%w: room %s has %d values, room %s has %d",
				ErrValueCountMismatch, rooms[0].ID(), n, r.ID(), r.Len())
		}
	}
	return n, nil
}
