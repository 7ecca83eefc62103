// Package campaign materializes one simulated "6+1" measurement week from a
// room pattern and a start hour, and computes its summary statistics.
package campaign

import (
	"errors"
	"fmt"

	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/pattern"
	"github.com/nvandessel/radonsim/internal/stats"
)

var (
	// ErrStartOutOfRange is returned when the start hour leaves less than a
	// full week of data in some slot's room.
	ErrStartOutOfRange = errors.New("campaign start hour out of range")

	// ErrNoCellar is returned when a pattern has no cellar slot or an empty slot.
	ErrNoCellar = errors.New("pattern has no cellar slot")
)

// Campaign is one simulated measurement week. It is immutable.
type Campaign struct {
	start      int
	pattern    pattern.Pattern
	cellarSlot int
	chain      []float64
	scalars    [NumKinds]float64
}

// New builds the campaign that starts at hour start and measures the rooms of
// p, one 24-hour window per slot. Slot i covers hours
// [start+24i, start+24i+24) of its room.
func New(start int, p pattern.Pattern) (*Campaign, error) {
	cellarSlot := -1
	for i, r := range p {
		if r == nil {
			return nil, fmt.Errorf("%w: slot %d is empty", ErrNoCellar, i)
		}
		if r.IsCellar() {
			if cellarSlot >= 0 {
				return nil, fmt.Errorf("pattern %v has cellars in slots %d and %d", p, cellarSlot, i)
			}
			cellarSlot = i
		}
	}
	if cellarSlot < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoCellar, p)
	}

	if start < 0 {
		return nil, fmt.Errorf("%w: start %d is negative", ErrStartOutOfRange, start)
	}
	for _, r := range p {
		if start+constants.CampaignHours > r.Len() {
			return nil, fmt.Errorf("%w: start %d needs %d values in room %s, has %d",
				ErrStartOutOfRange, start, start+constants.CampaignHours, r.ID(), r.Len())
		}
	}

	c := &Campaign{
		start:      start,
		pattern:    p,
		cellarSlot: cellarSlot,
		chain:      make([]float64, 0, constants.CampaignHours),
	}
	for i, r := range p {
		c.chain = append(c.chain, r.Window(start+i*constants.HoursPerSlot, constants.HoursPerSlot)...)
	}
	c.scalars = Compute(c.chain, cellarSlot)
	return c, nil
}

// Compute returns the eight scalar statistics of a 168-value chain whose
// cellar window sits in slot cellarSlot. It is a pure function of its inputs.
func Compute(chain []float64, cellarSlot int) [NumKinds]float64 {
	rooms, cellar := Split(chain, cellarSlot)

	var out [NumKinds]float64
	out[RoomMean] = stats.Mean(rooms)
	out[RoomGeoMean] = stats.GeometricMean(rooms)
	out[RoomMedian] = stats.Median(rooms)
	out[RoomMax] = stats.Max(rooms)
	out[CellarMean] = stats.Mean(cellar)
	out[CellarGeoMean] = stats.GeometricMean(cellar)
	out[CellarMedian] = stats.Median(cellar)
	out[CellarMax] = stats.Max(cellar)
	return out
}

// Split partitions a chain into the room values (all slots but the cellar, in
// slot order) and the cellar values.
func Split(chain []float64, cellarSlot int) (rooms, cellar []float64) {
	lo := cellarSlot * constants.HoursPerSlot
	hi := lo + constants.HoursPerSlot
	rooms = make([]float64, 0, len(chain)-constants.HoursPerSlot)
	rooms = append(rooms, chain[:lo]...)
	rooms = append(rooms, chain[hi:]...)
	return rooms, chain[lo:hi:hi]
}

// Start returns the hour offset the campaign starts at.
func (c *Campaign) Start() int { return c.start }

// Pattern returns the room pattern.
func (c *Campaign) Pattern() pattern.Pattern { return c.pattern }

// CellarSlot returns the slot index holding the cellar.
func (c *Campaign) CellarSlot() int { return c.cellarSlot }

// Chain returns the 168 concatenated hourly values. Callers must not modify it.
func (c *Campaign) Chain() []float64 { return c.chain }

// RoomValues returns the 144 values of the normal-room slots, in slot order.
func (c *Campaign) RoomValues() []float64 {
	rooms, _ := Split(c.chain, c.cellarSlot)
	return rooms
}

// CellarValues returns the 24 values of the cellar slot.
func (c *Campaign) CellarValues() []float64 {
	_, cellar := Split(c.chain, c.cellarSlot)
	return cellar
}

// SlotIDs returns the room identifier of each slot.
func (c *Campaign) SlotIDs() []string { return c.pattern.IDs() }

// Scalar returns the statistic of the given kind.
func (c *Campaign) Scalar(k Kind) float64 { return c.scalars[k] }

// Scalars returns all eight statistics indexed by Kind.
func (c *Campaign) Scalars() [NumKinds]float64 { return c.scalars }

// RoomMean returns the arithmetic mean of the room slots.
func (c *Campaign) RoomMean() float64 { return c.scalars[RoomMean] }

// RoomGeoMean returns the geometric mean of the room slots.
func (c *Campaign) RoomGeoMean() float64 { return c.scalars[RoomGeoMean] }

// RoomMedian returns the median of the room slots.
func (c *Campaign) RoomMedian() float64 { return c.scalars[RoomMedian] }

// RoomMax returns the maximum of the room slots.
func (c *Campaign) RoomMax() float64 { return c.scalars[RoomMax] }

// CellarMean returns the arithmetic mean of the cellar slot.
func (c *Campaign) CellarMean() float64 { return c.scalars[CellarMean] }

// CellarGeoMean returns the geometric mean of the cellar slot.
func (c *Campaign) CellarGeoMean() float64 { return c.scalars[CellarGeoMean] }

// CellarMedian returns the median of the cellar slot.
func (c *Campaign) CellarMedian() float64 { return c.scalars[CellarMedian] }

// CellarMax returns the maximum of the cellar slot.
func (c *Campaign) CellarMax() float64 { return c.scalars[CellarMax] }

// Record is the export shape of a campaign.
type Record struct {
	Start   int                `json:"start"`
	Slots   []string           `json:"slots"`
	Cellar  int                `json:"cellar_slot"`
	Chain   []float64          `json:"chain,omitempty"`
	Scalars map[string]float64 `json:"scalars"`
}

// Record returns the export shape of c. The chain is included when withChain is set.
func (c *Campaign) Record(withChain bool) Record {
	r := Record{
		Start:   c.start,
		Slots:   c.SlotIDs(),
		Cellar:  c.cellarSlot,
		Scalars: make(map[string]float64, NumKinds),
	}
	if withChain {
		r.Chain = append([]float64(nil), c.chain...)
	}
	for _, k := range Kinds {
		r.Scalars[k.String()] = c.scalars[k]
	}
	return r
}
