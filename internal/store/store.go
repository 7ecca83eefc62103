// Package store persists buildings and simulation reports.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nvandessel/radonsim/internal/building"
	"github.com/nvandessel/radonsim/internal/room"
	"github.com/nvandessel/radonsim/internal/simulation"
)

// ErrNotFound is returned when a building or simulation does not exist.
var ErrNotFound = errors.New("not found")

// RoomRecord is one persisted room.
type RoomRecord struct {
	ID     string    `json:"id"`
	Type   room.Type `json:"type"`
	Values []float64 `json:"values"`
}

// BuildingRecord is a persisted building: its rooms in their original order.
type BuildingRecord struct {
	Name        string       `json:"name"`
	StartDate   time.Time    `json:"start_date"`
	Rooms       []RoomRecord `json:"rooms"`
	ContentHash string       `json:"content_hash,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ValueCount returns the number of hourly values per room.
func (r BuildingRecord) ValueCount() int {
	if len(r.Rooms) == 0 {
		return 0
	}
	return len(r.Rooms[0].Values)
}

// Hash returns a content hash over the room ids and values.
func (r BuildingRecord) Hash() string {
	h := sha256.New()
	var buf [8]byte
	for _, rr := range r.Rooms {
		h.Write([]byte(rr.ID))
		h.Write([]byte{0})
		for _, v := range rr.Values {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}

// Building rebuilds the domain aggregate from the record.
func (r BuildingRecord) Building() (*building.Building, error) {
	rooms := make([]*room.Room, len(r.Rooms))
	for i, rr := range r.Rooms {
		rooms[i] = room.New(rr.ID, rr.Values)
	}
	b, err := building.New(r.Name, r.StartDate, rooms)
	if err != nil {
		return nil, fmt.Errorf("building %q: %w", r.Name, err)
	}
	return b, nil
}

// NewBuildingRecord captures a building for persistence.
func NewBuildingRecord(b *building.Building) BuildingRecord {
	all := b.All()
	rec := BuildingRecord{
		Name:      b.Name(),
		StartDate: b.StartDate(),
		Rooms:     make([]RoomRecord, len(all)),
	}
	for i, r := range all {
		rec.Rooms[i] = RoomRecord{ID: r.ID(), Type: r.Type(), Values: r.Values()}
	}
	rec.ContentHash = rec.Hash()
	return rec
}

// SimulationRecord is a persisted simulation result. Campaigns are never
// persisted; the report carries the eight distribution summaries.
type SimulationRecord struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Date     time.Time         `json:"date"`
	Building string            `json:"building"`
	Mode     simulation.Mode   `json:"mode"`
	Seed     int64             `json:"seed"`
	Count    int               `json:"count"`
	Report   simulation.Report `json:"report"`
}

// NewSimulationRecord captures a finished simulation for persistence.
func NewSimulationRecord(sim *simulation.Simulation) SimulationRecord {
	return SimulationRecord{
		ID:       sim.ID,
		Name:     sim.Name,
		Date:     sim.Date,
		Building: sim.Building,
		Mode:     sim.Mode,
		Seed:     sim.Seed,
		Count:    sim.Count,
		Report:   sim.Summary(),
	}
}

// SimulationFilter narrows ListSimulations. Zero fields match everything.
type SimulationFilter struct {
	Building string
	Limit    int
}

// Store persists buildings and simulation results.
type Store interface {
	SaveBuilding(ctx context.Context, rec BuildingRecord) error
	GetBuilding(ctx context.Context, name string) (*BuildingRecord, error)
	ListBuildings(ctx context.Context) ([]BuildingRecord, error)
	// DeleteBuilding removes a building and every simulation run against it.
	DeleteBuilding(ctx context.Context, name string) error

	SaveSimulation(ctx context.Context, rec SimulationRecord) error
	GetSimulation(ctx context.Context, id string) (*SimulationRecord, error)
	// ListSimulations returns simulations newest first.
	ListSimulations(ctx context.Context, filter SimulationFilter) ([]SimulationRecord, error)
	DeleteSimulation(ctx context.Context, id string) error

	Close() error
}

func validateBuildingRecord(rec BuildingRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("building name is required")
	}
	if len(rec.Rooms) == 0 {
		return fmt.Errorf("building %q has no rooms", rec.Name)
	}
	return nil
}

func validateSimulationRecord(rec SimulationRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("simulation ID is required")
	}
	if rec.Building == "" {
		return fmt.Errorf("simulation %s has no building", rec.ID)
	}
	return nil
}
