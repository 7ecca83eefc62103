package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements Store in memory, for tests and ephemeral runs.
type MemoryStore struct {
	mu          sync.RWMutex
	buildings   map[string]BuildingRecord
	simulations map[string]SimulationRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buildings:   make(map[string]BuildingRecord),
		simulations: make(map[string]SimulationRecord),
	}
}

// SaveBuilding inserts or replaces a building.
func (s *MemoryStore) SaveBuilding(ctx context.Context, rec BuildingRecord) error {
	if err := validateBuildingRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if prev, ok := s.buildings[rec.Name]; ok {
		rec.CreatedAt = prev.CreatedAt
	} else if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.ContentHash == "" {
		rec.ContentHash = rec.Hash()
	}
	s.buildings[rec.Name] = cloneBuilding(rec)
	return nil
}

// GetBuilding returns a building by name, or ErrNotFound.
func (s *MemoryStore) GetBuilding(ctx context.Context, name string) (*BuildingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.buildings[name]
	if !ok {
		return nil, fmt.Errorf("building %q: %w", name, ErrNotFound)
	}
	out := cloneBuilding(rec)
	return &out, nil
}

// ListBuildings returns every building ordered by name.
func (s *MemoryStore) ListBuildings(ctx context.Context) ([]BuildingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]BuildingRecord, 0, len(s.buildings))
	for _, rec := range s.buildings {
		out = append(out, cloneBuilding(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteBuilding removes a building and its simulations.
func (s *MemoryStore) DeleteBuilding(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buildings[name]; !ok {
		return fmt.Errorf("building %q: %w", name, ErrNotFound)
	}
	delete(s.buildings, name)
	for id, sim := range s.simulations {
		if sim.Building == name {
			delete(s.simulations, id)
		}
	}
	return nil
}

// SaveSimulation inserts or replaces a simulation result. Its building must exist.
func (s *MemoryStore) SaveSimulation(ctx context.Context, rec SimulationRecord) error {
	if err := validateSimulationRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buildings[rec.Building]; !ok {
		return fmt.Errorf("building %q: %w", rec.Building, ErrNotFound)
	}
	s.simulations[rec.ID] = rec
	return nil
}

// GetSimulation returns a simulation by ID, or ErrNotFound.
func (s *MemoryStore) GetSimulation(ctx context.Context, id string) (*SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.simulations[id]
	if !ok {
		return nil, fmt.Errorf("simulation %q: %w", id, ErrNotFound)
	}
	return &rec, nil
}

// ListSimulations returns simulations newest first.
func (s *MemoryStore) ListSimulations(ctx context.Context, filter SimulationFilter) ([]SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []SimulationRecord
	for _, rec := range s.simulations {
		if filter.Building != "" && rec.Building != filter.Building {
			continue
		}
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b SimulationRecord) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// DeleteSimulation removes a simulation result.
func (s *MemoryStore) DeleteSimulation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.simulations[id]; !ok {
		return fmt.Errorf("simulation %q: %w", id, ErrNotFound)
	}
	delete(s.simulations, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func cloneBuilding(rec BuildingRecord) BuildingRecord {
	rooms := make([]RoomRecord, len(rec.Rooms))
	for i, r := range rec.Rooms {
		rooms[i] = RoomRecord{ID: r.ID, Type: r.Type, Values: slices.Clone(r.Values)}
	}
	rec.Rooms = rooms
	return rec
}
