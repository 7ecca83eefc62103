package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nvandessel/radonsim/internal/store"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// findSimulation resolves a full id or a unique id prefix.
func findSimulation(ctx context.Context, s store.Store, ref string) (*store.SimulationRecord, error) {
	rec, err := s.GetSimulation(ctx, ref)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	all, err := s.ListSimulations(ctx, store.SimulationFilter{})
	if err != nil {
		return nil, err
	}
	var match *store.SimulationRecord
	for i := range all {
		if !strings.HasPrefix(all[i].ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("simulation id %q is ambiguous", ref)
		}
		match = &all[i]
	}
	if match == nil {
		return nil, fmt.Errorf("simulation %q: %w", ref, store.ErrNotFound)
	}
	return match, nil
}
