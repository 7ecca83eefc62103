package store

import (
	"github.com/nvandessel/radonsim/internal/room"
	"github.com/nvandessel/radonsim/internal/simulation"
)

// roomType maps a stored type back to room.Type, falling back to misc for
// values written by a newer version.
func roomType(s string) room.Type {
	t, err := room.ParseType(s)
	if err != nil {
		return room.TypeMisc
	}
	return t
}

func simulationMode(s string) simulation.Mode {
	if simulation.Mode(s) == simulation.ModeExhaustive {
		return simulation.ModeExhaustive
	}
	return simulation.ModeRandom
}
