// Package dataset reads and writes building definition files: a building
// name, an optional start date, and the hourly radon series of every room.
//
// Files are YAML or JSON:
//
//	name: demo-house
//	start: 2024-01-15
//	rooms:
//	  - id: "1"
//	    values: [112.0, 98.5, ...]
//	  - id: c1
//	    values: [340.0, 355.1, ...]
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/radonsim/internal/building"
	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/room"
)

// ErrBounds is wrapped by every validation failure that puts a building
// outside the supported import ranges.
var ErrBounds = errors.New("building out of bounds")

// ErrInvalid is wrapped by structural validation failures.
var ErrInvalid = errors.New("invalid building file")

// Format is a building file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension. Unknown extensions
// are treated as YAML, which also accepts JSON documents.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// RoomEntry is one room of a building file.
type RoomEntry struct {
	ID     string    `yaml:"id" json:"id"`
	Values []float64 `yaml:"values,flow" json:"values"`
}

// File is a parsed building definition.
type File struct {
	Name  string      `yaml:"name" json:"name"`
	Start string      `yaml:"start,omitempty" json:"start,omitempty"`
	Rooms []RoomEntry `yaml:"rooms" json:"rooms"`
}

// Load reads and parses a building file. It does not validate it.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading building file: %w", err)
	}
	f, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a building file.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: parsing JSON: %v", ErrInvalid, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML: %v", ErrInvalid, err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return &f, nil
}

// Marshal encodes the file.
func (f *File) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(f, "", "  ")
	case FormatYAML:
		return yaml.Marshal(f)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Save writes the file, choosing the format from the extension.
func (f *File) Save(path string) error {
	data, err := f.Marshal(FormatFromPath(path))
	if err != nil {
		return fmt.Errorf("encoding building file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing building file: %w", err)
	}
	return nil
}

// StartDate parses Start as RFC 3339 or a plain date. An empty Start yields
// the zero time.
func (f *File) StartDate() (time.Time, error) {
	if f.Start == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, f.Start); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: start %q is not a date", ErrInvalid, f.Start)
}

// Validate checks the file against the supported import bounds. It reports
// the first violation found.
func (f *File) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if _, err := f.StartDate(); err != nil {
		return err
	}
	if len(f.Rooms) == 0 {
		return fmt.Errorf("%w: building %q has no rooms", ErrInvalid, f.Name)
	}

	seen := make(map[string]bool, len(f.Rooms))
	valueCount := len(f.Rooms[0].Values)
	var normal, cellars int
	for _, r := range f.Rooms {
		id := r.ID
		if id == "" {
			id = room.MiscSentinelID
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate room id %q", ErrInvalid, id)
		}
		seen[id] = true

		if len(r.Values) != valueCount {
			return fmt.Errorf("%w: room %q has %d values, room %q has %d",
				ErrInvalid, id, len(r.Values), f.Rooms[0].ID, valueCount)
		}
		for h, v := range r.Values {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: room %q hour %d has value %v", ErrBounds, id, h, v)
			}
		}

		switch room.TypeOf(r.ID) {
		case room.TypeRoom:
			normal++
		case room.TypeCellar:
			cellars++
		}
	}

	if err := inRange("hourly values", valueCount, constants.MinValueCount, constants.MaxValueCount); err != nil {
		return err
	}
	if err := inRange("rooms", normal, constants.MinRooms, constants.MaxRooms); err != nil {
		return err
	}
	return inRange("cellars", cellars, constants.MinCellars, constants.MaxCellars)
}

func inRange(what string, n, lo, hi int) error {
	if n < lo || n > hi {
		return fmt.Errorf("%w: %d %s, want %d to %d", ErrBounds, n, what, lo, hi)
	}
	return nil
}

// ToRooms converts the entries into rooms in file order.
func (f *File) ToRooms() []*room.Room {
	out := make([]*room.Room, len(f.Rooms))
	for i, r := range f.Rooms {
		out[i] = room.New(r.ID, r.Values)
	}
	return out
}

// Building validates the file and builds the domain aggregate.
func (f *File) Building() (*building.Building, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	start, err := f.StartDate()
	if err != nil {
		return nil, err
	}
	return building.New(f.Name, start, f.ToRooms())
}

// FromBuilding exports a building back into file form.
func FromBuilding(b *building.Building) *File {
	f := &File{Name: b.Name()}
	if start := b.StartDate(); !start.IsZero() {
		f.Start = start.Format(time.RFC3339)
	}
	for _, r := range b.All() {
		f.Rooms = append(f.Rooms, RoomEntry{ID: r.ID(), Values: r.Values()})
	}
	return f
}
