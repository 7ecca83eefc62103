package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/pattern"
)

func series(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func validFile() *File {
	return &File{
		Name:  "house",
		Start: "2024-01-15",
		Rooms: []RoomEntry{
			{ID: "1", Values: series(200, 100)},
			{ID: "2", Values: series(200, 110)},
			{ID: "3", Values: series(200, 120)},
			{ID: "c1", Values: series(200, 300)},
			{ID: "attic", Values: series(200, 80)},
		},
	}
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
name: demo
start: 2024-03-01T00:00:00Z
rooms:
  - id: "1"
    values: [1, 2, 3]
  - id: c
    values: [4, 5, 6]
`)
	f, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "demo", f.Name)
	require.Len(t, f.Rooms, 2)
	assert.Equal(t, "1", f.Rooms[0].ID)
	assert.Equal(t, []float64{4, 5, 6}, f.Rooms[1].Values)

	start, err := f.StartDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestParse_JSON(t *testing.T) {
	f, err := Parse([]byte(`{"name":"j","rooms":[{"id":"1","values":[7,8]}]}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "j", f.Name)
	assert.Equal(t, []float64{7, 8}, f.Rooms[0].Values)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Parse([]byte("{"), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Parse([]byte("{}"), Format("toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *File)
		wantErr error
	}{
		{"valid", func(f *File) {}, nil},
		{"missing name", func(f *File) { f.Name = " " }, ErrInvalid},
		{"bad start", func(f *File) { f.Start = "yesterday" }, ErrInvalid},
		{"no rooms", func(f *File) { f.Rooms = nil }, ErrInvalid},
		{"duplicate id", func(f *File) { f.Rooms[1].ID = "1" }, ErrInvalid},
		{"length mismatch", func(f *File) { f.Rooms[2].Values = series(199, 1) }, ErrInvalid},
		{"negative value", func(f *File) { f.Rooms[0].Values[5] = -1 }, ErrBounds},
		{"too few hours", func(f *File) {
			for i := range f.Rooms {
				f.Rooms[i].Values = series(constants.MinValueCount-1, 1)
			}
		}, ErrBounds},
		{"too many hours", func(f *File) {
			for i := range f.Rooms {
				f.Rooms[i].Values = series(constants.MaxValueCount+1, 1)
			}
		}, ErrBounds},
		{"too few rooms", func(f *File) { f.Rooms = append(f.Rooms[:2], f.Rooms[3:]...) }, ErrBounds},
		{"no cellar", func(f *File) { f.Rooms[3].ID = "4" }, ErrBounds},
		{"too many rooms", func(f *File) {
			for i := 4; i <= 9; i++ {
				f.Rooms = append(f.Rooms, RoomEntry{ID: string(rune('0' + i)), Values: series(200, 1)})
			}
		}, ErrBounds},
		{"too many cellars", func(f *File) {
			for _, id := range []string{"c2", "c3", "c4", "c5"} {
				f.Rooms = append(f.Rooms, RoomEntry{ID: id, Values: series(200, 1)})
			}
		}, ErrBounds},
		{"exact minimum", func(f *File) {
			for i := range f.Rooms {
				f.Rooms[i].Values = series(constants.MinValueCount, 1)
			}
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFile()
			tt.mutate(f)
			err := f.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "Validate() = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestBuilding(t *testing.T) {
	b, err := validFile().Building()
	require.NoError(t, err)

	assert.Equal(t, "house", b.Name())
	assert.Equal(t, 200, b.ValueCount())
	assert.Equal(t, 3, b.RoomCount())
	assert.Len(t, b.Cellars(), 1)
	assert.Len(t, b.Miscs(), 1)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), b.StartDate())
	assert.Equal(t, pattern.Count(3, 1, pattern.Three), len(b.Variations().Get(pattern.Three)))

	bad := validFile()
	bad.Rooms[0].Values[0] = -5
	_, err = bad.Building()
	assert.ErrorIs(t, err, ErrBounds)
}

func TestFromBuilding_RoundTrip(t *testing.T) {
	b, err := validFile().Building()
	require.NoError(t, err)

	f := FromBuilding(b)
	assert.Equal(t, "house", f.Name)
	assert.Equal(t, "2024-01-15T00:00:00Z", f.Start)
	assert.Len(t, f.Rooms, 5)
	require.NoError(t, f.Validate())
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"house.yaml", "house.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, validFile().Save(path))

			f, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, validFile(), f)
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "house.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("noext"))
}

func TestSynthetic(t *testing.T) {
	opts := DefaultSyntheticOptions()
	opts.Misc = 1
	f, err := Synthetic(opts)
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	assert.Len(t, f.Rooms, 6)
	assert.Equal(t, "c1", f.Rooms[4].ID)
	for _, r := range f.Rooms {
		assert.Len(t, r.Values, opts.Hours)
		for _, v := range r.Values {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}

	again, err := Synthetic(opts)
	require.NoError(t, err)
	assert.Equal(t, f, again, "same seed must give the same building")

	opts.Seed = 2
	other, err := Synthetic(opts)
	require.NoError(t, err)
	assert.NotEqual(t, f.Rooms[0].Values, other.Rooms[0].Values)
}

func TestSynthetic_InvalidOptions(t *testing.T) {
	tests := []func(o *SyntheticOptions){
		func(o *SyntheticOptions) { o.Hours = 0 },
		func(o *SyntheticOptions) { o.Rooms = -1 },
		func(o *SyntheticOptions) { o.Median = 0 },
		func(o *SyntheticOptions) { o.GSD = 0.5 },
		func(o *SyntheticOptions) { o.Diurnal = 1 },
	}
	for i, mutate := range tests {
		opts := DefaultSyntheticOptions()
		mutate(&opts)
		_, err := Synthetic(opts)
		assert.ErrorIs(t, err, ErrInvalid, "case %d", i)
	}
}
