package building

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nvandessel/radonsim/internal/pattern"
	"github.com/nvandessel/radonsim/internal/room"
)

func makeRooms(ids []string, n int, v float64) []*room.Room {
	out := make([]*room.Room, len(ids))
	for i, id := range ids {
		values := make([]float64, n)
		for h := range values {
			values[h] = v
		}
		out[i] = room.New(id, values)
	}
	return out
}

func TestNew_PartitionsAndGenerates(t *testing.T) {
	all := makeRooms([]string{"1", "2", "c1", "3", "attic", "4"}, 200, 1)
	b, err := New("house", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), all)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if b.Name() != "house" {
		t.Errorf("Name() = %q, want house", b.Name())
	}
	if b.RoomCount() != 4 {
		t.Errorf("RoomCount() = %d, want 4", b.RoomCount())
	}
	if len(b.Cellars()) != 1 || len(b.Miscs()) != 1 {
		t.Errorf("cellars = %d, miscs = %d, want 1 and 1", len(b.Cellars()), len(b.Miscs()))
	}
	if b.ValueCount() != 200 {
		t.Errorf("ValueCount() = %d, want 200", b.ValueCount())
	}
	if len(b.All()) != 6 {
		t.Errorf("All() = %d rooms, want 6", len(b.All()))
	}

	counts := b.Variations().Counts()
	for _, l := range pattern.Levels {
		if want := pattern.Count(4, 1, l); counts[l] != want {
			t.Errorf("level %v: %d patterns, want %d", l, counts[l], want)
		}
	}
	if b.GenerationErr() != nil {
		t.Errorf("GenerationErr() = %v, want nil", b.GenerationErr())
	}
	if b.Epoch() != 1 {
		t.Errorf("Epoch() = %d, want 1", b.Epoch())
	}
}

func TestNew_MiscRoomsNeverPlaced(t *testing.T) {
	all := makeRooms([]string{"1", "2", "3", "c1", "attic"}, 168, 1)
	b, err := New("house", time.Time{}, all)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, p := range b.Variations().All() {
		for _, r := range p {
			if r.Type() == room.TypeMisc {
				t.Fatalf("misc room placed in pattern %v", p)
			}
		}
	}
}

func TestNew_InsufficientRooms(t *testing.T) {
	all := makeRooms([]string{"1", "2", "c1"}, 200, 1)
	b, err := New("small", time.Time{}, all)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !b.Variations().Empty() {
		t.Errorf("expected empty variations, got %d patterns", b.Variations().Len())
	}
	for _, l := range pattern.Levels {
		if n := len(b.Variations().Get(l)); n != 0 {
			t.Errorf("level %v has %d patterns, want 0", l, n)
		}
	}
	if !errors.Is(b.GenerationErr(), pattern.ErrInsufficientRooms) {
		t.Errorf("GenerationErr() = %v, want ErrInsufficientRooms", b.GenerationErr())
	}
}

func TestNew_ValueCountMismatch(t *testing.T) {
	all := append(makeRooms([]string{"1", "2", "3"}, 200, 1), makeRooms([]string{"c1"}, 199, 1)...)
	_, err := New("bad", time.Time{}, all)
	if !errors.Is(err, ErrValueCountMismatch) {
		t.Fatalf("New() error = %v, want ErrValueCountMismatch", err)
	}
}

func TestSetRooms_Regenerates(t *testing.T) {
	all := makeRooms([]string{"1", "2", "3", "c1"}, 200, 1)
	b, err := New("house", time.Time{}, all)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	before := b.Variations().Len()

	more := makeRooms([]string{"1", "2", "3", "4", "5"}, 200, 1)
	if err := b.SetRooms(more); err != nil {
		t.Fatalf("SetRooms() error = %v", err)
	}
	if b.Epoch() != 2 {
		t.Errorf("Epoch() = %d, want 2", b.Epoch())
	}
	after := b.Variations().Len()
	if after <= before {
		t.Errorf("variations did not grow: before %d, after %d", before, after)
	}
	if got := b.Variations().Get(pattern.Five); len(got) != pattern.Count(5, 1, pattern.Five) {
		t.Errorf("level five: %d patterns, want %d", len(got), pattern.Count(5, 1, pattern.Five))
	}

	if err := b.SetCellars(makeRooms([]string{"c1", "c2"}, 200, 1)); err != nil {
		t.Fatalf("SetCellars() error = %v", err)
	}
	if got, want := b.Variations().Len(), 2*after; got != want {
		t.Errorf("after SetCellars: %d patterns, want %d", got, want)
	}
}

func TestSetRooms_RejectsWrongTypes(t *testing.T) {
	b, err := New("house", time.Time{}, makeRooms([]string{"1", "2", "3", "c1"}, 200, 1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := b.SetRooms(makeRooms([]string{"1", "c9"}, 200, 1)); err == nil {
		t.Error("SetRooms() with a cellar expected error")
	}
	if err := b.SetCellars(makeRooms([]string{"4"}, 200, 1)); err == nil {
		t.Error("SetCellars() with a normal room expected error")
	}
	if err := b.SetRooms(makeRooms([]string{"1", "2", "3"}, 100, 1)); !errors.Is(err, ErrValueCountMismatch) {
		t.Errorf("SetRooms() with short series error = %v, want ErrValueCountMismatch", err)
	}
	if b.Epoch() != 1 {
		t.Errorf("rejected writes bumped epoch to %d", b.Epoch())
	}
}

func TestRebuild_ReportsInsufficientRooms(t *testing.T) {
	b, err := New("house", time.Time{}, makeRooms([]string{"1", "2", "3", "c1"}, 200, 1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := b.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if err := b.SetCellars(nil); !errors.Is(err, pattern.ErrInsufficientRooms) {
		t.Errorf("SetCellars(nil) error = %v, want ErrInsufficientRooms", err)
	}
	if !b.Variations().Empty() {
		t.Error("expected empty variations after removing the cellar")
	}
}

func TestConcurrentReadersDuringRebuild(t *testing.T) {
	b, err := New("house", time.Time{}, makeRooms([]string{"1", "2", "3", "4", "c1"}, 200, 1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				v, epoch := b.Snapshot()
				want := pattern.Count(4, 1, pattern.Three) + pattern.Count(4, 1, pattern.Four)
				if epoch%2 == 0 {
					want = pattern.Count(4, 2, pattern.Three) + pattern.Count(4, 2, pattern.Four)
				}
				if v.Len() != want {
					t.Errorf("epoch %d: %d patterns, want %d", epoch, v.Len(), want)
					return
				}
			}
		}()
	}

	one := makeRooms([]string{"c1"}, 200, 1)
	two := makeRooms([]string{"c1", "c2"}, 200, 1)
	for i := 0; i < 6; i++ {
		cellars := two
		if i%2 == 1 {
			cellars = one
		}
		if err := b.SetCellars(cellars); err != nil {
			t.Fatalf("SetCellars() error = %v", err)
		}
	}
	close(stop)
	wg.Wait()
}

func TestCampaign(t *testing.T) {
	b, err := New("house", time.Time{}, makeRooms([]string{"1", "2", "3", "c1"}, 200, 7))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c, err := b.Campaign(10, pattern.Three, 5)
	if err != nil {
		t.Fatalf("Campaign() error = %v", err)
	}
	if c.Start() != 10 || c.RoomMean() != 7 {
		t.Errorf("Campaign() start = %d mean = %v, want 10 and 7", c.Start(), c.RoomMean())
	}
	if _, err := b.Campaign(0, pattern.Six, 0); err == nil {
		t.Error("Campaign() on empty level expected error")
	}
}
