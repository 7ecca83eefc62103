package room

import "testing"

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want Type
	}{
		{"digit is room", "1", TypeRoom},
		{"multi digit room", "12-kitchen", TypeRoom},
		{"lowercase c is cellar", "c1", TypeCellar},
		{"uppercase C is cellar", "Cellar", TypeCellar},
		{"letter is misc", "attic", TypeMisc},
		{"empty is misc", "", TypeMisc},
		{"non-ascii digit is misc", "٣", TypeMisc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.id); got != tt.want {
				t.Errorf("TypeOf(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestNew_EmptyIDBecomesMisc(t *testing.T) {
	r := New("", []float64{1, 2})
	if r.ID() != MiscSentinelID {
		t.Errorf("ID() = %q, want %q", r.ID(), MiscSentinelID)
	}
	if r.Type() != TypeMisc {
		t.Errorf("Type() = %v, want misc", r.Type())
	}
}

func TestNew_CopiesValues(t *testing.T) {
	values := []float64{1, 2, 3}
	r := New("1", values)
	values[0] = 99
	if r.Values()[0] != 1 {
		t.Errorf("room observed caller mutation: got %v", r.Values()[0])
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestWindow(t *testing.T) {
	r := New("1", []float64{0, 1, 2, 3, 4, 5})
	w := r.Window(2, 3)
	if len(w) != 3 || w[0] != 2 || w[2] != 4 {
		t.Errorf("Window(2, 3) = %v, want [2 3 4]", w)
	}
	if cap(w) != 3 {
		t.Errorf("Window cap = %d, want 3 so appends cannot clobber the series", cap(w))
	}
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"room", "cellar", "misc"} {
		if _, err := ParseType(s); err != nil {
			t.Errorf("ParseType(%q) error = %v", s, err)
		}
	}
	if _, err := ParseType("garage"); err == nil {
		t.Error("ParseType(garage) expected error")
	}
}

func TestPartition(t *testing.T) {
	all := []*Room{New("1", nil), New("c1", nil), New("x", nil), New("2", nil), New("C2", nil)}
	rooms, cellars, miscs := Partition(all)

	if got := IDs(rooms); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("rooms = %v, want [1 2]", got)
	}
	if got := IDs(cellars); len(got) != 2 || got[0] != "c1" || got[1] != "C2" {
		t.Errorf("cellars = %v, want [c1 C2]", got)
	}
	if got := IDs(miscs); len(got) != 1 || got[0] != "x" {
		t.Errorf("miscs = %v, want [x]", got)
	}
}
