package layout

import "testing"

func TestRooms_CoverEveryBedExactlyOnce(t *testing.T) {
	seen := make(map[int]string)
	for _, r := range Rooms {
		for id := r.FirstBed; id <= r.LastBed; id++ {
			if prev, ok := seen[id]; ok {
				t.Errorf("bed %d mapped to both %s and %s", id, prev, r.Name)
			}
			seen[id] = r.Name
		}
	}
	for id := MinBedID; id <= MaxBedID; id++ {
		if _, ok := seen[id]; !ok {
			t.Errorf("bed %d not mapped to any room", id)
		}
	}
	if len(seen) != MaxBedID {
		t.Errorf("expected %d beds mapped, got %d", MaxBedID, len(seen))
	}
}

func TestRooms_ContiguousAcrossFloors(t *testing.T) {
	next := MinBedID
	for _, r := range Rooms {
		if r.FirstBed != next {
			t.Errorf("room %s starts at %d, expected %d", r.Name, r.FirstBed, next)
		}
		next = r.LastBed + 1
	}
	if next != MaxBedID+1 {
		t.Errorf("last room ends at %d, expected %d", next-1, MaxBedID)
	}
}

func TestByBedID(t *testing.T) {
	tests := []struct {
		id    int
		room  string
		floor int
	}{
		{1, "TOP_LEFT", 2},
		{4, "TOP_LEFT", 2},
		{5, "LEFT", 2},
		{31, "BOTTOM_CENTER", 2},
		{32, "LEFT_TOP", 3},
		{33, "LEFT_TOP", 3},
		{53, "RIGHT_BOTTOM", 3},
	}
	for _, tt := range tests {
		r, ok := ByBedID(tt.id)
		if !ok {
			t.Errorf("bed %d: not found", tt.id)
			continue
		}
		if r.Name != tt.room || r.Floor != tt.floor {
			t.Errorf("bed %d: got %s/floor %d, want %s/floor %d", tt.id, r.Name, r.Floor, tt.room, tt.floor)
		}
	}

	if _, ok := ByBedID(0); ok {
		t.Error("bed 0 should not resolve")
	}
	if _, ok := ByBedID(54); ok {
		t.Error("bed 54 should not resolve")
	}
}

func TestByName(t *testing.T) {
	r, ok := ByName("MIDDLE")
	if !ok || r.Floor != 3 || r.BedCount() != 6 {
		t.Errorf("unexpected MIDDLE room: %+v ok=%v", r, ok)
	}
	if _, ok := ByName("BASEMENT"); ok {
		t.Error("unknown room should not resolve")
	}
}

func TestOnFloor(t *testing.T) {
	f2 := OnFloor(2)
	if len(f2) != 5 {
		t.Errorf("expected 5 rooms on floor 2, got %d", len(f2))
	}
	total := 0
	for _, r := range f2 {
		total += r.BedCount()
	}
	if total != 31 {
		t.Errorf("expected 31 beds on floor 2, got %d", total)
	}

	f3 := OnFloor(3)
	total = 0
	for _, r := range f3 {
		total += r.BedCount()
	}
	if total != 22 {
		t.Errorf("expected 22 beds on floor 3, got %d", total)
	}
}

func TestCheck(t *testing.T) {
	if d := Check(5, "LEFT", 2); len(d) != 0 {
		t.Errorf("expected no discrepancies, got %v", d)
	}
	if d := Check(5, "CENTER", 2); len(d) != 1 {
		t.Errorf("expected room discrepancy, got %v", d)
	}
	if d := Check(5, "CENTER", 3); len(d) != 2 {
		t.Errorf("expected room and floor discrepancies, got %v", d)
	}
	if d := Check(99, "LEFT", 2); len(d) != 1 {
		t.Errorf("expected out-of-range discrepancy, got %v", d)
	}
}
