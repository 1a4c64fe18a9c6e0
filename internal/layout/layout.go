// Package layout holds the static floor-plan table mapping contiguous bed-id
// ranges to named rooms. The table is authoritative for grid geometry; the
// server's room/floor fields are authoritative for membership. Check surfaces
// any disagreement between the two instead of reconciling it.
package layout

import "fmt"

type Room struct {
	Name     string
	Floor    int
	FirstBed int
	LastBed  int
	// Rows is the number of grid rows the room renders with.
	Rows int
}

// BedCount returns how many beds the room holds.
func (r Room) BedCount() int {
	return r.LastBed - r.FirstBed + 1
}

const (
	MinBedID = 1
	MaxBedID = 53
)

// Rooms lists every room on floors 2 and 3 in bed-id order.
var Rooms = []Room{
	{Name: "TOP_LEFT", Floor: 2, FirstBed: 1, LastBed: 4, Rows: 2},
	{Name: "LEFT", Floor: 2, FirstBed: 5, LastBed: 11, Rows: 4},
	{Name: "CENTER", Floor: 2, FirstBed: 12, LastBed: 18, Rows: 4},
	{Name: "RIGHT", Floor: 2, FirstBed: 19, LastBed: 25, Rows: 4},
	{Name: "BOTTOM_CENTER", Floor: 2, FirstBed: 26, LastBed: 31, Rows: 3},
	{Name: "LEFT_TOP", Floor: 3, FirstBed: 32, LastBed: 33, Rows: 1},
	{Name: "LEFT_BOTTOM", Floor: 3, FirstBed: 34, LastBed: 39, Rows: 3},
	{Name: "MIDDLE", Floor: 3, FirstBed: 40, LastBed: 45, Rows: 3},
	{Name: "RIGHT_TOP", Floor: 3, FirstBed: 46, LastBed: 47, Rows: 1},
	{Name: "RIGHT_BOTTOM", Floor: 3, FirstBed: 48, LastBed: 53, Rows: 3},
}

// ByBedID returns the room a bed id falls into.
func ByBedID(id int) (Room, bool) {
	for _, r := range Rooms {
		if id >= r.FirstBed && id <= r.LastBed {
			return r, true
		}
	}
	return Room{}, false
}

// ByName returns the room with the given name.
func ByName(name string) (Room, bool) {
	for _, r := range Rooms {
		if r.Name == name {
			return r, true
		}
	}
	return Room{}, false
}

// OnFloor returns the rooms on a floor in bed-id order.
func OnFloor(floor int) []Room {
	var out []Room
	for _, r := range Rooms {
		if r.Floor == floor {
			out = append(out, r)
		}
	}
	return out
}

// Discrepancy records a disagreement between the static table and a
// server-provided bed record.
type Discrepancy struct {
	BedID  int    `json:"bedId"`
	Detail string `json:"detail"`
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("bed %d: %s", d.BedID, d.Detail)
}

// Check compares a server-provided bed record against the static table and
// returns every disagreement found.
func Check(id int, room string, floor int) []Discrepancy {
	want, ok := ByBedID(id)
	if !ok {
		return []Discrepancy{{
			BedID:  id,
			Detail: fmt.Sprintf("id outside the known range %d-%d", MinBedID, MaxBedID),
		}}
	}

	var out []Discrepancy
	if room != want.Name {
		out = append(out, Discrepancy{
			BedID:  id,
			Detail: fmt.Sprintf("room %q does not match table room %q", room, want.Name),
		})
	}
	if floor != want.Floor {
		out = append(out, Discrepancy{
			BedID:  id,
			Detail: fmt.Sprintf("floor %d does not match table floor %d", floor, want.Floor),
		})
	}
	return out
}
