// Package view derives the dashboard's presentation data from raw bed
// records: per-room summaries, per-floor distributions, and the duration
// labels shown on bed cards. Everything here is pure computation.
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kazuchan1889/bed-management/pkg/client"
)

// StatusCounts tallies beds by status.
type StatusCounts struct {
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Repair      int `json:"repair"`
	Maintenance int `json:"maintenance"`
}

func (c StatusCounts) Total() int {
	return c.Available + c.Occupied + c.Repair + c.Maintenance
}

func (c *StatusCounts) add(status client.BedStatus) {
	switch status {
	case client.BedAvailable:
		c.Available++
	case client.BedOccupied:
		c.Occupied++
	case client.BedRepair:
		c.Repair++
	case client.BedMaintenance:
		c.Maintenance++
	}
}

// RoomSummary is the occupancy picture of one room. DisplayName is the
// human form of the room key, with underscores spelled as spaces.
type RoomSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Floor       int    `json:"floor"`
	StatusCounts
}

// SummarizeRooms groups beds into per-room summaries, in first-seen order.
func SummarizeRooms(beds []client.Bed) []RoomSummary {
	index := make(map[string]int)
	var out []RoomSummary
	for _, b := range beds {
		i, ok := index[b.Room]
		if !ok {
			i = len(out)
			index[b.Room] = i
			out = append(out, RoomSummary{
				Name:        b.Room,
				DisplayName: strings.ReplaceAll(b.Room, "_", " "),
				Floor:       b.Floor,
			})
		}
		out[i].add(b.Status)
	}
	return out
}

// TopRooms returns the n busiest rooms, ranked by beds that are out of
// circulation (occupied plus under repair). Ties keep first-seen order.
func TopRooms(beds []client.Bed, n int) []RoomSummary {
	rooms := SummarizeRooms(beds)
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].Occupied+rooms[i].Repair > rooms[j].Occupied+rooms[j].Repair
	})
	if n > 0 && n < len(rooms) {
		rooms = rooms[:n]
	}
	return rooms
}

// FloorSummary is the occupancy picture of one floor.
type FloorSummary struct {
	Floor int `json:"floor"`
	StatusCounts
}

// SummarizeFloors groups beds into per-floor summaries, ordered by floor.
func SummarizeFloors(beds []client.Bed) []FloorSummary {
	index := make(map[int]int)
	var out []FloorSummary
	for _, b := range beds {
		i, ok := index[b.Floor]
		if !ok {
			i = len(out)
			index[b.Floor] = i
			out = append(out, FloorSummary{Floor: b.Floor})
		}
		out[i].add(b.Status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Floor < out[j].Floor })
	return out
}

// Distribution feeds the status radar chart: one axis per status, one
// series per floor, scaled against Max.
type Distribution struct {
	Floors []FloorSummary `json:"floors"`
	Max    int            `json:"max"`
}

func FloorDistribution(beds []client.Bed) Distribution {
	d := Distribution{Floors: SummarizeFloors(beds)}
	for _, f := range d.Floors {
		for _, v := range []int{f.Available, f.Occupied, f.Repair, f.Maintenance} {
			if v > d.Max {
				d.Max = v
			}
		}
	}
	return d
}

// FormatDuration renders an occupancy duration the way the bed cards show
// it: days and hours past a day, hours and minutes past an hour, minutes
// otherwise. Negative durations clamp to zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%d hari %d jam", days, hours)
	case hours > 0:
		return fmt.Sprintf("%d jam %d menit", hours, minutes)
	default:
		return fmt.Sprintf("%d menit", minutes)
	}
}

// FormatAssignmentDuration renders how long a nurse assignment has run. An
// open assignment is measured against now; a released one against its
// release time. The hour tier drops minutes.
func FormatAssignmentDuration(assignedAt time.Time, releasedAt *time.Time, now time.Time) string {
	end := now
	if releasedAt != nil {
		end = *releasedAt
	}
	d := end.Sub(assignedAt)
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%d hari %d jam", days, hours)
	case hours > 0:
		return fmt.Sprintf("%d jam", hours)
	default:
		return fmt.Sprintf("%d menit", minutes)
	}
}
