// Package availability decides whether a requested interval conflicts with
// the bookings already on a turf's calendar, and enumerates the free slots of
// a day. It only inspects the aggregates handed to it; loading bookings and
// committing the winning one atomically is the store's job.
package availability

import (
	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/timeslot"
)

// Defaults used when a turf carries no operating hours for the day.
const (
	DefaultOpen  = "06:00"
	DefaultClose = "23:00"
)

// SlotMinutes is the granularity of the bookable grid.
const SlotMinutes = 60

// Slot is one free bookable interval.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Conflicts reports whether req overlaps any pending or confirmed booking in
// existing, skipping excludeID (used when rescheduling a booking against its
// own calendar entry).
func Conflicts(existing []models.Booking, req timeslot.Range, excludeID string) bool {
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		if !b.Blocks() {
			continue
		}
		r, err := timeslot.NewRange(b.StartTime, b.EndTime)
		if err != nil {
			// a malformed stored interval blocks nothing
			continue
		}
		if timeslot.Overlaps(req, r) {
			return true
		}
	}
	return false
}

// FreeSlots partitions the day's operating window into SlotMinutes slots and
// returns the ones no pending/confirmed booking overlaps. A closed day has no
// slots; a turf without hours for the day falls back to the default window.
func FreeSlots(day models.DayHours, hasHours bool, existing []models.Booking) []Slot {
	opensAt, closesAt := DefaultOpen, DefaultClose
	if hasHours {
		if !day.IsOpen {
			return nil
		}
		opensAt, closesAt = day.Open, day.Close
	}

	window, err := timeslot.NewRange(opensAt, closesAt)
	if err != nil {
		return nil
	}

	var slots []Slot
	for start := window.Start; start+SlotMinutes <= window.End; start += SlotMinutes {
		candidate := timeslot.Range{Start: start, End: start + SlotMinutes}
		if Conflicts(existing, candidate, "") {
			continue
		}
		slots = append(slots, Slot{
			StartTime: timeslot.Clock(candidate.Start),
			EndTime:   timeslot.Clock(candidate.End),
		})
	}
	return slots
}
