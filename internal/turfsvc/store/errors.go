package store

import "errors"

var (
	// ErrNotFound means the referenced aggregate does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSlotConflict means the requested interval overlaps a pending or
	// confirmed booking for the same turf and date.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrVersionConflict means a concurrent writer updated the aggregate
	// between load and save; the caller should reload and retry.
	ErrVersionConflict = errors.New("aggregate version conflict")
)
