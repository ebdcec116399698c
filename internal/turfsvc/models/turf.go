package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayHours is one weekday entry of a turf's operating-hours map.
// Open and Close are wall-clock "HH:MM" strings.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	IsOpen bool   `json:"isOpen"`
}

type Turf struct {
	ID                  string              `json:"id"`
	OwnerID             string              `json:"ownerId"`
	Name                string              `json:"name"`
	Address             string              `json:"address,omitempty"`
	Sports              []string            `json:"sports,omitempty"`
	PricePerHour        decimal.Decimal     `json:"pricePerHour"`
	PricePerHourWeekend decimal.NullDecimal `json:"pricePerHourWeekend,omitempty"`
	OperatingHours      map[string]DayHours `json:"operatingHours,omitempty"` // keyed by lowercase weekday name
	IsActive            bool                `json:"isActive"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// HoursFor returns the operating hours for the weekday of the given date.
// The second return is false when no entry exists for that weekday.
func (t *Turf) HoursFor(weekday time.Weekday) (DayHours, bool) {
	if t.OperatingHours == nil {
		return DayHours{}, false
	}
	dh, ok := t.OperatingHours[weekdayKey(weekday)]
	return dh, ok
}

func weekdayKey(d time.Weekday) string {
	switch d {
	case time.Sunday:
		return "sunday"
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	}
	return ""
}
