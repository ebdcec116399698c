// Package pricing derives booking totals from the requested interval and the
// turf's hourly rates.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openturf/turf-services/internal/turfsvc/timeslot"
)

var (
	ErrInvalidInterval = errors.New("pricing: end time must be after start time")
	ErrInvalidDate     = errors.New("pricing: invalid date, want YYYY-MM-DD")
)

var sixty = decimal.NewFromInt(60)

// Quote computes the amount for a booking of [start, end) on date. The
// weekend rate applies on Saturday and Sunday when set, otherwise the hourly
// rate is used for every day.
func Quote(date, start, end string, hourly decimal.Decimal, weekend decimal.NullDecimal) (decimal.Decimal, error) {
	rng, err := timeslot.NewRange(start, end)
	if err != nil {
		return decimal.Zero, ErrInvalidInterval
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return decimal.Zero, ErrInvalidDate
	}

	rate := hourly
	if weekend.Valid && isWeekend(day.Weekday()) {
		rate = weekend.Decimal
	}

	hours := decimal.NewFromInt(int64(rng.DurationMinutes())).Div(sixty)
	return rate.Mul(hours), nil
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}
