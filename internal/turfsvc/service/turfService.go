package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/timeslot"
)

type TurfService struct {
	turfs TurfStore
}

func NewTurfService(turfs TurfStore) *TurfService {
	return &TurfService{turfs: turfs}
}

func (s *TurfService) Get(ctx context.Context, turfID string) (*models.Turf, error) {
	return s.turfs.GetByID(ctx, turfID)
}

func (s *TurfService) ListActive(ctx context.Context) ([]*models.Turf, error) {
	return s.turfs.ListActive(ctx)
}

type CreateTurfInput struct {
	OwnerID             string                     `json:"-"`
	Name                string                     `json:"name"`
	Address             string                     `json:"address"`
	Sports              []string                   `json:"sports"`
	PricePerHour        string                     `json:"pricePerHour"`
	PricePerHourWeekend string                     `json:"pricePerHourWeekend"`
	OperatingHours      map[string]models.DayHours `json:"operatingHours"`
}

// Create registers a turf listing. Role checks (owner/admin) are the
// caller's concern.
func (s *TurfService) Create(ctx context.Context, in CreateTurfInput) (*models.Turf, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	hourly, err := decimal.NewFromString(in.PricePerHour)
	if err != nil || !hourly.IsPositive() {
		return nil, fmt.Errorf("%w: pricePerHour %q", ErrInvalidInput, in.PricePerHour)
	}

	var weekend decimal.NullDecimal
	if in.PricePerHourWeekend != "" {
		d, err := decimal.NewFromString(in.PricePerHourWeekend)
		if err != nil || !d.IsPositive() {
			return nil, fmt.Errorf("%w: pricePerHourWeekend %q", ErrInvalidInput, in.PricePerHourWeekend)
		}
		weekend = decimal.NewNullDecimal(d)
	}

	for day, hours := range in.OperatingHours {
		if !hours.IsOpen {
			continue
		}
		if _, err := timeslot.NewRange(hours.Open, hours.Close); err != nil {
			return nil, fmt.Errorf("%w: operating hours for %s: %v", ErrInvalidInput, day, err)
		}
	}

	t := &models.Turf{
		ID:                  uuid.NewString(),
		OwnerID:             in.OwnerID,
		Name:                in.Name,
		Address:             in.Address,
		Sports:              in.Sports,
		PricePerHour:        hourly,
		PricePerHourWeekend: weekend,
		OperatingHours:      in.OperatingHours,
		IsActive:            true,
	}

	if err := s.turfs.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
