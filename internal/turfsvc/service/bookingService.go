package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openturf/turf-services/internal/comm"
	"github.com/openturf/turf-services/internal/turfsvc/availability"
	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/pricing"
	"github.com/openturf/turf-services/internal/turfsvc/store"
	"github.com/openturf/turf-services/internal/turfsvc/timeslot"
)

// statuses that occupy a slot
var blockingStatuses = []string{models.BookingStatusPending, models.BookingStatusConfirmed}

type BookingService struct {
	bookings BookingStore
	turfs    TurfStore
	slots    SlotCache
	events   EventPublisher
}

func NewBookingService(bookings BookingStore, turfs TurfStore, slots SlotCache, events EventPublisher) *BookingService {
	return &BookingService{bookings: bookings, turfs: turfs, slots: slots, events: events}
}

type CreateBookingInput struct {
	UserID        string `json:"-"`
	TurfID        string `json:"turfId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	TotalPlayers  int    `json:"totalPlayers"`
	PaymentMethod string `json:"paymentMethod"`
}

// Create prices and inserts a booking. The overlap check and the insert are
// atomic in the store, so a racing request for the same slot loses with
// store.ErrSlotConflict instead of double-booking.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if _, err := timeslot.NewRange(in.StartTime, in.EndTime); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, in.Date)
	}
	if in.TotalPlayers <= 0 {
		in.TotalPlayers = 1
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentMethodNone
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: payment method %q", ErrInvalidInput, in.PaymentMethod)
	}

	turf, err := s.turfs.GetByID(ctx, in.TurfID)
	if err != nil {
		return nil, err
	}
	if !turf.IsActive {
		return nil, ErrTurfInactive
	}

	amount, err := pricing.Quote(in.Date, in.StartTime, in.EndTime, turf.PricePerHour, turf.PricePerHourWeekend)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	b := &models.Booking{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		TurfID:        in.TurfID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		TotalPlayers:  in.TotalPlayers,
		TotalAmount:   amount,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: in.PaymentMethod,
	}

	if err := s.bookings.CreateIfAvailable(ctx, b); err != nil {
		return nil, err
	}

	if s.slots != nil {
		s.slots.Invalidate(ctx, b.TurfID, b.Date)
	}
	s.publish(comm.SubjectBookingCreated, b)

	return b, nil
}

// CheckAvailability reports whether [start, end) is free on the turf's
// calendar for the date. excludeBookingID skips the caller's own booking when
// probing a reschedule.
func (s *BookingService) CheckAvailability(ctx context.Context, turfID, date, start, end, excludeBookingID string) (bool, error) {
	rng, err := timeslot.NewRange(start, end)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.turfs.GetByID(ctx, turfID); err != nil {
		return false, err
	}

	existing, err := s.bookings.ListForTurfDate(ctx, turfID, date, blockingStatuses)
	if err != nil {
		return false, err
	}

	return !availability.Conflicts(existing, rng, excludeBookingID), nil
}

// AvailableSlots lists the free bookable slots of a turf for a date,
// consulting the cache first.
func (s *BookingService) AvailableSlots(ctx context.Context, turfID, date string) ([]availability.Slot, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, date)
	}

	turf, err := s.turfs.GetByID(ctx, turfID)
	if err != nil {
		return nil, err
	}

	if s.slots != nil {
		if cached, ok := s.slots.GetSlots(ctx, turfID, date); ok {
			return cached, nil
		}
	}

	existing, err := s.bookings.ListForTurfDate(ctx, turfID, date, blockingStatuses)
	if err != nil {
		return nil, err
	}

	hours, hasHours := turf.HoursFor(day.Weekday())
	free := availability.FreeSlots(hours, hasHours, existing)

	if s.slots != nil {
		s.slots.SetSlots(ctx, turfID, date, free)
	}
	return free, nil
}

func (s *BookingService) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookings.ListForUser(ctx, userID)
}

// UpdateStatus applies an externally driven status transition (confirm,
// complete, cancel). The store's version check catches concurrent writers;
// a conflicting write is retried against the fresh aggregate.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, status string) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, fmt.Errorf("%w: booking status %q", ErrInvalidInput, status)
	}

	for attempt := 0; attempt < saveAttempts; attempt++ {
		current, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		updated, err := s.bookings.UpdateStatus(ctx, bookingID, status, current.Version)
		if err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			return nil, err
		}

		if s.slots != nil {
			s.slots.Invalidate(ctx, updated.TurfID, updated.Date)
		}
		subject := comm.SubjectBookingStatus
		if status == models.BookingStatusCancelled {
			subject = comm.SubjectBookingCancelled
		}
		s.publish(subject, updated)
		return updated, nil
	}
	return nil, store.ErrVersionConflict
}

func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, models.BookingStatusCancelled)
}

// UpdatePayment records a payment state change coming from the payment flow.
func (s *BookingService) UpdatePayment(ctx context.Context, bookingID, paymentStatus, paymentMethod string) (*models.Booking, error) {
	if !models.ValidPaymentStatus(paymentStatus) {
		return nil, fmt.Errorf("%w: payment status %q", ErrInvalidInput, paymentStatus)
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%w: payment method %q", ErrInvalidInput, paymentMethod)
	}

	for attempt := 0; attempt < saveAttempts; attempt++ {
		current, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		updated, err := s.bookings.UpdatePayment(ctx, bookingID, paymentStatus, paymentMethod, current.Version)
		if err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			return nil, err
		}
		return updated, nil
	}
	return nil, store.ErrVersionConflict
}

func (s *BookingService) publish(subject string, b *models.Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(subject, comm.BookingEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		TurfID:      b.TurfID,
		Date:        b.Date,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
		TotalAmount: b.TotalAmount.StringFixed(2),
		OccurredAt:  time.Now().UTC(),
	})
}
