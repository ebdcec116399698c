package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openturf/turf-services/internal/comm"
	"github.com/openturf/turf-services/internal/turfsvc/availability"
	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/store"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func pricedTurf(id string) *models.Turf {
	return &models.Turf{
		ID:                  id,
		OwnerID:             "owner",
		Name:                "City Arena",
		PricePerHour:        dec(800),
		PricePerHourWeekend: decimal.NewNullDecimal(dec(1000)),
		OperatingHours: map[string]models.DayHours{
			"saturday": {Open: "08:00", Close: "12:00", IsOpen: true},
			"sunday":   {Open: "08:00", Close: "12:00", IsOpen: true},
			"monday":   {IsOpen: false},
		},
		IsActive: true,
	}
}

func TestBookingServiceCreateWeekendPricing(t *testing.T) {
	bookings := newFakeBookingStore()
	pub := &fakePublisher{}
	svc := NewBookingService(bookings, newFakeTurfStore(pricedTurf("t1")), newFakeSlotCache(), pub)

	// 2025-06-08 is a Sunday
	b, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "09:00", EndTime: "11:00",
	})
	require.NoError(t, err)
	assert.True(t, b.TotalAmount.Equal(dec(2000)), "got %s", b.TotalAmount)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
	assert.Equal(t, models.PaymentMethodNone, b.PaymentMethod)
	assert.NotEmpty(t, b.ID)

	assert.Equal(t, []string{comm.SubjectBookingCreated}, pub.subjects())
}

func TestBookingServiceCreateConflict(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(&models.Booking{
		ID: "b1", UserID: "u1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "14:00", EndTime: "15:00", Status: models.BookingStatusConfirmed,
	}), newFakeTurfStore(pricedTurf("t1")), nil, nil)

	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u2", TurfID: "t1", Date: "2025-06-08",
		StartTime: "13:30", EndTime: "14:30",
	})
	assert.ErrorIs(t, err, store.ErrSlotConflict)

	// back-to-back is fine
	_, err = svc.Create(context.Background(), CreateBookingInput{
		UserID: "u2", TurfID: "t1", Date: "2025-06-08",
		StartTime: "15:00", EndTime: "16:00",
	})
	assert.NoError(t, err)
}

// Concurrent creates for the same empty slot: the check and the insert are
// atomic in the store, so exactly one racer wins and the calendar never holds
// two blocking bookings for the interval.
func TestBookingServiceCreateRacersOneWinner(t *testing.T) {
	bookings := newFakeBookingStore()
	svc := NewBookingService(bookings, newFakeTurfStore(pricedTurf("t1")), nil, nil)

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), CreateBookingInput{
				UserID: fmt.Sprintf("u%d", i), TurfID: "t1", Date: "2025-06-08",
				StartTime: "09:00", EndTime: "10:00",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, store.ErrSlotConflict)
		}
	}
	assert.Equal(t, 1, winners)

	booked, err := bookings.ListForTurfDate(context.Background(), "t1", "2025-06-08", blockingStatuses)
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}

func TestBookingServiceCreateValidation(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(), newFakeTurfStore(pricedTurf("t1")), nil, nil)

	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "15:00", EndTime: "14:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), CreateBookingInput{
		UserID: "u1", TurfID: "t1", Date: "08/06/2025",
		StartTime: "14:00", EndTime: "15:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), CreateBookingInput{
		UserID: "u1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "14:00", EndTime: "15:00", PaymentMethod: "crypto",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBookingServiceCreateInactiveTurf(t *testing.T) {
	turf := pricedTurf("t1")
	turf.IsActive = false
	svc := NewBookingService(newFakeBookingStore(), newFakeTurfStore(turf), nil, nil)

	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "14:00", EndTime: "15:00",
	})
	assert.ErrorIs(t, err, ErrTurfInactive)
}

func TestBookingServiceCheckAvailability(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(&models.Booking{
		ID: "b1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "14:00", EndTime: "15:00", Status: models.BookingStatusConfirmed,
	}), newFakeTurfStore(pricedTurf("t1")), nil, nil)

	free, err := svc.CheckAvailability(context.Background(), "t1", "2025-06-08", "13:30", "14:30", "")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.CheckAvailability(context.Background(), "t1", "2025-06-08", "15:00", "16:00", "")
	require.NoError(t, err)
	assert.True(t, free)

	// excluding the blocking booking frees its window
	free, err = svc.CheckAvailability(context.Background(), "t1", "2025-06-08", "14:00", "15:00", "b1")
	require.NoError(t, err)
	assert.True(t, free)

	_, err = svc.CheckAvailability(context.Background(), "missing", "2025-06-08", "14:00", "15:00", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBookingServiceAvailableSlots(t *testing.T) {
	bookings := newFakeBookingStore(&models.Booking{
		ID: "b1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "09:30", EndTime: "10:30", Status: models.BookingStatusConfirmed,
	})
	cacheFake := newFakeSlotCache()
	svc := NewBookingService(bookings, newFakeTurfStore(pricedTurf("t1")), cacheFake, nil)

	// sunday window is 08:00-12:00; the 09:00 and 10:00 slots are blocked
	slots, err := svc.AvailableSlots(context.Background(), "t1", "2025-06-08")
	require.NoError(t, err)
	assert.Equal(t, []availability.Slot{
		{StartTime: "08:00", EndTime: "09:00"},
		{StartTime: "11:00", EndTime: "12:00"},
	}, slots)

	// second call comes from the cache
	cached, ok := cacheFake.GetSlots(context.Background(), "t1", "2025-06-08")
	require.True(t, ok)
	assert.Equal(t, slots, cached)

	// closed day has no slots (2025-06-09 is a Monday)
	slots, err = svc.AvailableSlots(context.Background(), "t1", "2025-06-09")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestBookingServiceCreateInvalidatesSlotCache(t *testing.T) {
	cacheFake := newFakeSlotCache()
	cacheFake.SetSlots(context.Background(), "t1", "2025-06-08", []availability.Slot{{StartTime: "09:00", EndTime: "10:00"}})
	svc := NewBookingService(newFakeBookingStore(), newFakeTurfStore(pricedTurf("t1")), cacheFake, nil)

	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)
	assert.Contains(t, cacheFake.invalidated, "t1:2025-06-08")
}

func TestBookingServiceStatusTransitions(t *testing.T) {
	bookings := newFakeBookingStore(&models.Booking{
		ID: "b1", UserID: "u1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "09:00", EndTime: "10:00", Status: models.BookingStatusPending,
	})
	pub := &fakePublisher{}
	svc := NewBookingService(bookings, newFakeTurfStore(pricedTurf("t1")), nil, pub)

	b, err := svc.UpdateStatus(context.Background(), "b1", models.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)

	b, err = svc.Cancel(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, b.Status)

	assert.Equal(t, []string{comm.SubjectBookingStatus, comm.SubjectBookingCancelled}, pub.subjects())

	_, err = svc.UpdateStatus(context.Background(), "b1", "archived")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBookingServiceUpdatePayment(t *testing.T) {
	bookings := newFakeBookingStore(&models.Booking{
		ID: "b1", UserID: "u1", TurfID: "t1", Date: "2025-06-08",
		StartTime: "09:00", EndTime: "10:00", Status: models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending, PaymentMethod: models.PaymentMethodNone,
	})
	svc := NewBookingService(bookings, newFakeTurfStore(pricedTurf("t1")), nil, nil)

	b, err := svc.UpdatePayment(context.Background(), "b1", models.PaymentStatusPaid, models.PaymentMethodOnline)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, b.PaymentStatus)
	assert.Equal(t, models.PaymentMethodOnline, b.PaymentMethod)

	_, err = svc.UpdatePayment(context.Background(), "b1", "gifted", models.PaymentMethodCash)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
