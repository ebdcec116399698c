package service

import (
	"context"
	"errors"

	"github.com/openturf/turf-services/internal/turfsvc/availability"
	"github.com/openturf/turf-services/internal/turfsvc/models"
)

// Narrow collaborator contracts. The postgres stores in the store package and
// the NATS broker implement them; tests substitute in-memory fakes.

type BookingStore interface {
	CreateIfAvailable(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListForTurfDate(ctx context.Context, turfID, date string, statuses []string) ([]models.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, status string, version int64) (*models.Booking, error)
	UpdatePayment(ctx context.Context, bookingID, paymentStatus, paymentMethod string, version int64) (*models.Booking, error)
}

type GameStore interface {
	Create(ctx context.Context, g *models.Game) error
	GetByID(ctx context.Context, gameID string) (*models.Game, error)
	List(ctx context.Context, status, turfID, date string) ([]*models.Game, error)
	Save(ctx context.Context, g *models.Game) error
}

type TurfStore interface {
	GetByID(ctx context.Context, turfID string) (*models.Turf, error)
	ListActive(ctx context.Context) ([]*models.Turf, error)
	Create(ctx context.Context, t *models.Turf) error
}

type UserStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

type EventPublisher interface {
	Publish(subject string, event interface{})
}

type SlotCache interface {
	GetSlots(ctx context.Context, turfID, date string) ([]availability.Slot, bool)
	SetSlots(ctx context.Context, turfID, date string, slots []availability.Slot)
	Invalidate(ctx context.Context, turfID, date string)
}

var (
	ErrTurfInactive = errors.New("turf is not active")
	ErrForbidden    = errors.New("caller is not allowed to perform this action")
	ErrInvalidInput = errors.New("invalid input")
)
