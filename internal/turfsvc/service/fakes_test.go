package service

import (
	"context"
	"sync"

	"github.com/openturf/turf-services/internal/turfsvc/availability"
	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/store"
	"github.com/openturf/turf-services/internal/turfsvc/timeslot"
)

// In-memory collaborators mirroring the postgres stores' contracts,
// including version checking on save.

func copyGame(g *models.Game) *models.Game {
	c := *g
	c.ConfirmedPlayers = append([]string(nil), g.ConfirmedPlayers...)
	c.JoinRequests = append([]models.JoinRequest(nil), g.JoinRequests...)
	return &c
}

type fakeGameStore struct {
	mu            sync.Mutex
	games         map[string]*models.Game
	conflictsLeft int // Save fails with ErrVersionConflict this many times
	saves         int
}

func newFakeGameStore(games ...*models.Game) *fakeGameStore {
	s := &fakeGameStore{games: map[string]*models.Game{}}
	for _, g := range games {
		if g.Version == 0 {
			g.Version = 1
		}
		s.games[g.ID] = copyGame(g)
	}
	return s
}

func (s *fakeGameStore) Create(ctx context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.Version = 1
	s.games[g.ID] = copyGame(g)
	return nil
}

func (s *fakeGameStore) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyGame(g), nil
}

func (s *fakeGameStore) List(ctx context.Context, status, turfID, date string) ([]*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Game
	for _, g := range s.games {
		if status != "" && g.Status != status {
			continue
		}
		if turfID != "" && g.TurfID != turfID {
			continue
		}
		if date != "" && g.Date != date {
			continue
		}
		out = append(out, copyGame(g))
	}
	return out, nil
}

func (s *fakeGameStore) Save(ctx context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return store.ErrVersionConflict
	}
	current, ok := s.games[g.ID]
	if !ok {
		return store.ErrNotFound
	}
	if current.Version != g.Version {
		return store.ErrVersionConflict
	}
	g.Version++
	s.games[g.ID] = copyGame(g)
	return nil
}

type fakeTurfStore struct {
	turfs map[string]*models.Turf
}

func newFakeTurfStore(turfs ...*models.Turf) *fakeTurfStore {
	s := &fakeTurfStore{turfs: map[string]*models.Turf{}}
	for _, t := range turfs {
		s.turfs[t.ID] = t
	}
	return s
}

func (s *fakeTurfStore) GetByID(ctx context.Context, turfID string) (*models.Turf, error) {
	t, ok := s.turfs[turfID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (s *fakeTurfStore) ListActive(ctx context.Context) ([]*models.Turf, error) {
	var out []*models.Turf
	for _, t := range s.turfs {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTurfStore) Create(ctx context.Context, t *models.Turf) error {
	s.turfs[t.ID] = t
	return nil
}

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingStore(bookings ...*models.Booking) *fakeBookingStore {
	s := &fakeBookingStore{bookings: map[string]*models.Booking{}}
	for _, b := range bookings {
		if b.Version == 0 {
			b.Version = 1
		}
		s.bookings[b.ID] = b
	}
	return s
}

func (s *fakeBookingStore) CreateIfAvailable(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rng, err := timeslot.NewRange(b.StartTime, b.EndTime)
	if err != nil {
		return err
	}
	var existing []models.Booking
	for _, e := range s.bookings {
		if e.TurfID == b.TurfID && e.Date == b.Date {
			existing = append(existing, *e)
		}
	}
	if availability.Conflicts(existing, rng, "") {
		return store.ErrSlotConflict
	}
	b.Version = 1
	c := *b
	s.bookings[b.ID] = &c
	return nil
}

func (s *fakeBookingStore) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (s *fakeBookingStore) ListForTurfDate(ctx context.Context, turfID, date string, statuses []string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.TurfID != turfID || b.Date != date {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, *b)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeBookingStore) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) UpdateStatus(ctx context.Context, bookingID, status string, version int64) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if b.Version != version {
		return nil, store.ErrVersionConflict
	}
	b.Status = status
	b.Version++
	c := *b
	return &c, nil
}

func (s *fakeBookingStore) UpdatePayment(ctx context.Context, bookingID, paymentStatus, paymentMethod string, version int64) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if b.Version != version {
		return nil, store.ErrVersionConflict
	}
	b.PaymentStatus = paymentStatus
	b.PaymentMethod = paymentMethod
	b.Version++
	c := *b
	return &c, nil
}

type publishedEvent struct {
	subject string
	event   interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(subject string, event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, event: event})
}

func (p *fakePublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

type fakeSlotCache struct {
	mu          sync.Mutex
	data        map[string][]availability.Slot
	invalidated []string
}

func newFakeSlotCache() *fakeSlotCache {
	return &fakeSlotCache{data: map[string][]availability.Slot{}}
}

func (c *fakeSlotCache) GetSlots(ctx context.Context, turfID, date string) ([]availability.Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slots, ok := c.data[turfID+":"+date]
	return slots, ok
}

func (c *fakeSlotCache) SetSlots(ctx context.Context, turfID, date string, slots []availability.Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[turfID+":"+date] = slots
}

func (c *fakeSlotCache) Invalidate(ctx context.Context, turfID, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, turfID+":"+date)
	c.invalidated = append(c.invalidated, turfID+":"+date)
}
