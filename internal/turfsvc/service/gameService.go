package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openturf/turf-services/internal/comm"
	"github.com/openturf/turf-services/internal/turfsvc/game"
	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/store"
	"github.com/openturf/turf-services/internal/turfsvc/timeslot"
)

// saveAttempts bounds the reload-and-retry loop on optimistic version
// conflicts. The state machine is pure, so re-applying an operation against
// the fresh snapshot is safe.
const saveAttempts = 3

type GameService struct {
	games  GameStore
	turfs  TurfStore
	events EventPublisher
}

func NewGameService(games GameStore, turfs TurfStore, events EventPublisher) *GameService {
	return &GameService{games: games, turfs: turfs, events: events}
}

type CreateGameInput struct {
	HostID        string `json:"-"`
	TurfID        string `json:"turfId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Sport         string `json:"sport"`
	Format        string `json:"format"`
	SkillLevel    string `json:"skillLevel"`
	MaxPlayers    int    `json:"maxPlayers"`
	CostPerPerson string `json:"costPerPerson"`
	Description   string `json:"description"`
	Notes         string `json:"notes"`
	IsPrivate     bool   `json:"isPrivate"`
}

func (s *GameService) Create(ctx context.Context, in CreateGameInput) (*models.Game, error) {
	if in.Sport == "" {
		return nil, fmt.Errorf("%w: sport is required", ErrInvalidInput)
	}
	if _, err := timeslot.NewRange(in.StartTime, in.EndTime); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, in.Date)
	}
	if in.MaxPlayers < 2 {
		return nil, fmt.Errorf("%w: maxPlayers must be at least 2", ErrInvalidInput)
	}
	if in.SkillLevel == "" {
		in.SkillLevel = models.SkillAll
	}
	if !models.ValidSkillLevel(in.SkillLevel) {
		return nil, fmt.Errorf("%w: skill level %q", ErrInvalidInput, in.SkillLevel)
	}

	turf, err := s.turfs.GetByID(ctx, in.TurfID)
	if err != nil {
		return nil, err
	}
	if !turf.IsActive {
		return nil, ErrTurfInactive
	}

	g := &models.Game{
		ID:             uuid.NewString(),
		HostID:         in.HostID,
		TurfID:         in.TurfID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Sport:          in.Sport,
		Format:         in.Format,
		SkillLevel:     in.SkillLevel,
		MaxPlayers:     in.MaxPlayers,
		CurrentPlayers: 1, // the host
		Description:    in.Description,
		Notes:          in.Notes,
		IsPrivate:      in.IsPrivate,
		Status:         models.GameStatusOpen,
	}
	if in.CostPerPerson != "" {
		patch := game.Patch{CostPerPerson: &in.CostPerPerson}
		if err := game.Update(g, patch); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if err := s.games.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Get loads a game for a viewer. Private games are visible only to the host,
// confirmed players and pending requesters; everyone else gets not-found so
// the game's existence is not leaked.
func (s *GameService) Get(ctx context.Context, gameID, viewerID string) (*models.Game, error) {
	g, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.IsPrivate && !g.IsParticipant(viewerID) {
		return nil, store.ErrNotFound
	}
	return g, nil
}

// List returns games matching the filters, hiding private games the viewer
// has no relationship with.
func (s *GameService) List(ctx context.Context, status, turfID, date, viewerID string) ([]*models.Game, error) {
	all, err := s.games.List(ctx, status, turfID, date)
	if err != nil {
		return nil, err
	}

	visible := all[:0]
	for _, g := range all {
		if g.IsPrivate && !g.IsParticipant(viewerID) {
			continue
		}
		visible = append(visible, g)
	}
	return visible, nil
}

// Join adds userID to the game (or queues a request on a private game).
func (s *GameService) Join(ctx context.Context, gameID, userID string) (*models.Game, error) {
	g, err := s.mutate(ctx, gameID, func(g *models.Game) error {
		return game.Join(g, userID, time.Now())
	})
	if err != nil {
		return nil, err
	}

	if g.HasRequest(userID) {
		s.publish(comm.SubjectGameRequestCreated, g, userID, false)
	} else {
		s.publish(comm.SubjectGamePlayerJoined, g, userID, false)
	}
	return g, nil
}

func (s *GameService) Leave(ctx context.Context, gameID, userID string) (*models.Game, error) {
	g, err := s.mutate(ctx, gameID, func(g *models.Game) error {
		return game.Leave(g, userID)
	})
	if err != nil {
		return nil, err
	}
	s.publish(comm.SubjectGamePlayerLeft, g, userID, false)
	return g, nil
}

// Respond lets the host decide a pending join request.
func (s *GameService) Respond(ctx context.Context, gameID, hostID, targetID string, approve bool) (*models.Game, error) {
	g, err := s.mutate(ctx, gameID, func(g *models.Game) error {
		return game.Respond(g, hostID, targetID, approve)
	})
	if err != nil {
		return nil, err
	}
	s.publish(comm.SubjectGameRequestDecided, g, targetID, approve)
	return g, nil
}

// Update edits game fields. Only the host or an admin may call it.
func (s *GameService) Update(ctx context.Context, gameID, callerID string, isAdmin bool, patch game.Patch) (*models.Game, error) {
	return s.mutateAuthorized(ctx, gameID, callerID, isAdmin, func(g *models.Game) error {
		return game.Update(g, patch)
	})
}

// Cancel marks the game cancelled. Only the host or an admin may call it.
func (s *GameService) Cancel(ctx context.Context, gameID, callerID string, isAdmin bool) (*models.Game, error) {
	g, err := s.mutateAuthorized(ctx, gameID, callerID, isAdmin, func(g *models.Game) error {
		return game.Cancel(g)
	})
	if err != nil {
		return nil, err
	}
	s.publish(comm.SubjectGameCancelled, g, "", false)
	return g, nil
}

// mutate implements load -> pure operation -> version-checked save, retrying
// when a concurrent writer got there first.
func (s *GameService) mutate(ctx context.Context, gameID string, op func(*models.Game) error) (*models.Game, error) {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		g, err := s.games.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}

		if err := op(g); err != nil {
			return nil, err
		}

		if err := s.games.Save(ctx, g); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			return nil, err
		}
		return g, nil
	}
	return nil, store.ErrVersionConflict
}

func (s *GameService) mutateAuthorized(ctx context.Context, gameID, callerID string, isAdmin bool, op func(*models.Game) error) (*models.Game, error) {
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		if !isAdmin && callerID != g.HostID {
			return ErrForbidden
		}
		return op(g)
	})
}

func (s *GameService) publish(subject string, g *models.Game, userID string, approved bool) {
	if s.events == nil {
		return
	}
	s.events.Publish(subject, comm.GameEvent{
		GameID:         g.ID,
		TurfID:         g.TurfID,
		HostID:         g.HostID,
		UserID:         userID,
		Approved:       approved,
		Status:         g.Status,
		CurrentPlayers: g.CurrentPlayers,
		MaxPlayers:     g.MaxPlayers,
		OccurredAt:     time.Now().UTC(),
	})
}
