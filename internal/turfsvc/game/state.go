// Package game implements the membership state machine for pickup-game
// sessions. Every operation works on a loaded Game aggregate and is
// deterministic for a given snapshot; persisting the mutated aggregate (and
// serializing concurrent writers) is the caller's job.
//
// Capacity convention: MaxPlayers includes the host, the host is never listed
// in ConfirmedPlayers, and CurrentPlayers = len(ConfirmedPlayers) + 1.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/timeslot"
)

var (
	ErrGameClosed       = errors.New("game is not accepting changes")
	ErrGameFull         = errors.New("game is already full")
	ErrAlreadyJoined    = errors.New("user is already a confirmed player")
	ErrAlreadyRequested = errors.New("user already has a pending join request")
	ErrNotMember        = errors.New("user is not a player or requester of this game")
	ErrNotHost          = errors.New("only the host can respond to join requests")
	ErrNoPendingRequest = errors.New("no pending join request for this user")
	ErrValidation       = errors.New("invalid game field")
)

// membershipOpen reports whether join/leave/approve operations are allowed
// at all. in_progress, completed and cancelled are terminal for membership.
func membershipOpen(g *models.Game) bool {
	return g.Status == models.GameStatusOpen || g.Status == models.GameStatusFull
}

// recompute refreshes the derived player count and flips the status between
// open and full. It never touches terminal states.
func recompute(g *models.Game) {
	g.CurrentPlayers = len(g.ConfirmedPlayers) + 1
	if g.Status != models.GameStatusOpen && g.Status != models.GameStatusFull {
		return
	}
	if g.CurrentPlayers >= g.MaxPlayers {
		g.Status = models.GameStatusFull
	} else {
		g.Status = models.GameStatusOpen
	}
}

// Join adds userID to the game. Public games confirm immediately; private
// games queue a join request for the host to approve. Precondition order:
// status strictly open, spare capacity, not already confirmed, not already
// requested.
func Join(g *models.Game, userID string, now time.Time) error {
	if g.Status != models.GameStatusOpen {
		return ErrGameClosed
	}
	if len(g.ConfirmedPlayers)+1 >= g.MaxPlayers {
		return ErrGameFull
	}
	if g.IsConfirmed(userID) {
		return ErrAlreadyJoined
	}
	if g.HasRequest(userID) {
		return ErrAlreadyRequested
	}

	if g.IsPrivate {
		g.JoinRequests = append(g.JoinRequests, models.JoinRequest{
			UserID:      userID,
			RequestedAt: now.UTC(),
			Status:      models.JoinRequestPending,
		})
		return nil
	}

	g.ConfirmedPlayers = append(g.ConfirmedPlayers, userID)
	recompute(g)
	return nil
}

// Leave removes userID from the roster and from the request queue. It fails
// when the user was in neither, so a double leave reports failure twice
// without mutating anything.
func Leave(g *models.Game, userID string) error {
	if !membershipOpen(g) {
		return ErrGameClosed
	}

	removed := false

	players := g.ConfirmedPlayers[:0]
	for _, id := range g.ConfirmedPlayers {
		if id == userID {
			removed = true
			continue
		}
		players = append(players, id)
	}
	g.ConfirmedPlayers = players

	requests := g.JoinRequests[:0]
	for _, r := range g.JoinRequests {
		if r.UserID == userID {
			removed = true
			continue
		}
		requests = append(requests, r)
	}
	g.JoinRequests = requests

	if !removed {
		return ErrNotMember
	}
	recompute(g)
	return nil
}

// Respond lets the host approve or reject a pending join request. Approval
// promotes the requester to the roster, subject to capacity; rejection drops
// the request and changes nothing else.
func Respond(g *models.Game, hostID, targetID string, approve bool) error {
	if !membershipOpen(g) {
		return ErrGameClosed
	}
	if hostID != g.HostID {
		return ErrNotHost
	}
	if !g.HasRequest(targetID) {
		return ErrNoPendingRequest
	}
	if approve && len(g.ConfirmedPlayers)+1 >= g.MaxPlayers {
		return ErrGameFull
	}

	requests := g.JoinRequests[:0]
	for _, r := range g.JoinRequests {
		if r.UserID == targetID {
			continue
		}
		requests = append(requests, r)
	}
	g.JoinRequests = requests

	if approve {
		g.ConfirmedPlayers = append(g.ConfirmedPlayers, targetID)
		recompute(g)
	}
	return nil
}

// Patch carries the editable game fields; nil means "leave unchanged".
type Patch struct {
	Date          *string `json:"date"`
	StartTime     *string `json:"startTime"`
	EndTime       *string `json:"endTime"`
	Sport         *string `json:"sport"`
	Format        *string `json:"format"`
	SkillLevel    *string `json:"skillLevel"`
	MaxPlayers    *int    `json:"maxPlayers"`
	CostPerPerson *string `json:"costPerPerson"`
	Description   *string `json:"description"`
	Notes         *string `json:"notes"`
	IsPrivate     *bool   `json:"isPrivate"`
	Status        *string `json:"status"`
}

// Update merges the patch into the game. Games that are running or finished
// can no longer be edited.
func Update(g *models.Game, p Patch) error {
	if g.Status == models.GameStatusInProgress || g.Status == models.GameStatusCompleted {
		return ErrGameClosed
	}

	if p.SkillLevel != nil && !models.ValidSkillLevel(*p.SkillLevel) {
		return fmt.Errorf("%w: skill level %q", ErrValidation, *p.SkillLevel)
	}
	if p.Status != nil && !models.ValidGameStatus(*p.Status) {
		return fmt.Errorf("%w: status %q", ErrValidation, *p.Status)
	}
	if p.MaxPlayers != nil {
		if *p.MaxPlayers < 2 {
			return fmt.Errorf("%w: maxPlayers must be at least 2", ErrValidation)
		}
		if *p.MaxPlayers < len(g.ConfirmedPlayers)+1 {
			return fmt.Errorf("%w: maxPlayers below current roster", ErrValidation)
		}
	}
	if p.StartTime != nil || p.EndTime != nil {
		start, end := g.StartTime, g.EndTime
		if p.StartTime != nil {
			start = *p.StartTime
		}
		if p.EndTime != nil {
			end = *p.EndTime
		}
		if _, err := timeslot.NewRange(start, end); err != nil {
			return fmt.Errorf("%w: %s-%s", ErrValidation, start, end)
		}
		g.StartTime, g.EndTime = start, end
	}

	if p.Date != nil {
		g.Date = *p.Date
	}
	if p.Sport != nil {
		g.Sport = *p.Sport
	}
	if p.Format != nil {
		g.Format = *p.Format
	}
	if p.SkillLevel != nil {
		g.SkillLevel = *p.SkillLevel
	}
	if p.CostPerPerson != nil {
		if err := setCost(g, *p.CostPerPerson); err != nil {
			return err
		}
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Notes != nil {
		g.Notes = *p.Notes
	}
	if p.IsPrivate != nil {
		g.IsPrivate = *p.IsPrivate
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.MaxPlayers != nil {
		g.MaxPlayers = *p.MaxPlayers
	}

	recompute(g)
	return nil
}

func setCost(g *models.Game, raw string) error {
	if raw == "" {
		g.CostPerPerson = decimal.NullDecimal{}
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return fmt.Errorf("%w: costPerPerson %q", ErrValidation, raw)
	}
	g.CostPerPerson = decimal.NewNullDecimal(d)
	return nil
}

// Cancel marks the game cancelled. Running and finished games stay as they are.
func Cancel(g *models.Game) error {
	if g.Status == models.GameStatusInProgress || g.Status == models.GameStatusCompleted {
		return ErrGameClosed
	}
	g.Status = models.GameStatusCancelled
	return nil
}
