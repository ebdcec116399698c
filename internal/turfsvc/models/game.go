package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GameStatusOpen       = "open"
	GameStatusFull       = "full"
	GameStatusInProgress = "in_progress"
	GameStatusCompleted  = "completed"
	GameStatusCancelled  = "cancelled"
)

const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
	SkillAll          = "all"
)

const JoinRequestPending = "pending"

// JoinRequest is a pending membership request on a private game.
type JoinRequest struct {
	UserID      string    `json:"userId"`
	RequestedAt time.Time `json:"requestedAt"`
	Status      string    `json:"status"`
}

// Game is a host-organized pickup session at a turf. The host is the first
// confirmed participant and is never listed in ConfirmedPlayers; MaxPlayers
// includes the host, and CurrentPlayers = len(ConfirmedPlayers) + 1.
type Game struct {
	ID               string              `json:"id"`
	HostID           string              `json:"hostId"`
	TurfID           string              `json:"turfId"`
	Date             string              `json:"date"`
	StartTime        string              `json:"startTime"`
	EndTime          string              `json:"endTime"`
	Sport            string              `json:"sport"`
	Format           string              `json:"format,omitempty"` // e.g. "5v5"
	SkillLevel       string              `json:"skillLevel"`
	MaxPlayers       int                 `json:"maxPlayers"`
	CurrentPlayers   int                 `json:"currentPlayers"`
	CostPerPerson    decimal.NullDecimal `json:"costPerPerson,omitempty"`
	Description      string              `json:"description,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	IsPrivate        bool                `json:"isPrivate"`
	ConfirmedPlayers []string            `json:"confirmedPlayers"`
	JoinRequests     []JoinRequest       `json:"joinRequests"`
	Status           string              `json:"status"`
	Version          int64               `json:"version"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// IsConfirmed reports whether userID is the host or a confirmed player.
func (g *Game) IsConfirmed(userID string) bool {
	if userID == g.HostID {
		return true
	}
	for _, id := range g.ConfirmedPlayers {
		if id == userID {
			return true
		}
	}
	return false
}

// HasRequest reports whether userID has a pending join request.
func (g *Game) HasRequest(userID string) bool {
	for _, r := range g.JoinRequests {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// IsParticipant reports whether userID has any relationship to the game,
// used by the private-game read gate.
func (g *Game) IsParticipant(userID string) bool {
	return g.IsConfirmed(userID) || g.HasRequest(userID)
}

func ValidGameStatus(s string) bool {
	switch s {
	case GameStatusOpen, GameStatusFull, GameStatusInProgress, GameStatusCompleted, GameStatusCancelled:
		return true
	}
	return false
}

func ValidSkillLevel(s string) bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillAll:
		return true
	}
	return false
}
