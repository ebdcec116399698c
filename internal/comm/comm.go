// Package comm holds the event payloads exchanged between services over NATS.
package comm

import "time"

// NATS subjects for domain events. notifysvc subscribes with the
// "booking.*" and "game.>" wildcards.
const (
	SubjectBookingCreated   = "booking.created"
	SubjectBookingStatus    = "booking.status"
	SubjectBookingCancelled = "booking.cancelled"

	SubjectGamePlayerJoined   = "game.player.joined"
	SubjectGamePlayerLeft     = "game.player.left"
	SubjectGameRequestCreated = "game.request.created"
	SubjectGameRequestDecided = "game.request.decided"
	SubjectGameCancelled      = "game.cancelled"
)

type BookingEvent struct {
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id"`
	TurfID      string    `json:"turf_id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type GameEvent struct {
	GameID         string    `json:"game_id"`
	TurfID         string    `json:"turf_id"`
	HostID         string    `json:"host_id"`
	UserID         string    `json:"user_id,omitempty"` // the joining/leaving/requesting user
	Approved       bool      `json:"approved,omitempty"`
	Status         string    `json:"status"`
	CurrentPlayers int       `json:"current_players"`
	MaxPlayers     int       `json:"max_players"`
	OccurredAt     time.Time `json:"occurred_at"`
}
