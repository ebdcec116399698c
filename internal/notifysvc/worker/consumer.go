// Package worker consumes domain events off NATS and turns them into
// human-readable notifications.
package worker

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/openturf/turf-services/internal/comm"
	"github.com/openturf/turf-services/internal/notifysvc/notifier"
)

// queueGroup makes multiple notifysvc instances share the stream instead of
// each delivering the same notification.
const queueGroup = "notifysvc"

type Consumer struct {
	conn     *nats.Conn
	notifier notifier.Notifier
	subs     []*nats.Subscription
}

func NewConsumer(nc *nats.Conn, n notifier.Notifier) *Consumer {
	return &Consumer{conn: nc, notifier: n}
}

func (c *Consumer) Subscribe() error {
	for _, subject := range []string{"booking.*", "game.>"} {
		sub, err := c.conn.QueueSubscribe(subject, queueGroup, c.handle)
		if err != nil {
			c.Unsubscribe()
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		c.subs = append(c.subs, sub)
	}
	return nil
}

func (c *Consumer) Unsubscribe() {
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
}

func (c *Consumer) handle(msg *nats.Msg) {
	subject, message, err := render(msg.Subject, msg.Data)
	if err != nil {
		log.Errorf("Failed to decode event on %s: %v", msg.Subject, err)
		return
	}
	if subject == "" {
		log.Warnf("skip unknown subject %s", msg.Subject)
		return
	}

	if err := c.notifier.Notify(subject, message); err != nil {
		log.Errorf("Failed to deliver notification for %s: %v", msg.Subject, err)
	}
}

// render maps an event to a notification line. An empty subject means the
// event is not one we notify about.
func render(subject string, data []byte) (string, string, error) {
	switch subject {
	case comm.SubjectBookingCreated:
		var ev comm.BookingEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return "", "", err
		}
		return "Booking created",
			fmt.Sprintf("Booking %s for turf %s on %s %s-%s (total %s)",
				ev.BookingID, ev.TurfID, ev.Date, ev.StartTime, ev.EndTime, ev.TotalAmount), nil

	case comm.SubjectBookingStatus:
		var ev comm.BookingEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return "", "", err
		}
		return "Booking updated",
			fmt.Sprintf("Booking %s is now %s", ev.BookingID, ev.Status), nil

	case comm.SubjectBookingCancelled:
		var ev comm.BookingEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return "", "", err
		}
		return "Booking cancelled",
			fmt.Sprintf("Booking %s on %s %s-%s was cancelled", ev.BookingID, ev.Date, ev.StartTime, ev.EndTime), nil

	case comm.SubjectGamePlayerJoined:
		var ev comm.GameEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return "", "", err
		}
		return "Player joined",
			fmt.Sprintf("User %s joined game %s (%d/%d players)", ev.UserID, ev.GameID, ev.CurrentPlayers, ev.MaxPlayers), nil

	case comm.SubjectGamePlayerLeft:
		var ev comm.GameEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return "", "", err
		}
		return "Player left",
			fmt.Sprintf("User %s left game %s (%d/%d players)", ev.UserID, ev.GameID, ev.CurrentPlayers, ev.MaxPlayers), nil

	case comm.SubjectGameRequestCreated:
		var ev comm.GameEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return "", "", err
		}
		return "Join request",
			fmt.Sprintf("User %s asked to join game %s, host %s has a pending request", ev.UserID, ev.GameID, ev.HostID), nil

	case comm.SubjectGameRequestDecided:
		var ev comm.GameEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return "", "", err
		}
		verdict := "rejected"
		if ev.Approved {
			verdict = "approved"
		}
		return "Join request decided",
			fmt.Sprintf("Request of user %s for game %s was %s", ev.UserID, ev.GameID, verdict), nil

	case comm.SubjectGameCancelled:
		var ev comm.GameEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return "", "", err
		}
		return "Game cancelled",
			fmt.Sprintf("Game %s at turf %s was cancelled", ev.GameID, ev.TurfID), nil
	}

	return "", "", nil
}
