// Package broker publishes domain events to NATS for downstream consumers
// (notification service, live websocket feed).
package broker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

// Publish marshals the event and sends it on the subject. Event delivery is
// best effort; a failed publish never fails the request that caused it, so
// errors are only logged.
func (b *Broker) Publish(subject string, event interface{}) {
	if b == nil || b.Conn == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Error marshaling event for %s: %s", subject, err)
		return
	}

	if err := b.Conn.Publish(subject, data); err != nil {
		log.Errorf("Error publishing event to %s: %s", subject, err)
	}
}
