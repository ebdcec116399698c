// Package nats wraps the connection to the event bus shared by turfsvc and
// notifysvc.
package nats

import (
	"os"

	"github.com/nats-io/nats.go"
)

const defaultURL = "nats://localhost:4222"

type Nats struct {
	Url   string
	Token string
	Conn  *nats.Conn
}

// Connect dials the bus configured by NATS_URL / NATS_TOKEN.
func Connect() (*Nats, error) {
	n := &Nats{
		Url:   os.Getenv("NATS_URL"),
		Token: os.Getenv("NATS_TOKEN"),
	}

	if n.Url == "" {
		n.Url = defaultURL
	}

	opts := []nats.Option{
		nats.Name("turf-services"),
	}

	if n.Token != "" {
		opts = append(opts, nats.Token(n.Token))
	}

	conn, err := nats.Connect(n.Url, opts...)
	if err != nil {
		return nil, err
	}

	n.Conn = conn

	return n, nil
}
