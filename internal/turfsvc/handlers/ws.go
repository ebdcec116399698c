package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	natsio "github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Feed pushes domain events to websocket clients. Events arrive over NATS
// (the same subjects notifysvc consumes) and fan out to every connection.
type Feed struct {
	upgrader websocket.Upgrader
	connMap  sync.Map // socketId -> *feedConn
}

type feedConn struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes, gorilla allows one writer at a time
}

type FeedMessage struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}

func NewFeed() *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe wires the feed to the event bus. Returns the subscriptions so the
// caller can unsubscribe on shutdown.
func (f *Feed) Subscribe(nc *natsio.Conn) ([]*natsio.Subscription, error) {
	var subs []*natsio.Subscription
	for _, subject := range []string{"booking.*", "game.>"} {
		sub, err := nc.Subscribe(subject, func(msg *natsio.Msg) {
			f.broadcast(msg.Subject, msg.Data)
		})
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (f *Feed) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	f.connMap.Store(socketId, &feedConn{conn: conn})
	log.Infof("New WebSocket connection established: %s", socketId)

	go f.handleConnection(conn, socketId)
}

// handleConnection drains the read side until the client goes away. The feed
// is one-directional, incoming frames are discarded.
func (f *Feed) handleConnection(conn *websocket.Conn, socketId string) {
	defer func() {
		conn.Close()
		f.connMap.Delete(socketId)
		log.Infof("Closing WebSocket connection: %s", socketId)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", socketId, err)
			}
			return
		}
	}
}

func (f *Feed) broadcast(subject string, data []byte) {
	out, err := json.Marshal(FeedMessage{Subject: subject, Data: data})
	if err != nil {
		log.Errorf("Failed to marshal feed message: %v", err)
		return
	}

	f.connMap.Range(func(key, value interface{}) bool {
		fc := value.(*feedConn)
		fc.mu.Lock()
		err := fc.conn.WriteMessage(websocket.TextMessage, out)
		fc.mu.Unlock()
		if err != nil {
			log.Warnf("Dropping WebSocket connection %s: %v", key.(string), err)
			fc.conn.Close()
			f.connMap.Delete(key)
		}
		return true
	})
}
